package cheatnet

import "github.com/foundry-rs/snforge-runtime/felt"

// TraceResultKind distinguishes a successfully returning call from one
// that panicked or errored, per spec.md §3 "CallTrace".
type TraceResultKind uint8

const (
	TraceSuccess TraceResultKind = iota
	TracePanic
	TraceError
)

// TraceResult is the outcome attached to a CallTrace node once its call
// has returned.
type TraceResult struct {
	Kind       TraceResultKind
	ReturnData []felt.Felt // TraceSuccess
	PanicData  []felt.Felt // TracePanic
	Message    string      // TraceError
}

// CallTrace is one node of the hierarchical call tree built by the Trace
// Recorder (spec.md §3, §4.6). Children are ordered depth-first in
// execution order (spec.md §5 "Ordering guarantees").
type CallTrace struct {
	EntryPoint   CallEntryPoint
	NestedCalls  []*CallTrace
	Result       TraceResult
}

// TraceRecorder maintains the current-call stack as nested calls enter
// and exit, building a CallTrace tree rooted at the first call of a test
// (spec.md §4.6). It is owned exclusively by the thread executing one
// test (spec.md §5).
type TraceRecorder struct {
	root  *CallTrace
	stack []*CallTrace
}

// NewTraceRecorder returns a recorder with no calls yet entered.
func NewTraceRecorder() *TraceRecorder {
	return &TraceRecorder{}
}

// Enter pushes a new CallTrace node for entryPoint as a child of the
// current stack top (or as the tree root, if this is the first call).
func (r *TraceRecorder) Enter(entryPoint CallEntryPoint) *CallTrace {
	node := &CallTrace{EntryPoint: entryPoint}
	if len(r.stack) == 0 {
		r.root = node
	} else {
		parent := r.stack[len(r.stack)-1]
		parent.NestedCalls = append(parent.NestedCalls, node)
	}
	r.stack = append(r.stack, node)
	return node
}

// Exit pops the current stack top and attaches result to it. Panics if
// called without a matching Enter; this is a programming error in the
// Call Executor, not a recoverable test condition.
func (r *TraceRecorder) Exit(result TraceResult) {
	n := len(r.stack)
	if n == 0 {
		panic("cheatnet: TraceRecorder.Exit called with an empty call stack")
	}
	r.stack[n-1].Result = result
	r.stack = r.stack[:n-1]
}

// Root returns the root of the call trace tree built so far, or nil if
// no call has been entered yet.
func (r *TraceRecorder) Root() *CallTrace {
	return r.root
}

// Serialize walks the trace tree depth-first and flattens it into a felt
// sequence for `get_call_trace()`, per spec.md §4.6. Each node is encoded
// as: selector, call_type, result_kind, result payload length, ...result
// payload felts, child count, ...children (recursively).
func Serialize(node *CallTrace) []felt.Felt {
	if node == nil {
		return []felt.Felt{felt.Zero}
	}
	out := []felt.Felt{felt.Felt(node.EntryPoint.EntryPointSelector)}
	out = append(out, felt.FromUint64(uint64(node.EntryPoint.CallType)))
	out = append(out, felt.FromUint64(uint64(node.Result.Kind)))

	var payload []felt.Felt
	switch node.Result.Kind {
	case TraceSuccess:
		payload = node.Result.ReturnData
	case TracePanic:
		payload = node.Result.PanicData
	case TraceError:
		msg := []byte(node.Result.Message)
		if len(msg) > felt.MaxShortStringBytes {
			msg = msg[:felt.MaxShortStringBytes]
		}
		payload = []felt.Felt{felt.MustFromBytes(msg)}
	}
	out = append(out, felt.FromUint64(uint64(len(payload))))
	out = append(out, payload...)

	out = append(out, felt.FromUint64(uint64(len(node.NestedCalls))))
	for _, child := range node.NestedCalls {
		out = append(out, Serialize(child)...)
	}
	return out
}
