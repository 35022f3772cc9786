package cheatnet

import "github.com/foundry-rs/snforge-runtime/felt"

// Event is a single Starknet event as captured by an event spy: the
// contract that emitted it plus its keys/data felt sequences.
type Event struct {
	FromAddress felt.ContractAddress
	Keys        []felt.Felt
	Data        []felt.Felt
}

// TxInfoOverride is the partial transaction-info override installed by
// start_spoof. Every field is optional; an absent field leaves the
// original transaction value untouched (spec.md §4.2 step 6).
//
// ResourceBounds supplements spec.md's 6-field-plus-signature table with
// the fee-market v3 resource-bounds family found in original_source; see
// SPEC_FULL.md "SUPPLEMENTED FEATURES".
type TxInfoOverride struct {
	Version               *felt.Felt
	AccountContractAddress *felt.ContractAddress
	MaxFee                *felt.Felt
	Signature              []felt.Felt
	TransactionHash        *felt.Felt
	ChainID                *felt.Felt
	Nonce                  *felt.Felt
	ResourceBounds         []FeeBound
}

// FeeBound is one entry of a TxInfoOverride.ResourceBounds list: a
// resource's max amount and max price per unit, mirroring Starknet's v3
// fee-market resource-bounds encoding.
type FeeBound struct {
	MaxAmount       felt.Felt
	MaxPricePerUnit felt.Felt
}

// eventSpy is one registered spy: an id, the CheatTarget it filters
// emitters by, and the events captured since the spy's creation (or its
// last drain via FetchEvents).
type eventSpy struct {
	id       uint64
	target   CheatTarget
	captured []Event
}

// CheatState is the in-memory record of every active override for one
// test, per spec.md §3. One instance exists per test; it is created
// fresh, mutated by the Forge Runtime Extension, read by the Cheatable
// Syscall Handler, and discarded at test end (spec.md §3 "Lifecycle").
//
// Per-address maps and the "All" catch-all are kept as separate fields
// rather than one map keyed by a sentinel address, so a per-address
// lookup never has to special-case a reserved key: "per-address entries
// override All" falls out of checking the per-address map first.
type CheatState struct {
	prankedContracts map[felt.ContractAddress]felt.ContractAddress
	globalPrank      *felt.ContractAddress

	warpedContracts map[felt.ContractAddress]felt.Felt
	globalWarp      *felt.Felt

	rolledContracts map[felt.ContractAddress]felt.Felt
	globalRoll      *felt.Felt

	electedContracts map[felt.ContractAddress]felt.ContractAddress
	globalElect      *felt.ContractAddress

	spoofedContracts map[felt.ContractAddress]TxInfoOverride
	globalSpoof      *TxInfoOverride

	mockedCalls map[mockKey][]felt.Felt

	eventSpies  []*eventSpy
	nextSpyID   uint64
	deploySalt  felt.Felt
}

type mockKey struct {
	contract felt.ContractAddress
	selector felt.Selector
}

// NewCheatState returns an empty CheatState: no active cheats, no
// mocked calls, no spies, salt counter at zero.
func NewCheatState() *CheatState {
	return &CheatState{
		prankedContracts: make(map[felt.ContractAddress]felt.ContractAddress),
		warpedContracts:  make(map[felt.ContractAddress]felt.Felt),
		rolledContracts:  make(map[felt.ContractAddress]felt.Felt),
		electedContracts: make(map[felt.ContractAddress]felt.ContractAddress),
		spoofedContracts: make(map[felt.ContractAddress]TxInfoOverride),
		mockedCalls:      make(map[mockKey][]felt.Felt),
	}
}

// --- prank ---

// StartPrank overrides the caller address observed by target, overwriting
// any previous prank on the same (address, kind) pair (spec.md §3
// invariant: no stacking).
func (s *CheatState) StartPrank(target CheatTarget, caller felt.ContractAddress) {
	if target.Kind() == TargetAll {
		c := caller
		s.globalPrank = &c
		return
	}
	for _, addr := range target.Addresses() {
		s.prankedContracts[addr] = caller
	}
}

// StopPrank removes a previously started prank; stopping an absent prank
// is a no-op.
func (s *CheatState) StopPrank(target CheatTarget) {
	if target.Kind() == TargetAll {
		s.globalPrank = nil
		return
	}
	for _, addr := range target.Addresses() {
		delete(s.prankedContracts, addr)
	}
}

// PrankFor reports the pranked caller address for address, if any.
func (s *CheatState) PrankFor(address felt.ContractAddress) (felt.ContractAddress, bool) {
	if v, ok := s.prankedContracts[address]; ok {
		return v, true
	}
	if s.globalPrank != nil {
		return *s.globalPrank, true
	}
	return felt.ContractAddress{}, false
}

// --- warp ---

// StartWarp overrides the block timestamp observed by target.
func (s *CheatState) StartWarp(target CheatTarget, timestamp felt.Felt) {
	if target.Kind() == TargetAll {
		v := timestamp
		s.globalWarp = &v
		return
	}
	for _, addr := range target.Addresses() {
		s.warpedContracts[addr] = timestamp
	}
}

// StopWarp removes a previously started warp.
func (s *CheatState) StopWarp(target CheatTarget) {
	if target.Kind() == TargetAll {
		s.globalWarp = nil
		return
	}
	for _, addr := range target.Addresses() {
		delete(s.warpedContracts, addr)
	}
}

// WarpFor reports the warped timestamp for address, if any.
func (s *CheatState) WarpFor(address felt.ContractAddress) (felt.Felt, bool) {
	if v, ok := s.warpedContracts[address]; ok {
		return v, true
	}
	if s.globalWarp != nil {
		return *s.globalWarp, true
	}
	return felt.Felt{}, false
}

// --- roll ---

// StartRoll overrides the block number observed by target.
func (s *CheatState) StartRoll(target CheatTarget, blockNumber felt.Felt) {
	if target.Kind() == TargetAll {
		v := blockNumber
		s.globalRoll = &v
		return
	}
	for _, addr := range target.Addresses() {
		s.rolledContracts[addr] = blockNumber
	}
}

// StopRoll removes a previously started roll.
func (s *CheatState) StopRoll(target CheatTarget) {
	if target.Kind() == TargetAll {
		s.globalRoll = nil
		return
	}
	for _, addr := range target.Addresses() {
		delete(s.rolledContracts, addr)
	}
}

// RollFor reports the rolled block number for address, if any.
func (s *CheatState) RollFor(address felt.ContractAddress) (felt.Felt, bool) {
	if v, ok := s.rolledContracts[address]; ok {
		return v, true
	}
	if s.globalRoll != nil {
		return *s.globalRoll, true
	}
	return felt.Felt{}, false
}

// --- elect ---

// StartElect overrides the sequencer address observed by target.
func (s *CheatState) StartElect(target CheatTarget, sequencer felt.ContractAddress) {
	if target.Kind() == TargetAll {
		v := sequencer
		s.globalElect = &v
		return
	}
	for _, addr := range target.Addresses() {
		s.electedContracts[addr] = sequencer
	}
}

// StopElect removes a previously started elect.
func (s *CheatState) StopElect(target CheatTarget) {
	if target.Kind() == TargetAll {
		s.globalElect = nil
		return
	}
	for _, addr := range target.Addresses() {
		delete(s.electedContracts, addr)
	}
}

// ElectFor reports the elected sequencer address for address, if any.
func (s *CheatState) ElectFor(address felt.ContractAddress) (felt.ContractAddress, bool) {
	if v, ok := s.electedContracts[address]; ok {
		return v, true
	}
	if s.globalElect != nil {
		return *s.globalElect, true
	}
	return felt.ContractAddress{}, false
}

// --- spoof ---

// StartSpoof installs a partial transaction-info override for target.
func (s *CheatState) StartSpoof(target CheatTarget, override TxInfoOverride) {
	if target.Kind() == TargetAll {
		v := override
		s.globalSpoof = &v
		return
	}
	for _, addr := range target.Addresses() {
		s.spoofedContracts[addr] = override
	}
}

// StopSpoof removes a previously started spoof.
func (s *CheatState) StopSpoof(target CheatTarget) {
	if target.Kind() == TargetAll {
		s.globalSpoof = nil
		return
	}
	for _, addr := range target.Addresses() {
		delete(s.spoofedContracts, addr)
	}
}

// SpoofFor reports the tx-info override for address, if any.
func (s *CheatState) SpoofFor(address felt.ContractAddress) (TxInfoOverride, bool) {
	if v, ok := s.spoofedContracts[address]; ok {
		return v, true
	}
	if s.globalSpoof != nil {
		return *s.globalSpoof, true
	}
	return TxInfoOverride{}, false
}

// --- mock calls ---

// StartMockCall registers retdata as the canned response for selector on
// contract, short-circuiting code execution on that (contract, selector)
// pair (spec.md §8 property 3).
func (s *CheatState) StartMockCall(contract felt.ContractAddress, selector felt.Selector, retdata []felt.Felt) {
	s.mockedCalls[mockKey{contract, selector}] = retdata
}

// StopMockCall removes a previously registered mock call.
func (s *CheatState) StopMockCall(contract felt.ContractAddress, selector felt.Selector) {
	delete(s.mockedCalls, mockKey{contract, selector})
}

// MockCallFor reports the canned return data for (contract, selector), if
// a mock is active.
func (s *CheatState) MockCallFor(contract felt.ContractAddress, selector felt.Selector) ([]felt.Felt, bool) {
	v, ok := s.mockedCalls[mockKey{contract, selector}]
	return v, ok
}

// --- event spies ---

// SpyEvents registers a new spy filtering by target and returns its
// stable, monotonically increasing id (spec.md §3 invariant).
func (s *CheatState) SpyEvents(target CheatTarget) uint64 {
	id := s.nextSpyID
	s.nextSpyID++
	s.eventSpies = append(s.eventSpies, &eventSpy{id: id, target: target})
	return id
}

// RecordEvent appends ev, with its FromAddress set to emitter, to every
// active spy whose target matches emitter, in emission order (spec.md §3,
// §5 ordering guarantees).
func (s *CheatState) RecordEvent(emitter felt.ContractAddress, ev Event) {
	ev.FromAddress = emitter
	for _, spy := range s.eventSpies {
		if spyMatches(spy.target, emitter) {
			spy.captured = append(spy.captured, ev)
		}
	}
}

func spyMatches(target CheatTarget, address felt.ContractAddress) bool {
	switch target.Kind() {
	case TargetAll:
		return true
	default:
		for _, a := range target.Addresses() {
			if a == address {
				return true
			}
		}
		return false
	}
}

// FetchEvents drains and returns the events captured by the spy with the
// given id since registration or the last FetchEvents call (spec.md §3
// "fetched events are drained from the spy"). Returns nil, false if no
// such spy is registered.
func (s *CheatState) FetchEvents(id uint64) ([]Event, bool) {
	for _, spy := range s.eventSpies {
		if spy.id == id {
			events := spy.captured
			spy.captured = nil
			return events, true
		}
	}
	return nil, false
}

// --- deploy salt ---

// NextDeploySalt returns the current deploy-salt counter and increments
// it, guaranteeing every deploy within a test gets a fresh salt
// (spec.md §4.4 "deploy address computation").
func (s *CheatState) NextDeploySalt() felt.Felt {
	current := s.deploySalt
	s.deploySalt = s.deploySalt.Add(felt.One)
	return current
}

// PeekDeploySalt returns the current deploy-salt counter without
// incrementing it, used by `precalculate_address` (spec.md §4.4): the
// prediction must match whatever the *next* real `deploy` call would get,
// without consuming that salt itself.
func (s *CheatState) PeekDeploySalt() felt.Felt {
	return s.deploySalt
}
