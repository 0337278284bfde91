// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ad2

import "sync"

// PartitionState is the per-partition record the registry tracks. It
// is owned by the PartitionRegistry; subscribers receive a pointer
// valid only for the duration of the dispatch callback that handed it
// to them.
type PartitionState struct {
	AddressMaskFilter PartitionMask
	Partition         uint8
	UnknownState      bool

	Ready              bool
	ArmedAway          bool
	ArmedStay          bool // aliased as ArmedHome() below; same bit
	BacklightOn        bool
	ProgrammingMode    bool
	ZoneBypassed       bool
	ACPower            bool
	ChimeOn            bool
	AlarmEventOccurred bool
	AlarmSounding      bool
	BatteryLow         bool
	EntryDelayOff      bool
	FireAlarm          bool
	SystemIssue        bool
	PerimeterOnly      bool
	ExitNow            bool

	SystemSpecific byte
	Beeps          byte
	PanelType      PanelType

	DisplayCursorType     CursorType
	DisplayCursorLocation uint8

	LastAlphaMessage    string
	LastNumericMessage  string
}

// ArmedHome is an alias for ArmedStay: Ademco panels and DSC panels
// name the same bit (panel bit offset 3) differently. ArmedStay is
// the canonical field; this method exposes the DSC-flavored name.
func (p *PartitionState) ArmedHome() bool {
	return p.ArmedStay
}

// snapshot copies the fields that derived change-events compare
// against, so the parser can diff old vs. new after an update.
func (p *PartitionState) snapshot() PartitionState {
	return *p
}

// partitionRegistry is a mapping from mask to PartitionState with
// one-directional mask-coalescing. Grounded on the teacher's
// pkg/resource/store map-plus-mutex registry, simplified to an
// in-memory map since there is no persistence requirement here.
type partitionRegistry struct {
	mu      sync.Mutex
	records map[PartitionMask]*PartitionState
}

func newPartitionRegistry() *partitionRegistry {
	return &partitionRegistry{
		records: make(map[PartitionMask]*PartitionState),
	}
}

// lookupOrCreate implements the four-step mask-resolution algorithm:
// exact match, overlap-then-merge, create-if-update, not-found.
//
// created reports whether a brand-new record was allocated (mask 0 or
// a mask with no overlap, update==true). It is always false when an
// existing or coalesced record is returned.
func (r *partitionRegistry) lookupOrCreate(mask PartitionMask, update bool) (state *PartitionState, created bool, found bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.records[mask]; ok {
		return s, false, true
	}

	if mask != 0 {
		for key, s := range r.records {
			if key&mask != 0 {
				delete(r.records, key)
				newKey := key | mask
				s.AddressMaskFilter = newKey
				r.records[newKey] = s
				return s, false, true
			}
		}
	}

	if !update {
		return nil, false, false
	}

	s := &PartitionState{
		AddressMaskFilter: mask,
		Partition:         uint8(len(r.records) + 1),
		UnknownState:      true,
	}
	r.records[mask] = s
	return s, true, true
}

// size returns the number of live (post-coalescing) partition
// records, used for diagnostics and metrics.
func (r *partitionRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
