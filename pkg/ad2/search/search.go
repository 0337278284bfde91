// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package search declares the EventSearch external-collaborator
// surface. The core only routes candidate frames to a registered
// Matcher; it does not ship a regex engine or any matching logic
// itself.
package search

// State is the tri-valued result an EventSearch record tracks across
// updates.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateFault
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateFault:
		return "fault"
	default:
		return "closed"
	}
}

// Result is what a Matcher reports for a frame that changed an
// EventSearch's tracked State.
type Result struct {
	Name    string
	State   State
	Message string // the formatted output string for the new state
}

// Matcher is the hook the core calls for every candidate frame. An
// implementation owns its own pre-filters (message kind, pre-filter
// regex) and its own OPEN/CLOSED/FAULT regex lists; none of that
// lives in this package, deliberately — no regex engine in the core.
//
// TryMatch returns ok=false when the frame didn't change any tracked
// EventSearch's state, in which case the core fires no SEARCH_MATCH
// event.
type Matcher interface {
	TryMatch(kind string, frame string) (result Result, ok bool)
}
