// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ad2

import (
	"sync"

	"github.com/google/uuid"

	"github.com/antimetal/ad2core/pkg/ad2/search"
)

// EventKind identifies one of the subscription channels a caller can
// register against.
type EventKind string

const (
	EventRawRxData        EventKind = "RAW_RX_DATA"
	EventRawMessage       EventKind = "RAW_MESSAGE"
	EventMessage          EventKind = "MESSAGE"
	EventArm              EventKind = "ARM"
	EventDisarm           EventKind = "DISARM"
	EventPowerChange      EventKind = "POWER_CHANGE"
	EventReadyChange      EventKind = "READY_CHANGE"
	EventAlarmChange      EventKind = "ALARM_CHANGE"
	EventFire             EventKind = "FIRE"
	EventZoneBypassChange EventKind = "ZONE_BYPASSED_CHANGE"
	EventBoot             EventKind = "BOOT"
	EventConfigReceived   EventKind = "CONFIG_RECEIVED"
	EventZoneFault        EventKind = "ZONE_FAULT"
	EventZoneRestore      EventKind = "ZONE_RESTORE"
	EventLowBattery       EventKind = "LOW_BATTERY"
	EventPanic            EventKind = "PANIC"
	EventChimeChange      EventKind = "CHIME_CHANGE"
	EventREL              EventKind = "EXP" // REL and EXP tags collapse onto one kind
	EventEXP              EventKind = "EXP"
	EventLRR              EventKind = "LRR"
	EventRFX              EventKind = "RFX"
	EventSendingReceived  EventKind = "SENDING_RECEIVED"
	EventAUI              EventKind = "AUI"
	EventKPM              EventKind = "KPM"
	EventKPE              EventKind = "KPE"
	EventCRC              EventKind = "CRC"
	EventVER              EventKind = "VER"
	EventERR              EventKind = "ERR"
	EventExitChange       EventKind = "EXIT_CHANGE"
	EventSearchMatch      EventKind = "SEARCH_MATCH"
	EventFirmwareVersion  EventKind = "FIRMWARE_VERSION"
)

// Event is the immutable payload handed to a Subscriber. Fields not
// relevant to Kind are left at their zero value. Partition, when set,
// is a borrow valid only for the duration of the callback; subscribers
// that need to keep the data must copy it.
type Event struct {
	Kind      EventKind
	RawBytes  []byte // RAW_RX_DATA only
	Frame     string // every per-frame event
	Partition *PartitionState // MESSAGE and derived state-change events
	Search    search.Result   // SEARCH_MATCH only
}

// Subscriber is a callback registered against one EventKind.
type Subscriber func(Event)

type subscription struct {
	id uuid.UUID
	fn Subscriber
}

// dispatcher is a synchronous, registration-ordered callback registry
// keyed by event kind. Grounded on the teacher's
// store.subscriber/eventRouter shape, simplified from a buffered
// channel fan-out to direct synchronous calls: callbacks must run
// inline within Put with no internal goroutines.
type dispatcher struct {
	mu   sync.Mutex
	subs map[EventKind][]subscription

	metrics *Metrics
}

func newDispatcher(metrics *Metrics) *dispatcher {
	return &dispatcher{
		subs:    make(map[EventKind][]subscription),
		metrics: metrics,
	}
}

// Subscribe registers fn for kind and returns a handle usable with
// Unsubscribe. Subscribers for the same kind are invoked in
// registration order.
func (d *dispatcher) Subscribe(kind EventKind, fn Subscriber) uuid.UUID {
	id := uuid.New()
	d.mu.Lock()
	d.subs[kind] = append(d.subs[kind], subscription{id: id, fn: fn})
	d.mu.Unlock()
	return id
}

// Unsubscribe removes the subscription identified by handle. It
// reports whether a subscription was found and removed.
func (d *dispatcher) Unsubscribe(handle uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for kind, subs := range d.subs {
		for i, s := range subs {
			if s.id == handle {
				d.subs[kind] = append(subs[:i:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// fire dispatches e to every subscriber of e.Kind, in registration
// order. The subscriber slice is snapshotted under the lock so a
// subscriber calling Subscribe/Unsubscribe from within its callback
// can't corrupt this dispatch pass.
func (d *dispatcher) fire(e Event) {
	d.mu.Lock()
	subs := d.subs[e.Kind]
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	d.mu.Unlock()

	if d.metrics != nil {
		d.metrics.dispatchTotal.WithLabelValues(string(e.Kind)).Inc()
	}

	for _, s := range snapshot {
		s.fn(e)
	}
}
