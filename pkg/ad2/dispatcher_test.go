// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ad2

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesInRegistrationOrder(t *testing.T) {
	d := newDispatcher(nil)
	var order []int
	d.Subscribe(EventArm, func(Event) { order = append(order, 1) })
	d.Subscribe(EventArm, func(Event) { order = append(order, 2) })
	d.Subscribe(EventArm, func(Event) { order = append(order, 3) })

	d.fire(Event{Kind: EventArm})
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestDispatcherOnlyInvokesMatchingKind(t *testing.T) {
	d := newDispatcher(nil)
	var armed, disarmed bool
	d.Subscribe(EventArm, func(Event) { armed = true })
	d.Subscribe(EventDisarm, func(Event) { disarmed = true })

	d.fire(Event{Kind: EventArm})
	assert.True(t, armed)
	assert.False(t, disarmed)
}

func TestDispatcherUnsubscribeRemovesSubscriber(t *testing.T) {
	d := newDispatcher(nil)
	var calls int
	id := d.Subscribe(EventArm, func(Event) { calls++ })

	d.fire(Event{Kind: EventArm})
	require.Equal(t, 1, calls)

	removed := d.Unsubscribe(id)
	assert.True(t, removed)

	d.fire(Event{Kind: EventArm})
	assert.Equal(t, 1, calls, "unsubscribed callback must not fire again")
}

func TestDispatcherUnsubscribeUnknownHandleReturnsFalse(t *testing.T) {
	d := newDispatcher(nil)
	assert.False(t, d.Unsubscribe(uuid.New()))
}

func TestDispatcherSubscriberCanUnsubscribeDuringDispatch(t *testing.T) {
	d := newDispatcher(nil)
	var calls int
	var handle uuid.UUID
	handle = d.Subscribe(EventArm, func(Event) {
		calls++
		d.Unsubscribe(handle)
	})
	d.fire(Event{Kind: EventArm})
	d.fire(Event{Kind: EventArm})
	assert.Equal(t, 1, calls)
}
