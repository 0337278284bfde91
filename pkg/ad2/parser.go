// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ad2

import (
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/antimetal/ad2core/pkg/ad2/search"
)

// Parser ties the ring framer, classifier, keypad extractor,
// partition registry, and event dispatcher together into a single
// synchronous entry point: Put is the only operation, it never
// blocks, and it owns no internal goroutines.
type Parser struct {
	logger  logr.Logger
	framer  *ringFramer
	counts  counters
	metrics *Metrics

	registry   *partitionRegistry
	dispatcher *dispatcher

	matcher search.Matcher
}

// Option configures a Parser at construction time, mirroring the
// WithX functional-option style used throughout pkg/performance's
// collectors.
type Option func(*Parser)

// WithMaxMessageSize overrides the default 120-byte maximum frame
// length, which is also the ring capacity.
func WithMaxMessageSize(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.framer = newRingFramer(n)
		}
	}
}

// WithMetrics attaches a Prometheus-backed Metrics instance; without
// this option the parser still tracks every counter via Stats(), it
// simply has nothing to export to Prometheus.
func WithMetrics(m *Metrics) Option {
	return func(p *Parser) {
		p.metrics = m
		p.dispatcher.metrics = m
	}
}

// WithSearchMatcher registers the external EventSearch collaborator
// hook. The core never constructs a Matcher itself.
func WithSearchMatcher(m search.Matcher) Option {
	return func(p *Parser) {
		p.matcher = m
	}
}

// NewParser constructs a Parser with a 120-byte ring buffer and no
// search matcher. logger must not be the zero logr.Logger; pass
// logr.Discard() to suppress logging entirely.
func NewParser(logger logr.Logger, opts ...Option) *Parser {
	p := &Parser{
		logger:     logger.WithName("ad2"),
		framer:     newRingFramer(MaxMessageSize),
		registry:   newPartitionRegistry(),
	}
	p.dispatcher = newDispatcher(nil)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe registers fn against kind and returns a handle that
// Unsubscribe accepts.
func (p *Parser) Subscribe(kind EventKind, fn Subscriber) uuid.UUID {
	return p.dispatcher.Subscribe(kind, fn)
}

// Unsubscribe removes a subscription previously returned by
// Subscribe.
func (p *Parser) Unsubscribe(handle uuid.UUID) bool {
	return p.dispatcher.Unsubscribe(handle)
}

// Stats returns a point-in-time snapshot of the observability
// counters.
func (p *Parser) Stats() Stats {
	return Stats{
		Frames:                p.counts.frames.Load(),
		RingErrorCount:        p.counts.ringErrors.Load(),
		LostByteCount:         p.counts.lostBytes.Load(),
		FramesTooLong:         p.counts.framesTooLong.Load(),
		NoisyBytes:            p.counts.noisyBytes.Load(),
		UnknownPrefixes:       p.counts.unknownPrefixes.Load(),
		MalformedKeypadFrames: p.counts.malformedKeypadFrames.Load(),
		Partitions:            p.registry.size(),
	}
}

// Put consumes every byte in data, synchronously emitting RAW_RX_DATA,
// RAW_MESSAGE, tag-specific, MESSAGE, and derived state-change events
// as frames complete. It never blocks and never spawns a goroutine.
//
// Put returns ErrInvalidInput when len(data) is non-positive; every
// other error condition is handled internally (logged and counted,
// never returned).
func (p *Parser) Put(data []byte) error {
	if len(data) <= 0 {
		return ErrInvalidInput
	}

	p.dispatcher.fire(Event{Kind: EventRawRxData, RawBytes: data})

	if containsBootMarker(data) {
		p.dispatcher.fire(Event{Kind: EventBoot, Frame: string(data)})
	}

	for _, b := range data {
		res := p.framer.step(b)

		if res.ringOverran {
			p.counts.ringErrors.Add(1)
			p.counts.lostBytes.Add(1)
			if p.metrics != nil {
				p.metrics.ringErrorTotal.Inc()
			}
			p.logger.V(1).Info("ring buffer overrun, evicted oldest byte")
		}
		if res.frameTooLong {
			p.counts.framesTooLong.Add(1)
			if p.metrics != nil {
				p.metrics.frameTooLongTotal.Inc()
			}
			p.logger.Info("discarding frame, exceeded max message size")
		}
		if res.noisyByte {
			p.counts.noisyBytes.Add(1)
			if p.metrics != nil {
				p.metrics.noisyByteTotal.Inc()
			}
			p.logger.V(1).Info("dropping noisy byte mid-frame", "byte", b)
		}
		if res.emittedFrame != nil {
			p.handleFrame(res.emittedFrame)
		}
	}
	return nil
}

func (p *Parser) handleFrame(frameBytes []byte) {
	p.counts.frames.Add(1)
	if p.metrics != nil {
		p.metrics.framesTotal.Inc()
	}
	frameStr := string(frameBytes)
	p.dispatcher.fire(Event{Kind: EventRawMessage, Frame: frameStr})

	kind, _, ok := classify(frameBytes)
	if !ok {
		if frameBytes[0] != '!' {
			p.counts.unknownPrefixes.Add(1)
			if p.metrics != nil {
				p.metrics.unknownPrefixTotal.Inc()
			}
			p.logger.Info("dropping frame with unknown prefix", "frame", frameStr)
		}
		// An unrecognized !-tag is dropped silently: no counter, no
		// log line.
		p.tryMatch("", frameStr)
		return
	}

	switch kind {
	case MessageKindKeypad:
		p.handleKeypad(frameBytes, frameStr)
	default:
		if ek, ok := tagEventKind(kind); ok {
			p.dispatcher.fire(Event{Kind: ek, Frame: frameStr})
			if kind == MessageKindVER {
				p.dispatcher.fire(Event{Kind: EventFirmwareVersion, Frame: frameStr})
			}
		}
	}
	p.tryMatch(string(kind), frameStr)
}

func (p *Parser) tryMatch(kind string, frame string) {
	if p.matcher == nil {
		return
	}
	if result, matched := p.matcher.TryMatch(kind, frame); matched {
		p.dispatcher.fire(Event{Kind: EventSearchMatch, Frame: frame, Search: result})
	}
}

func tagEventKind(kind MessageKind) (EventKind, bool) {
	switch kind {
	case MessageKindLRR:
		return EventLRR, true
	case MessageKindExpander:
		return EventEXP, true
	case MessageKindRFX:
		return EventRFX, true
	case MessageKindAUI:
		return EventAUI, true
	case MessageKindKPM:
		return EventKPM, true
	case MessageKindKPE:
		return EventKPE, true
	case MessageKindCRC:
		return EventCRC, true
	case MessageKindVER:
		return EventVER, true
	case MessageKindERR:
		return EventERR, true
	default:
		return "", false
	}
}

func (p *Parser) handleKeypad(frameBytes []byte, frameStr string) {
	upd, ok := extractKeypad(frameBytes)
	if !ok {
		p.counts.malformedKeypadFrames.Add(1)
		if p.metrics != nil {
			p.metrics.malformedKeypadTotal.Inc()
		}
		p.logger.V(1).Info("discarding malformed keypad frame", "frame", frameStr)
		return
	}

	state, _, _ := p.registry.lookupOrCreate(upd.Mask, true)
	wasUnknown := state.UnknownState
	prev := state.snapshot()
	applyKeypadUpdate(state, upd)
	state.UnknownState = false

	if p.metrics != nil {
		p.metrics.partitionsGauge.Set(float64(p.registry.size()))
	}

	p.dispatcher.fire(Event{Kind: EventMessage, Frame: frameStr, Partition: state})

	if !wasUnknown {
		p.fireDerivedEvents(prev, *state, frameStr)
	}
}

func applyKeypadUpdate(state *PartitionState, upd KeypadUpdate) {
	state.Ready = upd.Ready
	state.ArmedAway = upd.ArmedAway
	state.ArmedStay = upd.ArmedStay
	state.BacklightOn = upd.BacklightOn
	state.ProgrammingMode = upd.ProgrammingMode
	state.ZoneBypassed = upd.ZoneBypassed
	state.ACPower = upd.ACPower
	state.ChimeOn = upd.ChimeOn
	state.AlarmEventOccurred = upd.AlarmEventOccurred
	state.AlarmSounding = upd.AlarmSounding
	state.BatteryLow = upd.BatteryLow
	state.EntryDelayOff = upd.EntryDelayOff
	state.FireAlarm = upd.FireAlarm
	state.SystemIssue = upd.SystemIssue
	state.PerimeterOnly = upd.PerimeterOnly
	state.ExitNow = upd.ExitNow
	state.SystemSpecific = upd.SystemSpecific
	state.Beeps = upd.Beeps
	state.PanelType = upd.PanelType
	state.DisplayCursorType = upd.CursorType
	state.DisplayCursorLocation = upd.CursorLocation
	state.LastAlphaMessage = upd.LastAlphaMessage
	state.LastNumericMessage = upd.LastNumericMessage
}

func (p *Parser) fireDerivedEvents(prev, curr PartitionState, frameStr string) {
	fire := func(kind EventKind) {
		p.dispatcher.fire(Event{Kind: kind, Frame: frameStr, Partition: &curr})
	}

	if prev.Ready != curr.Ready {
		fire(EventReadyChange)
	}

	prevArmed := prev.ArmedAway || prev.ArmedStay
	currArmed := curr.ArmedAway || curr.ArmedStay
	if prevArmed != currArmed {
		if currArmed {
			fire(EventArm)
		} else {
			fire(EventDisarm)
		}
	}

	if prev.ACPower != curr.ACPower {
		fire(EventPowerChange)
	}
	if prev.AlarmSounding != curr.AlarmSounding {
		fire(EventAlarmChange)
	}
	if prev.ChimeOn != curr.ChimeOn {
		fire(EventChimeChange)
	}
	if prev.ExitNow != curr.ExitNow {
		fire(EventExitChange)
	}
	if prev.BatteryLow != curr.BatteryLow {
		fire(EventLowBattery)
	}
	if prev.FireAlarm != curr.FireAlarm {
		fire(EventFire)
	}
	if prev.ZoneBypassed != curr.ZoneBypassed {
		fire(EventZoneBypassChange)
	}
}
