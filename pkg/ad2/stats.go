// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ad2

import "sync/atomic"

// counters backs Stats() with plain atomics so the snapshot is cheap
// and lock-free even though Parser.Put itself is single-threaded;
// atomics just mean Stats() can safely be called from another
// goroutine while Put is running.
type counters struct {
	frames                atomic.Uint64
	ringErrors            atomic.Uint64
	lostBytes             atomic.Uint64
	framesTooLong         atomic.Uint64
	noisyBytes            atomic.Uint64
	unknownPrefixes       atomic.Uint64
	malformedKeypadFrames atomic.Uint64
}

// Stats is a point-in-time snapshot of the parser's observability
// counters.
type Stats struct {
	Frames                uint64
	RingErrorCount        uint64
	LostByteCount         uint64
	FramesTooLong         uint64
	NoisyBytes            uint64
	UnknownPrefixes       uint64
	MalformedKeypadFrames uint64
	Partitions            int
}
