// Package filters smooths the raw positions the tracker emits before they
// reach the uinput sink: a three-frame weighted average that takes the
// edge off sensor jitter, and a single-touch debounce that pins a
// stationary finger instead of reporting sub-pixel wander as motion.
package filters

import (
	"math"

	"ctma395-touchd/internal/tracker"
)

const debounceRadius = 10

// Smooth applies a weighted average over the touch's position history:
// this frame weighted 4, the previous frame weighted 2, and the frame
// before that weighted 1 when available. A touch with no history yet (its
// first frame) passes through unchanged; one with only a previous frame
// skips the third term rather than treating the missing sample as zero.
func Smooth(tp *tracker.Touchpoint) (x, y float64) {
	cur, prev, prevPrev, havePrev, havePrevPrev := tp.RawHistory()

	if !havePrev {
		return cur[0], cur[1]
	}

	wsum := 4.0 + 2.0
	xsum := 4*cur[0] + 2*prev[0]
	ysum := 4*cur[1] + 2*prev[1]
	if havePrevPrev {
		wsum++
		xsum += prevPrev[0]
		ysum += prevPrev[1]
	}

	return xsum / wsum, ysum / wsum
}

// Debouncer pins a single touch to its anchor position while it stays
// within debounceRadius pixels, so that sensor noise on an otherwise
// motionless finger doesn't show up as a stream of tiny moves. Only
// meaningful when exactly one touch is active; the caller is responsible
// for not invoking it when more than one touch is live, since the
// debounce is a single-touch affordance matching how a stationary finger
// is typically held.
type Debouncer struct {
	anchored    bool
	invalidated bool
	anchorX     float64
	anchorY     float64
}

// Reset clears the anchor and any invalidation, as happens on a fresh
// touchdown.
func (d *Debouncer) Reset() {
	d.anchored = false
	d.invalidated = false
}

// Filter returns the position to report for this frame: the pinned anchor
// while the touch stays within debounceRadius of it, or x,y itself before
// the first anchor is set. Once the touch leaves the pinning box the
// debounce is invalidated for the rest of this contact -- it reports raw
// positions from then on, even if the touch later wanders back inside the
// box, until Reset is called on the next touchdown.
func (d *Debouncer) Filter(x, y float64) (outX, outY float64) {
	if d.invalidated {
		return x, y
	}
	if !d.anchored {
		d.anchored = true
		d.anchorX, d.anchorY = x, y
		return x, y
	}

	dx := x - d.anchorX
	dy := y - d.anchorY
	if math.Abs(dx) <= debounceRadius && math.Abs(dy) <= debounceRadius {
		return d.anchorX, d.anchorY
	}

	d.invalidated = true
	return x, y
}
