package anim

import (
	"math"
	"time"
)

// Easing maps linear progress in [0,1] to eased progress in [0,1].
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseOutQuart decelerates sharply towards the end.
func EaseOutQuart(t float64) float64 { return 1 - math.Pow(1-t, 4) }

// EaseInOutCubic accelerates then decelerates.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// tween interpolates one frame-sampled leg. The clock starts at the first
// sample, so the first value is always from; the last is always exactly to.
type tween struct {
	from, to float64
	duration time.Duration
	ease     Easing

	start time.Time
	begun bool
}

func newTween(from, to float64, duration time.Duration, ease Easing) *tween {
	if ease == nil {
		ease = Linear
	}
	return &tween{from: from, to: to, duration: duration, ease: ease}
}

// sample returns the value at now and whether the leg is finished.
func (tw *tween) sample(now time.Time) (float64, bool) {
	if !tw.begun {
		tw.start = now
		tw.begun = true
	}
	if tw.duration <= 0 {
		return tw.to, true
	}

	p := float64(now.Sub(tw.start)) / float64(tw.duration)
	if p >= 1 {
		return tw.to, true
	}
	if p < 0 {
		p = 0
	}

	v := tw.from + (tw.to-tw.from)*tw.ease(p)
	if tw.to >= tw.from {
		v = math.Min(math.Max(v, tw.from), tw.to)
	} else {
		v = math.Max(math.Min(v, tw.from), tw.to)
	}
	return v, false
}

func clampPercent(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}
