package picker

import (
	"context"
	"time"
)

const (
	minPreviewRounds = 6
	maxPreviewRounds = 12
	previewBaseDelay = 80 * time.Millisecond
	previewDelayStep = 8 * time.Millisecond
)

// Frame is one step of the cosmetic "shuffle" shown before the real result.
type Frame struct {
	Title string
	Delay time.Duration
}

// PreviewPlan returns the pause before each preview frame for a pool of the
// given size: between 6 and 12 frames, each slower than the last.
func PreviewPlan(poolSize int) []time.Duration {
	if poolSize <= 0 {
		return nil
	}
	rounds := min(maxPreviewRounds, max(minPreviewRounds, poolSize*2))

	plan := make([]time.Duration, rounds)
	for i := range plan {
		plan[i] = previewBaseDelay + time.Duration(i)*previewDelayStep
	}
	return plan
}

// Preview draws uniformly random titles for every step of the plan. It must be
// given its own source so the weighted pick is unaffected.
func Preview(pool []string, src Source) []Frame {
	plan := PreviewPlan(len(pool))
	if plan == nil {
		return nil
	}
	if src == nil {
		src = defaultSource
	}

	frames := make([]Frame, len(plan))
	for i, delay := range plan {
		idx := int(src.Float64() * float64(len(pool)))
		if idx >= len(pool) {
			idx = len(pool) - 1
		}
		frames[i] = Frame{Title: pool[idx], Delay: delay}
	}
	return frames
}

// Animate plays frames in order, waiting each frame's delay before calling
// show. It returns ctx.Err() if the context ends first; frames already shown
// carry no state.
func Animate(ctx context.Context, frames []Frame, show func(Frame)) error {
	for _, f := range frames {
		timer := time.NewTimer(f.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		show(f)
	}
	return nil
}
