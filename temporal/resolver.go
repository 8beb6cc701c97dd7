package temporal

import (
	"sort"
	"time"

	"github.com/NicoleKaira/video-chatbot-v2/schema"
)

// PointBuffer pads a single-timestamp question into a window around the
// mentioned moment.
const PointBuffer = 2 * time.Minute

// MatchScore is assigned to every chunk selected by a temporal window.
// Window membership is binary, so all matches rank equally.
const MatchScore = 1.0

// Window is an inclusive time range within one lecture.
type Window struct {
	Start time.Duration
	End   time.Duration
}

// ResolveWindow turns the temporal signals of a variant into a window.
// No signals means no window (ok=false). One signal becomes a buffered
// window around that point, clamped at zero. Two signals are an exact
// range and must be ordered.
func ResolveWindow(signals []time.Duration) (Window, bool, error) {
	switch len(signals) {
	case 0:
		return Window{}, false, nil
	case 1:
		start := signals[0] - PointBuffer
		if start < 0 {
			start = 0
		}
		return Window{Start: start, End: signals[0] + PointBuffer}, true, nil
	case 2:
		if signals[0] > signals[1] {
			return Window{}, false, &schema.ConfigurationError{
				Reason: "temporal range start exceeds its end",
			}
		}
		return Window{Start: signals[0], End: signals[1]}, true, nil
	default:
		return Window{}, false, &schema.ConfigurationError{
			Reason: "a variant carries at most two temporal signals",
		}
	}
}

// Matches reports whether a chunk overlaps the window. A chunk that
// merely touches a boundary counts.
func (w Window) Matches(c schema.Chunk) bool {
	return c.Start <= w.End && c.End >= w.Start
}

// Filter returns the chunks overlapping the window, ordered by start
// time so the caller can present them chronologically.
func (w Window) Filter(chunks []schema.Chunk) []schema.Chunk {
	var out []schema.Chunk
	for _, c := range chunks {
		if w.Matches(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
