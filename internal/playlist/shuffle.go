package playlist

import (
	"math/rand"
	"slices"
	"time"
)

// maxDrawAttempts bounds how many random draws a single pull makes while
// looking for an entry that differs from the previous one in both map and
// game type. After the budget is spent the last draw is accepted as-is.
const maxDrawAttempts = 4

// Shuffler hands out playlist entries in pseudo-random order, avoiding
// back-to-back repeats of a map or game type where it can. The working
// list is consumed destructively and refilled from the source, so every
// source entry is returned exactly once per full cycle.
type Shuffler struct {
	source  []Entry
	working []Entry
	last    *Entry
	enabled bool
	rng     *rand.Rand

	stats Stats
}

// Stats counts pull outcomes since construction.
type Stats struct {
	Pulls     int
	Fallbacks int // pulls that spent the whole draw budget without a clean candidate
}

func NewShuffler(entries []Entry, enabled bool, rng *rand.Rand) (*Shuffler, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyPlaylist
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Shuffler{
		source:  slices.Clone(entries),
		enabled: enabled,
		rng:     rng,
	}, nil
}

// PullNext returns the next entry to play. With shuffling disabled it is
// fully deterministic: index 0 every time. With shuffling enabled it draws
// uniformly, retrying up to maxDrawAttempts for a candidate whose map AND
// game type both differ from the previous pull; the anti-repeat bias is
// best-effort, not a guarantee.
func (s *Shuffler) PullNext() Entry {
	if len(s.working) == 0 {
		s.working = slices.Clone(s.source)
	}

	idx := 0
	if s.enabled {
		clean := false
		for attempt := 0; attempt < maxDrawAttempts; attempt++ {
			idx = s.rng.Intn(len(s.working))
			if len(s.working) == 1 || s.last == nil {
				clean = true
				break
			}
			c := s.working[idx]
			if c.MapName != s.last.MapName && c.GameType != s.last.GameType {
				clean = true
				break
			}
		}
		if !clean {
			s.stats.Fallbacks++
		}
	}

	got := s.working[idx]
	if s.enabled {
		// swap-remove; remaining order carries no meaning while shuffling
		s.working[idx] = s.working[len(s.working)-1]
		s.working = s.working[:len(s.working)-1]
	} else {
		// consume front to back so the source order survives the cycle
		s.working = s.working[1:]
	}
	s.last = &got
	s.stats.Pulls++
	return got
}

// Remaining reports how many entries are left in the current cycle.
func (s *Shuffler) Remaining() int { return len(s.working) }

func (s *Shuffler) Stats() Stats { return s.stats }
