package engine

import (
	"fmt"
	"math/rand/v2"
)

// Strategy chooses the next shot against an opponent board using only what
// has been observed about that board.
type Strategy interface {
	NextShot(obs Observation) (Coord, error)
}

// HuntTarget hunts at random until it scores a hit, then fires around
// unsunk hits until their ship goes down.
type HuntTarget struct {
	rng *rand.Rand
}

// NewHuntTarget creates the default bot strategy
func NewHuntTarget(rng *rand.Rand) *HuntTarget {
	return &HuntTarget{rng: rng}
}

// NextShot returns an unshot, in-bounds coordinate. It fails with
// ErrNoTargets only when every cell has already been shot.
func (h *HuntTarget) NextShot(obs Observation) (Coord, error) {
	shot := make([][]bool, obs.Size)
	hit := make([][]bool, obs.Size)
	for r := range shot {
		shot[r] = make([]bool, obs.Size)
		hit[r] = make([]bool, obs.Size)
	}
	for _, s := range obs.Shots {
		shot[s.Coord.Row][s.Coord.Col] = true
		switch s.Outcome {
		case OutcomeHit:
			hit[s.Coord.Row][s.Coord.Col] = true
		case OutcomeSunk:
			// hits on a sunk ship need no follow-up
			retireSunk(s.Coord, hit)
		}
	}

	open := func(c Coord) bool {
		return c.InBounds(obs.Size) && !shot[c.Row][c.Col]
	}
	pending := func(c Coord) bool {
		return c.InBounds(obs.Size) && hit[c.Row][c.Col]
	}

	// Targeting: most recent unsunk hit first
	for i := len(obs.Shots) - 1; i >= 0; i-- {
		origin := obs.Shots[i].Coord
		if !pending(origin) {
			continue
		}
		if c, ok := extendLine(origin, pending, open); ok {
			return c, nil
		}
		offset := h.rng.IntN(len(orthogonal))
		for k := 0; k < len(orthogonal); k++ {
			c := origin.add(orthogonal[(offset+k)%len(orthogonal)])
			if open(c) {
				return c, nil
			}
		}
	}

	// Hunting: uniform over unshot cells
	var candidates []Coord
	for r := 0; r < obs.Size; r++ {
		for c := 0; c < obs.Size; c++ {
			if !shot[r][c] {
				candidates = append(candidates, Coord{Row: r, Col: c})
			}
		}
	}
	if len(candidates) == 0 {
		return Coord{}, fmt.Errorf("%w: %w", ErrInvariant, ErrNoTargets)
	}
	return candidates[h.rng.IntN(len(candidates))], nil
}

// retireSunk clears the pending hits that most likely belong to the ship sunk
// at c: the longest run of earlier hits through c along one axis. The history
// does not say which cells a sunk ship covered, so a hit wrongly kept pending
// only costs the bot a shot.
func retireSunk(c Coord, hit [][]bool) {
	size := len(hit)
	pending := func(p Coord) bool {
		return p.InBounds(size) && hit[p.Row][p.Col]
	}

	var best []Coord
	for _, d := range orthogonal[:2] {
		var run []Coord
		for _, dir := range []Coord{d, {Row: -d.Row, Col: -d.Col}} {
			for p := c.add(dir); pending(p); p = p.add(dir) {
				run = append(run, p)
			}
		}
		if len(run) > len(best) {
			best = run
		}
	}

	hit[c.Row][c.Col] = false
	for _, p := range best {
		hit[p.Row][p.Col] = false
	}
}

// extendLine looks for a run of pending hits through origin and returns the
// first open cell at either end of the run.
func extendLine(origin Coord, pending, open func(Coord) bool) (Coord, bool) {
	for _, d := range orthogonal[:2] {
		back := Coord{Row: -d.Row, Col: -d.Col}
		if !pending(origin.add(d)) && !pending(origin.add(back)) {
			continue
		}
		for _, dir := range []Coord{d, back} {
			c := origin.add(dir)
			for pending(c) {
				c = c.add(dir)
			}
			if open(c) {
				return c, true
			}
		}
	}
	return Coord{}, false
}
