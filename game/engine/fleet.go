package engine

import (
	"fmt"
	"math/rand/v2"
)

// Fleet validates sequential placement of a fixed, ordered list of ship
// lengths onto a board.
type Fleet struct {
	sizes []int
	next  int
}

// NewFleet creates a fleet placer for the given ship lengths
func NewFleet(sizes []int) *Fleet {
	return &Fleet{sizes: append([]int(nil), sizes...)}
}

// Sizes returns the ordered ship lengths
func (f *Fleet) Sizes() []int {
	return append([]int(nil), f.sizes...)
}

// Next returns the index of the next ship to place
func (f *Fleet) Next() int {
	return f.next
}

// Complete reports whether every ship has been placed
func (f *Fleet) Complete() bool {
	return f.next >= len(f.sizes)
}

// CurrentLength returns the length of the next ship, or 0 when complete
func (f *Fleet) CurrentLength() int {
	if f.Complete() {
		return 0
	}
	return f.sizes[f.next]
}

// ShipCells computes the cells covered by a ship of the given length
// starting at origin and extending right (horizontal) or down.
func ShipCells(origin Coord, length int, horizontal bool) []Coord {
	cells := make([]Coord, length)
	for i := 0; i < length; i++ {
		if horizontal {
			cells[i] = Coord{Row: origin.Row, Col: origin.Col + i}
		} else {
			cells[i] = Coord{Row: origin.Row + i, Col: origin.Col}
		}
	}
	return cells
}

// PlaceNext places the next ship of the fleet on board. It returns the
// updated placement index and whether the fleet is now complete. On error the
// board and the index are unchanged.
func (f *Fleet) PlaceNext(board *Board, origin Coord, horizontal bool) (int, bool, error) {
	if f.Complete() {
		return f.next, true, ErrOutOfFleet
	}

	cells := ShipCells(origin, f.sizes[f.next], horizontal)
	for _, c := range cells {
		if !board.InBounds(c) {
			return f.next, false, fmt.Errorf("%w: %s ship of length %d from %s leaves the grid",
				ErrOutOfBounds, orientation(horizontal), len(cells), origin)
		}
	}
	for _, c := range cells {
		if board.Occupied(c) {
			return f.next, false, fmt.Errorf("%w at %s", ErrOverlap, c)
		}
	}

	if err := board.PlaceShip(cells); err != nil {
		return f.next, false, err
	}

	f.next++
	return f.next, f.Complete(), nil
}

// AutoPlace places every remaining ship at random legal positions using
// PlaceNext. Each ship is drawn uniformly from the placements still legal for
// it; if a ship has none left the whole board is rebuilt, bounded by
// MaxPlacementRestarts. The input board is never modified; the returned board
// replaces it on success.
func (f *Fleet) AutoPlace(board *Board, rng *rand.Rand) (*Board, error) {
	start := f.next
	for attempt := 0; attempt < MaxPlacementRestarts; attempt++ {
		candidate := rebuildBoard(board, start)
		f.next = start
		if f.placeRemaining(candidate, rng) {
			return candidate, nil
		}
	}
	f.next = start
	return board, fmt.Errorf("%w: could not place fleet %v after %d attempts", ErrInvariant, f.sizes, MaxPlacementRestarts)
}

// placeRemaining tries to place the rest of the fleet once
func (f *Fleet) placeRemaining(board *Board, rng *rand.Rand) bool {
	for !f.Complete() {
		options := legalPlacements(board, f.CurrentLength())
		if len(options) == 0 {
			return false
		}
		pick := options[rng.IntN(len(options))]
		if _, _, err := f.PlaceNext(board, pick.origin, pick.horizontal); err != nil {
			return false
		}
	}
	return true
}

type placement struct {
	origin     Coord
	horizontal bool
}

// legalPlacements enumerates every origin/orientation a ship of length can use
func legalPlacements(board *Board, length int) []placement {
	var out []placement
	for r := 0; r < board.Size(); r++ {
		for c := 0; c < board.Size(); c++ {
			for _, horizontal := range []bool{true, false} {
				origin := Coord{Row: r, Col: c}
				if fits(board, ShipCells(origin, length, horizontal)) {
					out = append(out, placement{origin: origin, horizontal: horizontal})
				}
			}
		}
	}
	return out
}

func fits(board *Board, cells []Coord) bool {
	for _, c := range cells {
		if !board.InBounds(c) || board.Occupied(c) {
			return false
		}
	}
	return true
}

// rebuildBoard returns a fresh board holding only the first keep ships of src
func rebuildBoard(src *Board, keep int) *Board {
	b := NewBoard(src.Size())
	for i := 0; i < keep && i < len(src.ships); i++ {
		// cells came from a valid board, so this cannot fail
		_ = b.PlaceShip(src.ships[i].cells)
	}
	return b
}

func orientation(horizontal bool) string {
	if horizontal {
		return "horizontal"
	}
	return "vertical"
}
