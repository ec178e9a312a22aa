package engine

import (
	"fmt"
	"sort"
)

// placedShip tracks the cells of one ship and how many of them were hit
type placedShip struct {
	cells []Coord
	hits  int
}

func (s *placedShip) sunk() bool {
	return s.hits == len(s.cells)
}

// Board is one side's grid plus the ships placed on it. The shot history is
// append-only and every cell is resolved at most once.
type Board struct {
	size      int
	cells     [][]CellState
	owner     [][]int // index into ships, -1 when the cell holds no ship
	ships     []*placedShip
	remaining int
	shots     []Shot
}

// Observation is what an opponent may legitimately know about a board: its
// size and the shot history with each announced outcome. Ship cells are never
// part of it, not even for sunk ships.
type Observation struct {
	Size  int    `json:"size"`
	Shots []Shot `json:"shots"`
}

// NewBoard creates an empty size×size board with no ships
func NewBoard(size int) *Board {
	b := &Board{size: size}
	b.cells = make([][]CellState, size)
	b.owner = make([][]int, size)
	for r := 0; r < size; r++ {
		b.cells[r] = make([]CellState, size)
		b.owner[r] = make([]int, size)
		for c := 0; c < size; c++ {
			b.cells[r][c] = Empty
			b.owner[r][c] = -1
		}
	}
	return b
}

// Size returns the board dimension
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether c is on the board
func (b *Board) InBounds(c Coord) bool {
	return c.InBounds(b.size)
}

// Occupied reports whether a ship sits on c
func (b *Board) Occupied(c Coord) bool {
	return b.InBounds(c) && b.owner[c.Row][c.Col] >= 0
}

// Cell returns the raw state of c
func (b *Board) Cell(c Coord) CellState {
	return b.cells[c.Row][c.Col]
}

// PlaceShip puts a ship on the given cells. The cells must be in bounds,
// unoccupied, at least two long, and form one contiguous straight line.
func (b *Board) PlaceShip(cells []Coord) error {
	if len(cells) < MinShipLength {
		return fmt.Errorf("%w: ship needs at least %d cells, got %d", ErrInvalidPlacement, MinShipLength, len(cells))
	}
	for _, c := range cells {
		if !b.InBounds(c) {
			return fmt.Errorf("%w: %s is off the board", ErrInvalidPlacement, c)
		}
		if b.Occupied(c) {
			return fmt.Errorf("%w: %s is already occupied", ErrInvalidPlacement, c)
		}
	}
	if !straightAndContiguous(cells) {
		return fmt.Errorf("%w: cells are not a contiguous line", ErrInvalidPlacement)
	}

	ship := &placedShip{cells: append([]Coord(nil), cells...)}
	idx := len(b.ships)
	b.ships = append(b.ships, ship)
	for _, c := range cells {
		b.cells[c.Row][c.Col] = Ship
		b.owner[c.Row][c.Col] = idx
	}
	b.remaining++
	return nil
}

// RecordShot resolves a shot at c and returns hit, sunk or miss
func (b *Board) RecordShot(c Coord) (Outcome, error) {
	if !b.InBounds(c) {
		return "", fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, c.Row, c.Col)
	}

	var outcome Outcome
	switch b.cells[c.Row][c.Col] {
	case Hit, Miss:
		return "", fmt.Errorf("%w: %s", ErrAlreadyShot, c)
	case Ship:
		b.cells[c.Row][c.Col] = Hit
		ship := b.ships[b.owner[c.Row][c.Col]]
		ship.hits++
		outcome = OutcomeHit
		if ship.sunk() {
			b.remaining--
			outcome = OutcomeSunk
		}
	default:
		b.cells[c.Row][c.Col] = Miss
		outcome = OutcomeMiss
	}

	b.shots = append(b.shots, Shot{
		Coord:   c,
		Label:   FormatCoord(c),
		Outcome: outcome,
		Number:  len(b.shots) + 1,
	})
	return outcome, nil
}

// AlreadyShot reports whether c has already been resolved
func (b *Board) AlreadyShot(c Coord) bool {
	if !b.InBounds(c) {
		return false
	}
	s := b.cells[c.Row][c.Col]
	return s == Hit || s == Miss
}

// Remaining returns the number of ships not yet sunk
func (b *Board) Remaining() int {
	return b.remaining
}

// ShipCount returns the number of ships placed
func (b *Board) ShipCount() int {
	return len(b.ships)
}

// ShipCells returns the total number of cells occupied by ships
func (b *Board) ShipCells() int {
	total := 0
	for _, s := range b.ships {
		total += len(s.cells)
	}
	return total
}

// Defeated reports whether every placed ship has been sunk
func (b *Board) Defeated() bool {
	return len(b.ships) > 0 && b.remaining == 0
}

// Shots returns a copy of the shot history in firing order
func (b *Board) Shots() []Shot {
	return append([]Shot(nil), b.shots...)
}

// Snapshot renders the grid. Without reveal, ships that have not been hit are
// shown as empty water.
func (b *Board) Snapshot(reveal bool) [][]string {
	view := make([][]string, b.size)
	for r := 0; r < b.size; r++ {
		view[r] = make([]string, b.size)
		for c := 0; c < b.size; c++ {
			v := b.cells[r][c]
			if v == Ship && !reveal {
				v = Empty
			}
			view[r][c] = string(v)
		}
	}
	return view
}

// Observe returns the opponent's legitimate view of this board
func (b *Board) Observe() Observation {
	return Observation{Size: b.size, Shots: b.Shots()}
}

// straightAndContiguous reports whether cells form one unbroken row or column
func straightAndContiguous(cells []Coord) bool {
	sorted := append([]Coord(nil), cells...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	sameRow, sameCol := true, true
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if !(cur.Row == prev.Row && cur.Col == prev.Col+1) {
			sameRow = false
		}
		if !(cur.Col == prev.Col && cur.Row == prev.Row+1) {
			sameCol = false
		}
	}
	return sameRow || sameCol
}
