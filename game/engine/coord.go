package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord is a zero-based (row, column) grid position
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether c lies on a size×size grid
func (c Coord) InBounds(size int) bool {
	return c.Row >= 0 && c.Row < size && c.Col >= 0 && c.Col < size
}

// String formats the coordinate as a display label such as "A1"
func (c Coord) String() string {
	return FormatCoord(c)
}

// FormatCoord renders a coordinate with a letter row and 1-based column
func FormatCoord(c Coord) string {
	if c.Row < 0 || c.Row >= 26 {
		return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
	}
	return fmt.Sprintf("%c%d", 'A'+c.Row, c.Col+1)
}

// ParseCoord converts a label like "b3" into a coordinate on the fixed grid
func ParseCoord(label string) (Coord, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) < 2 {
		return Coord{}, fmt.Errorf("invalid coordinate %q", label)
	}

	if label[0] < 'A' || label[0] > 'Z' {
		return Coord{}, fmt.Errorf("invalid row in %q", label)
	}
	row := int(label[0] - 'A')

	digits := label[1:]
	if !plainNumber(digits) {
		return Coord{}, fmt.Errorf("invalid column in %q", label)
	}
	col, err := strconv.Atoi(digits)
	if err != nil {
		return Coord{}, fmt.Errorf("invalid column in %q", label)
	}

	c := Coord{Row: row, Col: col - 1}
	if !c.InBounds(GridSize) {
		return Coord{}, fmt.Errorf("%w: %s", ErrOutOfBounds, label)
	}
	return c, nil
}

// plainNumber accepts only unsigned decimal digits without a leading zero
func plainNumber(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// RowLabels returns the letter labels for each row
func RowLabels(size int) []string {
	labels := make([]string, size)
	for i := range labels {
		labels[i] = string(rune('A' + i))
	}
	return labels
}

// ColLabels returns the 1-based number labels for each column
func ColLabels(size int) []string {
	labels := make([]string, size)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}

// orthogonal lists the four neighbour offsets: up, right, down, left
var orthogonal = []Coord{
	{Row: -1, Col: 0},
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
}

func (c Coord) add(d Coord) Coord {
	return Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
}
