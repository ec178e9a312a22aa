// Package validate checks fleet configuration files before the server loads
// them. Besides the structural rules enforced by the engine it reports how
// crowded each fleet makes the 6x6 grid and how many ways every ship can be
// placed on an empty board.
package validate

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/battleship/game/engine"
)

// Result captures the outcome of validating a single file. Errors holds the
// problems for an invalid file; Info holds the summary lines for a valid one.
type Result struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

// File loads and validates a single configuration JSON file
func File(path string) Result {
	result := Result{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
		Info:   []string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.ParseGameConfig(data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	cells := config.TotalShipCells()
	area := engine.GridSize * engine.GridSize
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Config ID: %s", engine.ConfigID(path)),
		fmt.Sprintf("✓ Fleet: %v", config.Fleet),
		fmt.Sprintf("✓ Ship cells: %d/%d (%d%%)", cells, area, cells*100/area),
	)
	for _, length := range distinct(config.Fleet) {
		result.Info = append(result.Info,
			fmt.Sprintf("✓ Placements for length %d on an empty board: %d", length, Placements(length)))
	}

	// AutoPlace gives up after a bounded number of restarts, so prove the
	// fleet can actually be laid out
	if _, err := engine.NewFleet(config.Fleet).AutoPlace(engine.NewBoard(engine.GridSize), seeded()); err != nil {
		result.fail("Fleet cannot be placed: %v", err)
	}

	return result
}

// Dir validates every *.json file in dir, sorted by file name
func Dir(dir string) ([]Result, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("finding config files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no config files in %s", dir)
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, file := range files {
		results = append(results, File(file))
	}
	return results, nil
}

// Placements counts the origins and orientations a ship of length has on an
// empty grid
func Placements(length int) int {
	if length < 1 || length > engine.GridSize {
		return 0
	}
	return 2 * engine.GridSize * (engine.GridSize - length + 1)
}

// Report renders results the way the validate command prints them and
// reports whether every file was valid
func Report(results []Result) (string, bool) {
	var sb strings.Builder
	allValid := true

	for _, result := range results {
		fmt.Fprintf(&sb, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			sb.WriteString("✅ VALID\n")
			for _, info := range result.Info {
				sb.WriteString("  " + info + "\n")
			}
			continue
		}

		allValid = false
		sb.WriteString("❌ INVALID\n")
		for _, err := range result.Errors {
			sb.WriteString("  ❌ " + err + "\n")
		}
	}

	fmt.Fprintf(&sb, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		sb.WriteString("✅ All configurations are valid!\n")
	} else {
		sb.WriteString("❌ Some configurations have errors\n")
	}
	return sb.String(), allValid
}

func (r *Result) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// seeded keeps validation output reproducible
func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func distinct(lengths []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, l := range lengths {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Ints(out)
	return out
}
