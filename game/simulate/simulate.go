// Package simulate measures a bot strategy by letting it shoot at randomly
// placed fleets until they sink. Games run in parallel and are seeded per
// game, so a report depends only on its Options and not on scheduling.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/wricardo/battleship/game/engine"
)

// ErrRunaway means a strategy kept firing after every cell had been shot
var ErrRunaway = errors.New("strategy exceeded the number of grid cells")

// Options controls a simulation run
type Options struct {
	Games    int
	Seed     uint64
	Workers  int
	Strategy engine.StrategyFactory
}

// Report summarises how many shots the strategy needed per game
type Report struct {
	Config    string      `json:"config"`
	Games     int         `json:"games"`
	MinShots  int         `json:"min_shots"`
	MaxShots  int         `json:"max_shots"`
	AvgShots  float64     `json:"avg_shots"`
	Histogram map[int]int `json:"histogram"`
}

// PlayOne auto-places the config's fleet and returns the number of shots the
// strategy needed to sink all of it
func PlayOne(config *engine.GameConfig, seed uint64, factory engine.StrategyFactory) (int, error) {
	if factory == nil {
		factory = defaultStrategy
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	board, err := engine.NewFleet(config.Fleet).AutoPlace(engine.NewBoard(engine.GridSize), rng)
	if err != nil {
		return 0, err
	}

	strategy := factory(rng)
	limit := engine.GridSize * engine.GridSize
	for shots := 1; shots <= limit; shots++ {
		target, err := strategy.NextShot(board.Observe())
		if err != nil {
			return 0, fmt.Errorf("shot %d: %w", shots, err)
		}
		if _, err := board.RecordShot(target); err != nil {
			return 0, fmt.Errorf("shot %d at %s: %w", shots, engine.FormatCoord(target), err)
		}
		if board.Defeated() {
			return shots, nil
		}
	}
	return 0, ErrRunaway
}

// Run plays opts.Games games against config and aggregates the results
func Run(ctx context.Context, config *engine.GameConfig, opts Options) (*Report, error) {
	if opts.Games < 1 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	results := make([]int, opts.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := 0; i < opts.Games; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			shots, err := PlayOne(config, opts.Seed+uint64(i), opts.Strategy)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = shots
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarise(config.Name, results), nil
}

func summarise(name string, results []int) *Report {
	report := &Report{
		Config:    name,
		Games:     len(results),
		MinShots:  results[0],
		MaxShots:  results[0],
		Histogram: make(map[int]int),
	}
	total := 0
	for _, shots := range results {
		total += shots
		report.Histogram[shots]++
		if shots < report.MinShots {
			report.MinShots = shots
		}
		if shots > report.MaxShots {
			report.MaxShots = shots
		}
	}
	report.AvgShots = float64(total) / float64(len(results))
	return report
}

// Buckets returns the histogram's shot counts in ascending order
func (r *Report) Buckets() []int {
	keys := make([]int, 0, len(r.Histogram))
	for k := range r.Histogram {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func defaultStrategy(rng *rand.Rand) engine.Strategy {
	return engine.NewHuntTarget(rng)
}
