package engine

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game lifecycle
	StartNewGame() *GameState
	Reset() *GameState
	GetState() *GameState
	IsGameOver() bool
	Winner() Side
	Phase() Phase

	// Setup
	PlaceShip(row, col int, horizontal bool) *ActionResult
	AutoPlace() (*ActionResult, error)
	StartBattle() (*ActionResult, error)

	// Battle
	Fire(row, col int) (*ActionResult, error)
	RevealBoards() *RevealResult
	ShotHistory(by Side) []Shot

	// Configuration
	GetConfig() *GameConfig
}

// StrategyFactory builds the bot strategy for a new match
type StrategyFactory func(rng *rand.Rand) Strategy

// Option customises a GameEngine
type Option func(*GameEngine)

// WithRand makes the engine use rng for bot placement and targeting
func WithRand(rng *rand.Rand) Option {
	return func(e *GameEngine) {
		e.rng = rng
	}
}

// WithSeed seeds the engine's random source for reproducible matches
func WithSeed(seed uint64) Option {
	return func(e *GameEngine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithStrategy replaces the default hunt/target bot
func WithStrategy(factory StrategyFactory) Option {
	return func(e *GameEngine) {
		e.newStrategy = factory
	}
}

// GameEngine implements the Engine interface. It owns exactly one active Game
// and serializes every operation on it.
type GameEngine struct {
	mu          sync.Mutex
	game        *Game
	config      *GameConfig
	rng         *rand.Rand
	newStrategy StrategyFactory
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config: config.withDefaults(),
		newStrategy: func(rng *rand.Rand) Strategy {
			return NewHuntTarget(rng)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	e.game = e.freshGame()
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the classic fleet
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultConfig(), opts...)
	if err != nil {
		// DefaultConfig is always valid
		panic(fmt.Sprintf("default config rejected: %v", err))
	}
	return e
}

func (e *GameEngine) freshGame() *Game {
	return NewGame(e.config, e.newStrategy(e.rng), e.rng)
}

// StartNewGame discards the current match and starts a fresh one in placement
func (e *GameEngine) StartNewGame() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.game = e.freshGame()
	return e.game.Snapshot(false)
}

// Reset is equivalent to StartNewGame
func (e *GameEngine) Reset() *GameState {
	return e.StartNewGame()
}

// GetState returns the current snapshot without mutation
func (e *GameEngine) GetState() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Snapshot(false)
}

// GameID returns the identifier of the active match
func (e *GameEngine) GameID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.ID()
}

// IsGameOver returns whether the match is finished
func (e *GameEngine) IsGameOver() bool {
	return e.Phase() == PhaseFinished
}

// Winner returns the winning side, empty while the match is undecided
func (e *GameEngine) Winner() Side {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Winner()
}

// Phase returns the current phase
func (e *GameEngine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Phase()
}

// PlaceShip places the player's next ship with its origin at (row, col)
func (e *GameEngine) PlaceShip(row, col int, horizontal bool) *ActionResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.PlacePlayerShip(Coord{Row: row, Col: col}, horizontal)
}

// AutoPlace places the player's remaining ships at random
func (e *GameEngine) AutoPlace() (*ActionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.AutoPlacePlayerFleet()
}

// StartBattle begins the battle once the player's fleet is complete
func (e *GameEngine) StartBattle() (*ActionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.StartBattle()
}

// Fire shoots at (row, col) on the bot board, followed by the bot's reply
func (e *GameEngine) Fire(row, col int) (*ActionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.PlayerFire(Coord{Row: row, Col: col})
}

// RevealBoards returns both boards fully visible
func (e *GameEngine) RevealBoards() *RevealResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Reveal()
}

// ShotHistory returns the shots fired by the given side
func (e *GameEngine) ShotHistory(by Side) []Shot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Shots(by)
}

// GetConfig returns the engine's configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}
