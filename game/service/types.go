package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/battleship/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidTarget   = errors.New("invalid target")
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// Target identifies a cell either by zero-based row and column or by a
// label such as "B3". The label wins when both are set.
type Target struct {
	Row   *int   `json:"row,omitempty"`
	Col   *int   `json:"col,omitempty"`
	Label string `json:"target,omitempty"`
}

// At builds a Target from a zero-based row and column
func At(row, col int) Target {
	return Target{Row: &row, Col: &col}
}

// Coord resolves the target. Labels outside the grid return an error
// wrapping engine.ErrOutOfBounds; malformed input wraps ErrInvalidTarget.
func (t Target) Coord() (engine.Coord, error) {
	if t.Label != "" {
		c, err := engine.ParseCoord(t.Label)
		if err != nil {
			if errors.Is(err, engine.ErrOutOfBounds) {
				return engine.Coord{}, err
			}
			return engine.Coord{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
		}
		return c, nil
	}
	if t.Row == nil || t.Col == nil {
		return engine.Coord{}, fmt.Errorf("%w: row and col or target label required", ErrInvalidTarget)
	}
	return engine.Coord{Row: *t.Row, Col: *t.Col}, nil
}

// PlaceRequest places the next ship of the fleet with its origin at Target
type PlaceRequest struct {
	Target
	Horizontal bool `json:"horizontal"`
}

// ActionResult contains the result of a game action
type ActionResult struct {
	Success   bool               `json:"success"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Shot      *engine.ShotReport `json:"shot,omitempty"`
	BotShot   *engine.ShotReport `json:"bot_shot,omitempty"`
	GameOver  bool               `json:"game_over"`
	Winner    engine.Side        `json:"winner,omitempty"`
	Events    []GameEvent        `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "placed", "battle_started", "shot", "bot_shot", "victory", "defeat", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Target    string    `json:"target,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
}

// HistoryOptions configures shot history retrieval
type HistoryOptions struct {
	Side  engine.Side `json:"side"` // "player" or "bot"
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Order string      `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated shot history for one side
type HistoryResponse struct {
	Side        engine.Side   `json:"side"`
	Shots       []engine.Shot `json:"shots"`
	TotalShots  int           `json:"total_shots"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Fleet       []int  `json:"fleet"`
	ShipCells   int    `json:"ship_cells"`
}
