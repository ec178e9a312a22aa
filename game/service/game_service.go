package service

import (
	"context"
	"time"

	"github.com/wricardo/battleship/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Setup
	NewGame(ctx context.Context, sessionID string) (*engine.GameState, error)
	PlaceShip(ctx context.Context, sessionID string, req PlaceRequest) (*ActionResult, error)
	AutoPlace(ctx context.Context, sessionID string) (*ActionResult, error)
	StartBattle(ctx context.Context, sessionID string) (*ActionResult, error)

	// Battle
	Fire(ctx context.Context, sessionID string, target Target) (*ActionResult, error)
	RevealBoards(ctx context.Context, sessionID string) (*engine.RevealResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. Values handed out by a
// SessionManager are copies; the Engine they point to is shared and guards
// itself.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Snapshot returns a copy that is safe to read while the original's
// timestamps keep changing
func (s *Session) Snapshot() *Session {
	cp := *s
	return &cp
}
