package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/battleship/game/engine"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// session marks a session as accessed and returns a copy taken afterwards,
// so the returned timestamps are never written again
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to update last access")
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	return sess, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().
		Str("session_id", sess.ID).
		Str("config", config.Name).
		Ints("fleet", config.Fleet).
		Msg("session created")

	return s.sessionInfo(sess, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Info().Str("session_id", sessionID).Msg("session deleted")
	return nil
}

// NewGame discards the session's current match and starts a fresh one
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.StartNewGame()
	log.Info().Str("session_id", sess.ID).Str("game_id", state.GameID).Msg("new game started")
	return state, nil
}

// PlaceShip places the next ship of the player's fleet
func (s *gameServiceImpl) PlaceShip(ctx context.Context, sessionID string, req PlaceRequest) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	origin, err := req.Coord()
	if err != nil {
		if errors.Is(err, engine.ErrOutOfBounds) {
			msgs := sess.Engine.GetConfig().Messages
			if sess.Engine.Phase() != engine.PhasePlacement {
				return rejected(sess, msgs.NotPlacement), nil
			}
			return rejected(sess, msgs.OffGrid), nil
		}
		return nil, err
	}

	res := sess.Engine.PlaceShip(origin.Row, origin.Col, req.Horizontal)
	result := newActionResult(res)
	if res.OK {
		result.Events = append(result.Events, event("placed", res.Message, origin.String(), ""))
	}

	log.Debug().
		Str("session_id", sess.ID).
		Str("origin", origin.String()).
		Bool("horizontal", req.Horizontal).
		Bool("ok", res.OK).
		Msg("place ship")
	return result, nil
}

// AutoPlace places the player's remaining ships at random
func (s *gameServiceImpl) AutoPlace(ctx context.Context, sessionID string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Engine.AutoPlace()
	if err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("auto placement failed")
		return nil, err
	}

	result := newActionResult(res)
	if res.OK {
		result.Events = append(result.Events, event("placed", res.Message, "", ""))
	}
	return result, nil
}

// StartBattle begins the battle once the player's fleet is complete
func (s *gameServiceImpl) StartBattle(ctx context.Context, sessionID string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Engine.StartBattle()
	if err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("bot fleet placement failed")
		return nil, err
	}

	result := newActionResult(res)
	if res.OK {
		result.Events = append(result.Events, event("battle_started", res.Message, "", ""))
		log.Info().Str("session_id", sess.ID).Msg("battle started")
	}
	return result, nil
}

// Fire shoots at the bot board; the bot answers unless the shot ended the game
func (s *gameServiceImpl) Fire(ctx context.Context, sessionID string, target Target) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	c, err := target.Coord()
	if err != nil {
		if errors.Is(err, engine.ErrOutOfBounds) {
			msgs := sess.Engine.GetConfig().Messages
			if sess.Engine.Phase() != engine.PhasePlaying {
				return rejected(sess, msgs.NotPlaying), nil
			}
			return rejected(sess, msgs.OffBoard), nil
		}
		return nil, err
	}

	res, err := sess.Engine.Fire(c.Row, c.Col)
	if err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Str("target", c.String()).Msg("fire failed")
		return nil, err
	}

	result := newActionResult(res)
	if res.Shot != nil {
		result.Events = append(result.Events, event("shot", res.Shot.Message, res.Shot.Label, string(res.Shot.Outcome)))
	}
	if res.BotShot != nil {
		result.Events = append(result.Events, event("bot_shot", res.BotShot.Message, res.BotShot.Label, string(res.BotShot.Outcome)))
	}
	switch {
	case res.Done:
		result.Events = append(result.Events, event("victory", res.Message, "", ""))
	case res.BotDone:
		result.Events = append(result.Events, event("defeat", res.Message, "", ""))
	}

	logEvent := log.Debug().Str("session_id", sess.ID).Str("target", c.String()).Bool("ok", res.OK)
	if res.Shot != nil {
		logEvent = logEvent.Str("outcome", string(res.Shot.Outcome))
	}
	if res.BotShot != nil {
		logEvent = logEvent.Str("bot_target", res.BotShot.Label).Str("bot_outcome", string(res.BotShot.Outcome))
	}
	logEvent.Msg("fire")

	if result.GameOver {
		log.Info().Str("session_id", sess.ID).Str("winner", string(result.Winner)).Msg("game finished")
	}
	return result, nil
}

// RevealBoards shows both boards without changing the game
func (s *gameServiceImpl) RevealBoards(ctx context.Context, sessionID string) (*engine.RevealResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.RevealBoards(), nil
}

// Reset resets a game session to a fresh match with the same configuration
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Reset()
	log.Info().Str("session_id", sess.ID).Str("game_id", state.GameID).Msg("game reset")
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetShotHistory returns paginated shot history for one side
func (s *gameServiceImpl) GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	if opts.Side != engine.SideBot {
		opts.Side = engine.SidePlayer
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	history := sess.Engine.ShotHistory(opts.Side)
	total := len(history)

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	shots := []engine.Shot{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				shots = append(shots, history[i])
			}
		} else {
			shots = append(shots, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Side:        opts.Side,
		Shots:       shots,
		TotalShots:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	log.Info().Str("config", configName).Ints("fleet", config.Fleet).Msg("config saved")
	return nil
}

func newActionResult(res *engine.ActionResult) *ActionResult {
	result := &ActionResult{
		Success:   res.OK,
		GameState: res.State,
		Message:   res.Message,
		Shot:      res.Shot,
		BotShot:   res.BotShot,
	}
	if res.State != nil && res.State.Phase == engine.PhaseFinished {
		result.GameOver = true
		result.Winner = res.State.Winner
	}
	return result
}

// rejected reports a recoverable error without calling into the engine
func rejected(sess *Session, message string) *ActionResult {
	state := sess.Engine.GetState()
	return &ActionResult{
		Success:   false,
		GameState: state,
		Message:   message,
		GameOver:  state.Phase == engine.PhaseFinished,
		Winner:    state.Winner,
	}
}

func event(kind, message, target, outcome string) GameEvent {
	return GameEvent{
		Type:      kind,
		Message:   message,
		Timestamp: time.Now(),
		Target:    target,
		Outcome:   outcome,
	}
}
