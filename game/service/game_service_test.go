package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/service"
	"github.com/wricardo/battleship/game/session"
)

// MockSessionManager implements service.SessionManager for testing. Like the
// real manager it hands out copies.
type MockSessionManager struct {
	mu       sync.Mutex
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config, engine.WithSeed(uint64(len(m.sessions)+1)))
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session.Snapshot(), nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

func (m *MockSessionManager) List() []*service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session.Snapshot())
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
	saved   map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	duel := engine.DefaultConfig()
	duel.Name = "Duel"
	duel.Description = "Two ships"
	duel.Fleet = []int{3, 2}

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"classic": engine.DefaultConfig(),
			"duel":    duel,
		},
		saved: make(map[string]*engine.GameConfig),
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			Fleet:       config.Fleet,
			ShipCells:   config.TotalShipCells(),
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["classic"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.saved[name] = config
	return nil
}

func newTestService(t *testing.T, configName string) (service.GameService, string) {
	t.Helper()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
	info, err := svc.CreateSession(context.Background(), configName)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, info.ID
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	tests := []struct {
		name       string
		configName string
		wantConfig string
		wantErr    bool
	}{
		{
			name:       "create with default config",
			configName: "",
			wantConfig: "classic",
		},
		{
			name:       "create with specific config",
			configName: "duel",
			wantConfig: "duel",
		},
		{
			name:       "create with invalid config",
			configName: "nonexistent",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, service.ErrConfigNotFound) {
					t.Errorf("Expected ErrConfigNotFound, got %v", err)
				}
				return
			}
			if session.ConfigName != tt.wantConfig {
				t.Errorf("Expected config %s, got %s", tt.wantConfig, session.ConfigName)
			}
			if session.GameState.Phase != engine.PhasePlacement {
				t.Errorf("Expected placement phase, got %s", session.GameState.Phase)
			}
		})
	}
}

func TestGameService_UnknownSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, "")

	calls := map[string]func() error{
		"GetSession": func() error { _, err := svc.GetSession(ctx, "nope"); return err },
		"NewGame":    func() error { _, err := svc.NewGame(ctx, "nope"); return err },
		"Fire":       func() error { _, err := svc.Fire(ctx, "nope", service.At(0, 0)); return err },
		"Reveal":     func() error { _, err := svc.RevealBoards(ctx, "nope"); return err },
		"History": func() error {
			_, err := svc.GetShotHistory(ctx, "nope", service.HistoryOptions{})
			return err
		},
		"Delete": func() error { return svc.DeleteSession(ctx, "nope") },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, service.ErrSessionNotFound) {
				t.Errorf("Expected ErrSessionNotFound, got %v", err)
			}
		})
	}
}

func TestGameService_PlaceShip(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, "duel")

	tests := []struct {
		name        string
		req         service.PlaceRequest
		wantSuccess bool
		wantErr     error
	}{
		{
			name:        "row and col",
			req:         service.PlaceRequest{Target: service.At(0, 0), Horizontal: true},
			wantSuccess: true,
		},
		{
			name:        "overlapping label",
			req:         service.PlaceRequest{Target: service.Target{Label: "A2"}, Horizontal: false},
			wantSuccess: false,
		},
		{
			name:        "label off the grid",
			req:         service.PlaceRequest{Target: service.Target{Label: "G1"}},
			wantSuccess: false,
		},
		{
			name:    "malformed label",
			req:     service.PlaceRequest{Target: service.Target{Label: "hello"}},
			wantErr: service.ErrInvalidTarget,
		},
		{
			name:    "missing coordinates",
			req:     service.PlaceRequest{},
			wantErr: service.ErrInvalidTarget,
		},
		{
			name:        "lowercase label",
			req:         service.PlaceRequest{Target: service.Target{Label: "c3"}, Horizontal: false},
			wantSuccess: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.PlaceShip(ctx, id, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PlaceShip() error = %v", err)
			}
			if result.Success != tt.wantSuccess {
				t.Errorf("Expected success %v, got %v (%s)", tt.wantSuccess, result.Success, result.Message)
			}
			if result.Success && len(result.Events) != 1 {
				t.Errorf("Expected a placed event, got %v", result.Events)
			}
		})
	}

	state, err := svc.GetGameState(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if state.NextShipIdx != 2 {
		t.Errorf("Expected both ships placed, got index %d", state.NextShipIdx)
	}
}

func TestGameService_FullGame(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, "duel")

	if _, err := svc.PlaceShip(ctx, id, service.PlaceRequest{Target: service.At(0, 0), Horizontal: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.PlaceShip(ctx, id, service.PlaceRequest{Target: service.At(2, 2)}); err != nil {
		t.Fatal(err)
	}

	battle, err := svc.StartBattle(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !battle.Success || battle.GameState.Phase != engine.PhasePlaying {
		t.Fatalf("Expected battle to start: %s", battle.Message)
	}

	reveal, err := svc.RevealBoards(ctx, id)
	if err != nil {
		t.Fatal(err)
	}

	var targets []string
	for r, row := range reveal.BotBoard {
		for c, cell := range row {
			if cell == string(engine.Ship) {
				targets = append(targets, engine.FormatCoord(engine.Coord{Row: r, Col: c}))
			}
		}
	}

	var last *service.ActionResult
	for _, label := range targets {
		last, err = svc.Fire(ctx, id, service.Target{Label: label})
		if err != nil {
			t.Fatalf("Fire(%s): %v", label, err)
		}
		if !last.Success {
			t.Fatalf("Fire(%s) rejected: %s", label, last.Message)
		}
	}

	if !last.GameOver || last.Winner != engine.SidePlayer {
		t.Fatalf("Expected player victory, got over=%v winner=%s", last.GameOver, last.Winner)
	}
	if last.BotShot != nil {
		t.Error("Bot must not fire after the winning shot")
	}
	if kinds := eventTypes(last.Events); kinds != "shot,victory" {
		t.Errorf("Expected shot,victory events, got %s", kinds)
	}
	if last.GameState.PlayerShots != 5 {
		t.Errorf("Expected 5 player shots, got %d", last.GameState.PlayerShots)
	}

	after, err := svc.Fire(ctx, id, service.At(5, 5))
	if err != nil {
		t.Fatal(err)
	}
	if after.Success {
		t.Error("Fire after the game is finished must be rejected")
	}
}

func TestGameService_FireRejections(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, "")

	if _, err := svc.AutoPlace(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartBattle(ctx, id); err != nil {
		t.Fatal(err)
	}

	first, err := svc.Fire(ctx, id, service.Target{Label: "B3"})
	if err != nil {
		t.Fatal(err)
	}
	if kinds := eventTypes(first.Events); kinds != "shot,bot_shot" {
		t.Errorf("Expected shot,bot_shot events, got %s", kinds)
	}

	again, err := svc.Fire(ctx, id, service.At(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if again.Success {
		t.Error("Repeated shot must be rejected")
	}

	off, err := svc.Fire(ctx, id, service.Target{Label: "Z9"})
	if err != nil {
		t.Fatal(err)
	}
	if off.Success || off.Message != engine.DefaultMessages().OffBoard {
		t.Errorf("Expected off board rejection, got %q", off.Message)
	}

	state, _ := svc.GetGameState(ctx, id)
	if state.PlayerShots != 1 || state.BotShots != 1 {
		t.Errorf("Rejected shots changed counters: %d/%d", state.PlayerShots, state.BotShots)
	}
}

func TestGameService_OffGridReportsPhaseFirst(t *testing.T) {
	ctx := context.Background()
	msgs := engine.DefaultMessages()
	svc, id := newTestService(t, "duel")

	early, err := svc.Fire(ctx, id, service.Target{Label: "G1"})
	if err != nil {
		t.Fatal(err)
	}
	if early.Success || early.Message != msgs.NotPlaying {
		t.Errorf("Expected not playing rejection during placement, got %q", early.Message)
	}

	if _, err := svc.AutoPlace(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartBattle(ctx, id); err != nil {
		t.Fatal(err)
	}

	late, err := svc.PlaceShip(ctx, id, service.PlaceRequest{Target: service.Target{Label: "G1"}})
	if err != nil {
		t.Fatal(err)
	}
	if late.Success || late.Message != msgs.NotPlacement {
		t.Errorf("Expected not placement rejection during battle, got %q", late.Message)
	}

	inGrid, err := svc.PlaceShip(ctx, id, service.PlaceRequest{Target: service.Target{Label: "A1"}})
	if err != nil {
		t.Fatal(err)
	}
	if inGrid.Message != late.Message {
		t.Errorf("Off-grid and in-grid placement should agree during battle: %q vs %q", late.Message, inGrid.Message)
	}
}

func TestGameService_GetShotHistory(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, "")

	svc.AutoPlace(ctx, id)
	svc.StartBattle(ctx, id)
	for _, label := range []string{"A1", "A2", "A3", "A4", "A5"} {
		if _, err := svc.Fire(ctx, id, service.Target{Label: label}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantCount int
		wantFirst string
		wantPages int
		wantNext  bool
	}{
		{
			name:      "default order is newest first",
			opts:      service.HistoryOptions{},
			wantCount: 5,
			wantFirst: "A5",
			wantPages: 1,
		},
		{
			name:      "ascending first page",
			opts:      service.HistoryOptions{Order: "asc", Limit: 2},
			wantCount: 2,
			wantFirst: "A1",
			wantPages: 3,
			wantNext:  true,
		},
		{
			name:      "descending second page",
			opts:      service.HistoryOptions{Page: 2, Limit: 2, Order: "desc"},
			wantCount: 2,
			wantFirst: "A3",
			wantPages: 3,
			wantNext:  true,
		},
		{
			name:      "page past the end",
			opts:      service.HistoryOptions{Page: 9, Limit: 2},
			wantCount: 0,
			wantPages: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := svc.GetShotHistory(ctx, id, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(history.Shots) != tt.wantCount {
				t.Fatalf("Expected %d shots, got %d", tt.wantCount, len(history.Shots))
			}
			if tt.wantCount > 0 && history.Shots[0].Label != tt.wantFirst {
				t.Errorf("Expected first shot %s, got %s", tt.wantFirst, history.Shots[0].Label)
			}
			if history.TotalPages != tt.wantPages || history.HasNext != tt.wantNext {
				t.Errorf("Expected %d pages next=%v, got %d next=%v",
					tt.wantPages, tt.wantNext, history.TotalPages, history.HasNext)
			}
			if history.Side != engine.SidePlayer {
				t.Errorf("Expected player side by default, got %s", history.Side)
			}
		})
	}

	bot, err := svc.GetShotHistory(ctx, id, service.HistoryOptions{Side: engine.SideBot})
	if err != nil {
		t.Fatal(err)
	}
	if bot.TotalShots != 5 {
		t.Errorf("Expected 5 bot shots, got %d", bot.TotalShots)
	}
}

func TestGameService_ResetAndNewGame(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, "")

	svc.AutoPlace(ctx, id)
	svc.StartBattle(ctx, id)
	svc.Fire(ctx, id, service.At(0, 0))

	before, _ := svc.GetGameState(ctx, id)
	state, err := svc.Reset(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if state.Phase != engine.PhasePlacement || state.PlayerShots != 0 {
		t.Errorf("Expected fresh game after reset, got %s with %d shots", state.Phase, state.PlayerShots)
	}
	if state.GameID == before.GameID {
		t.Error("Expected a new game ID")
	}

	fresh, err := svc.NewGame(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.GameID == state.GameID {
		t.Error("Expected NewGame to start another match")
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	first, _ := svc.CreateSession(ctx, "")
	svc.CreateSession(ctx, "duel")

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}

	if err := svc.DeleteSession(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	sessions, _ = svc.ListSessions(ctx)
	if len(sessions) != 1 {
		t.Errorf("Expected 1 session after delete, got %d", len(sessions))
	}
}

func TestGameService_SaveConfig(t *testing.T) {
	ctx := context.Background()
	configs := NewMockConfigManager()
	svc := service.NewGameService(NewMockSessionManager(), configs)

	config := engine.DefaultConfig()
	config.Fleet = []int{2, 2}
	if err := svc.SaveConfig(ctx, "pairs", config); err != nil {
		t.Fatal(err)
	}
	if configs.saved["pairs"] == nil {
		t.Error("Expected config to be saved")
	}

	config.Fleet = []int{9}
	if err := svc.SaveConfig(ctx, "bad", config); err == nil {
		t.Error("Expected invalid config to be rejected")
	}
}

func eventTypes(events []service.GameEvent) string {
	out := ""
	for i, e := range events {
		if i > 0 {
			out += ","
		}
		out += e.Type
	}
	return out
}

func TestGameService_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(session.NewManager(engine.WithSeed(5)), NewMockConfigManager())
	info, err := svc.CreateSession(ctx, "duel")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got, err := svc.GetSession(ctx, info.ID)
				if err != nil {
					errs <- err
					return
				}
				if got.LastAccessedAt.Before(got.CreatedAt) {
					errs <- fmt.Errorf("last access %v before creation %v", got.LastAccessedAt, got.CreatedAt)
					return
				}
				if _, err := svc.GetGameState(ctx, info.ID); err != nil {
					errs <- err
					return
				}
				if _, err := svc.ListSessions(ctx); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent read failed: %v", err)
	}
}
