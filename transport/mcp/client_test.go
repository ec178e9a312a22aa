package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/service"
)

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func playingState() *engine.GameState {
	return &engine.GameState{
		GameID:               "g-1",
		ConfigName:           "classic",
		Phase:                engine.PhasePlaying,
		PlayerBoard:          [][]string{{"S", "X"}, {".", "o"}},
		BotBoard:             [][]string{{"X", "."}, {".", "."}},
		ShipSizes:            []int{3, 2, 4},
		NextShipIdx:          3,
		PlayerShipsRemaining: 3,
		BotShipsRemaining:    2,
		PlayerShots:          4,
		BotShots:             4,
	}
}

// recordingServer answers every request with resp and remembers the last one
type recordingServer struct {
	*httptest.Server
	method string
	path   string
	query  string
	body   map[string]interface{}
}

func newRecordingServer(t *testing.T, status int, resp interface{}) *recordingServer {
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.method = r.Method
		rs.path = r.URL.Path
		rs.query = r.URL.RawQuery
		rs.body = nil
		json.NewDecoder(r.Body).Decode(&rs.body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_ListsAllTools(t *testing.T) {
	client := NewClient("http://localhost:8080")

	msg := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	resp := client.GetMCPServer().HandleMessage(context.Background(), msg)

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	for _, name := range []string{
		"create_session", "list_sessions", "game_state", "new_game",
		"place_ship", "auto_place", "start_battle", "fire",
		"reveal_boards", "reset_game", "shot_history", "list_configs",
		"game_instructions",
	} {
		if !strings.Contains(string(data), `"`+name+`"`) {
			t.Errorf("Expected tool %s to be registered", name)
		}
	}
}

func TestClient_apiCall(t *testing.T) {
	rs := newRecordingServer(t, http.StatusOK, map[string]interface{}{"id": "a1b2"})
	client := NewClient(rs.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api/sessions/a1b2", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "a1b2" {
		t.Errorf("Expected id a1b2, got %v", response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	t.Run("error body", func(t *testing.T) {
		rs := newRecordingServer(t, http.StatusNotFound, map[string]string{"error": "session not found"})
		client := NewClient(rs.URL)

		err := client.apiCall(context.Background(), "GET", "/api/sessions/zzzz", nil, nil)
		if err == nil || err.Error() != "session not found" {
			t.Errorf("Expected 'session not found', got %v", err)
		}
	})

	t.Run("plain body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()
		client := NewClient(server.URL)

		err := client.apiCall(context.Background(), "GET", "/api", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error") {
			t.Errorf("Expected 'API error', got %v", err)
		}
	})
}

func TestClient_handleCreateSession(t *testing.T) {
	rs := newRecordingServer(t, http.StatusCreated, service.SessionInfo{
		ID:         "c0de",
		ConfigName: "duel",
		GameState:  &engine.GameState{Phase: engine.PhasePlacement, ShipSizes: []int{3, 2}},
	})
	client := NewClient(rs.URL)

	result, err := client.handleCreateSession(context.Background(), toolRequest("create_session", map[string]interface{}{"config_id": "duel"}))
	if err != nil {
		t.Fatalf("handleCreateSession failed: %v", err)
	}

	if rs.method != "POST" || rs.path != "/api/sessions" {
		t.Errorf("Expected POST /api/sessions, got %s %s", rs.method, rs.path)
	}
	if rs.body["config_id"] != "duel" {
		t.Errorf("Expected config_id duel, got %v", rs.body)
	}

	text := resultText(t, result)
	for _, want := range []string{"c0de", "duel", "Next ship: 1 of 2 (length 3)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_handlePlaceShip(t *testing.T) {
	rs := newRecordingServer(t, http.StatusOK, service.ActionResult{
		Success:   true,
		Message:   "Ship placed.",
		GameState: &engine.GameState{Phase: engine.PhasePlacement, ShipSizes: []int{3, 2}, NextShipIdx: 1},
	})
	client := NewClient(rs.URL)

	t.Run("by label", func(t *testing.T) {
		result, err := client.handlePlaceShip(context.Background(), toolRequest("place_ship", map[string]interface{}{
			"session_id": "a1b2",
			"target":     "B3",
			"horizontal": true,
		}))
		if err != nil {
			t.Fatal(err)
		}
		if rs.path != "/api/sessions/a1b2/place" {
			t.Errorf("Unexpected path %s", rs.path)
		}
		if rs.body["target"] != "B3" || rs.body["horizontal"] != true {
			t.Errorf("Unexpected body %v", rs.body)
		}
		if text := resultText(t, result); !strings.Contains(text, "✓ Ship placed.") {
			t.Errorf("Expected success line, got: %s", text)
		}
	})

	t.Run("by row and col", func(t *testing.T) {
		if _, err := client.handlePlaceShip(context.Background(), toolRequest("place_ship", map[string]interface{}{
			"session_id": "a1b2",
			"row":        float64(4),
			"col":        float64(0),
		})); err != nil {
			t.Fatal(err)
		}
		if rs.body["row"] != float64(4) || rs.body["col"] != float64(0) || rs.body["horizontal"] != false {
			t.Errorf("Unexpected body %v", rs.body)
		}
	})

	t.Run("missing coordinates", func(t *testing.T) {
		result, err := client.handlePlaceShip(context.Background(), toolRequest("place_ship", map[string]interface{}{
			"session_id": "a1b2",
			"row":        float64(1),
		}))
		if err != nil {
			t.Fatal(err)
		}
		if !result.IsError {
			t.Error("Expected tool error without col")
		}
	})
}

func TestClient_handleFire(t *testing.T) {
	state := playingState()
	rs := newRecordingServer(t, http.StatusOK, service.ActionResult{
		Success:   true,
		Message:   "Hit.",
		GameState: state,
		Shot:      &engine.ShotReport{Label: "A1", Outcome: engine.OutcomeHit, Hit: true, Message: "Hit."},
		BotShot:   &engine.ShotReport{Label: "B2", Outcome: engine.OutcomeMiss, Message: "The bot missed."},
	})
	client := NewClient(rs.URL)

	result, err := client.handleFire(context.Background(), toolRequest("fire", map[string]interface{}{
		"session_id": "a1b2",
		"target":     "a1",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if rs.method != "POST" || rs.path != "/api/sessions/a1b2/fire" || rs.body["target"] != "a1" {
		t.Errorf("Unexpected request %s %s %v", rs.method, rs.path, rs.body)
	}

	text := resultText(t, result)
	for _, want := range []string{"You fired at A1: HIT", "Bot fired at B2: MISS", "Ships remaining: you 3, bot 2"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_handleFire_Rejected(t *testing.T) {
	rs := newRecordingServer(t, http.StatusOK, service.ActionResult{
		Success:   false,
		Message:   "You already fired at A1.",
		GameState: playingState(),
	})
	client := NewClient(rs.URL)

	result, _ := client.handleFire(context.Background(), toolRequest("fire", map[string]interface{}{
		"session_id": "a1b2",
		"target":     "A1",
	}))
	if text := resultText(t, result); !strings.Contains(text, "✗ Rejected: You already fired at A1.") {
		t.Errorf("Expected rejection line, got: %s", text)
	}
}

func TestClient_handleShotHistory(t *testing.T) {
	rs := newRecordingServer(t, http.StatusOK, service.HistoryResponse{
		Side: engine.SideBot,
		Shots: []engine.Shot{
			{Label: "C3", Outcome: engine.OutcomeHit, Number: 2},
			{Label: "A1", Outcome: engine.OutcomeMiss, Number: 1},
		},
		TotalShots: 2,
		Page:       1,
		TotalPages: 1,
	})
	client := NewClient(rs.URL)

	result, err := client.handleShotHistory(context.Background(), toolRequest("shot_history", map[string]interface{}{
		"session_id": "a1b2",
		"side":       "bot",
		"limit":      float64(5),
	}))
	if err != nil {
		t.Fatal(err)
	}
	if rs.path != "/api/sessions/a1b2/history" || rs.query != "limit=5&side=bot" {
		t.Errorf("Unexpected request %s?%s", rs.path, rs.query)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Shot History for bot") || !strings.Contains(text, "2. C3 hit") {
		t.Errorf("Unexpected history output: %s", text)
	}
}

func TestClient_handleGameState_NotFound(t *testing.T) {
	rs := newRecordingServer(t, http.StatusNotFound, map[string]string{"error": "session not found"})
	client := NewClient(rs.URL)

	result, err := client.handleGameState(context.Background(), toolRequest("game_state", map[string]interface{}{"session_id": "zzzz"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("Expected tool error")
	}
	if text := resultText(t, result); text != "session not found" {
		t.Errorf("Expected API error text, got %s", text)
	}
}

func TestFormatGameState(t *testing.T) {
	result := formatGameState(playingState())

	for _, field := range []string{
		"Phase: playing",
		"Ships remaining: you 3, bot 2",
		"Shots fired: you 4, bot 4",
		"   1 2 \nA  S X\nB  . o\n",
	} {
		if !strings.Contains(result, field) {
			t.Errorf("Expected %q in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatGameState_Finished(t *testing.T) {
	state := playingState()
	state.Phase = engine.PhaseFinished

	state.Winner = engine.SidePlayer
	if !strings.Contains(formatGameState(state), "🎉 VICTORY!") {
		t.Error("Expected victory banner")
	}

	state.Winner = engine.SideBot
	if !strings.Contains(formatGameState(state), "💀 DEFEAT") {
		t.Error("Expected defeat banner")
	}

	if formatGameState(nil) != "No game state" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), toolRequest("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{
		"Battleship - Complete Instructions",
		"GAME OBJECTIVE:",
		"BOARD LEGEND:",
		"PHASES:",
		"SHOT RESULTS:",
		"THE BOT:",
	} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}
