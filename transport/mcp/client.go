package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Battleship",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Battleship - MCP Interface

Play Battleship on a 6x6 grid against a bot. Every tool proxies to the REST API server.

FLOW:
1. create_session (optionally with a config such as "duel" or "armada")
2. place_ship for each ship in order, or auto_place
3. start_battle
4. fire until one fleet is sunk; the bot answers every shot that does not end the game

Use game_instructions for the full rules and board legend.`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func targetProperties() map[string]interface{} {
	return map[string]interface{}{
		"session_id": sessionProperty(),
		"target": map[string]interface{}{
			"type":        "string",
			"description": "Cell label such as \"B3\" (row letter A-F, column 1-6)",
		},
		"row": map[string]interface{}{
			"type":        "integer",
			"description": "Zero-based row, used when target is omitted",
		},
		"col": map[string]interface{}{
			"type":        "integer",
			"description": "Zero-based column, used when target is omitted",
		},
	}
}

func sessionOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{"session_id": sessionProperty()},
		Required:   []string{"session_id"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with an optional fleet configuration",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with both boards. The bot's ships stay hidden until the game ends.",
		InputSchema: sessionOnlySchema(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a fresh match in the session",
		InputSchema: sessionOnlySchema(),
	}, c.handleNewGame)

	// Setup
	placeProps := targetProperties()
	placeProps["horizontal"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Extend the ship to the right when true, downward when false",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_ship",
		Description: "Place the next ship of your fleet with its top-left cell at the target",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: placeProps,
			Required:   []string{"session_id"},
		},
	}, c.handlePlaceShip)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "auto_place",
		Description: "Place your remaining ships at random legal positions",
		InputSchema: sessionOnlySchema(),
	}, c.handleAutoPlace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_battle",
		Description: "Start the battle once every ship is placed. The bot places its fleet now.",
		InputSchema: sessionOnlySchema(),
	}, c.handleStartBattle)

	// Battle
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "fire",
		Description: "Fire at a cell of the bot's board. The bot fires back unless your shot wins the game.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: targetProperties(),
			Required:   []string{"session_id"},
		},
	}, c.handleFire)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reveal_boards",
		Description: "Show both boards with every ship visible. Does not change the game.",
		InputSchema: sessionOnlySchema(),
	}, c.handleRevealBoards)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Replace the current match with a fresh one",
		InputSchema: sessionOnlySchema(),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "shot_history",
		Description: "Get the shots fired by you or by the bot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"side": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"player", "bot"},
					"description": "Whose shots to list (default player)",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleShotHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available fleet configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the game rules and board legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func sessionPath(sessionID, action string) string {
	path := "/api/sessions/" + url.PathEscape(sessionID)
	if action != "" {
		path += "/" + action
	}
	return path
}

// targetBody builds the REST body for a cell from either a label or row/col
func targetBody(request mcp.CallToolRequest) (map[string]interface{}, error) {
	args := request.GetArguments()
	if label := request.GetString("target", ""); label != "" {
		return map[string]interface{}{"target": label}, nil
	}
	if _, ok := args["row"]; !ok {
		return nil, fmt.Errorf("target or row and col required")
	}
	if _, ok := args["col"]; !ok {
		return nil, fmt.Errorf("target or row and col required")
	}
	return map[string]interface{}{
		"row": request.GetInt("row", 0),
		"col": request.GetInt("col", 0),
	}, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		phase := ""
		if s.GameState != nil {
			phase = string(s.GameState.Phase)
		}
		fmt.Fprintf(&sb, "- %s (Config: %s, Phase: %s, Created: %s)\n",
			s.ID, s.ConfigName, phase, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var state engine.GameState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "new-game"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handlePlaceShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	body, err := targetBody(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body["horizontal"] = request.GetBool("horizontal", false)

	return c.action(ctx, sessionPath(sessionID, "place"), body)
}

func (c *Client) handleAutoPlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, sessionPath(request.GetString("session_id", ""), "auto-place"), nil)
}

func (c *Client) handleStartBattle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, sessionPath(request.GetString("session_id", ""), "battle"), nil)
}

func (c *Client) handleFire(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	body, err := targetBody(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.action(ctx, sessionPath(sessionID, "fire"), body)
}

// action posts a mutating request and formats the ActionResult
func (c *Client) action(ctx context.Context, path string, body interface{}) (*mcp.CallToolResult, error) {
	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleRevealBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var reveal engine.RevealResult
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "reveal"), nil, &reveal); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(reveal.Message + "\n\n")
	sb.WriteString("Your board:\n" + formatBoard(reveal.PlayerBoard))
	sb.WriteString("\nBot board:\n" + formatBoard(reveal.BotBoard))
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleShotHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	params := url.Values{}
	if side := request.GetString("side", ""); side != "" {
		params.Set("side", side)
	}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}

	path := sessionPath(sessionID, "history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&sb, "• %s (%s)\n  %s\n  Fleet: %v, %d ship cells\n\n",
			config.Name, config.ConfigID, config.Description, config.Fleet, config.ShipCells)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Battleship - Complete Instructions

GAME OBJECTIVE:
Sink every ship of the bot's fleet before the bot sinks yours.

THE GRID:
Both players have a 6x6 board. Rows are labelled A-F from top to bottom and
columns 1-6 from left to right, so "A1" is the top-left cell. Tools also take
zero-based row and col numbers: "B3" is row 1, col 2.

BOARD LEGEND:
• . - Unknown or empty water
• S - Your ship (the bot's ships are hidden until the game ends)
• X - Hit
• o - Miss

PHASES:
1. placement - Place your ships one at a time in the fleet's order with
   place_ship, or use auto_place. A ship extends right from its cell when
   horizontal is true and down otherwise. Ships must fit on the grid and may
   not overlap, but they may touch.
2. playing - start_battle places the bot's fleet at random. Each fire shot
   is answered by one bot shot, unless your shot sinks the last bot ship.
3. finished - The first fleet fully sunk loses. Use new_game or reset_game
   to play again.

SHOT RESULTS:
• miss - Nothing there
• hit - Part of a ship
• sunk - The last unhit cell of a ship

Firing twice at the same cell, or off the grid, is rejected without using
your turn. Rejected actions report success=false and leave the game unchanged.

THE BOT:
The bot hunts at random until it scores a hit, then tries the neighbouring
cells and follows the line of the ship until it sinks.

TIPS:
• Ships are at least 2 cells long, so a checkerboard pattern finds every ship
• After a hit, try the four neighbours before moving on
• shot_history shows every shot by side; reveal_boards shows both fleets`

// Formatting helpers

func formatBoard(board [][]string) string {
	if len(board) == 0 {
		return "(empty)\n"
	}

	var sb strings.Builder
	sb.WriteString("   ")
	for _, label := range engine.ColLabels(len(board[0])) {
		sb.WriteString(label + " ")
	}
	sb.WriteString("\n")

	rowLabels := engine.RowLabels(len(board))
	for i, row := range board {
		sb.WriteString(rowLabels[i] + "  ")
		sb.WriteString(strings.Join(row, " "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Game: %s (config %s)\n", state.GameID, state.ConfigName)
	fmt.Fprintf(&sb, "Phase: %s\n", state.Phase)

	switch state.Phase {
	case engine.PhasePlacement:
		if state.NextShipIdx < len(state.ShipSizes) {
			fmt.Fprintf(&sb, "Next ship: %d of %d (length %d)\n",
				state.NextShipIdx+1, len(state.ShipSizes), state.ShipSizes[state.NextShipIdx])
		} else {
			sb.WriteString("Fleet complete, call start_battle\n")
		}
	case engine.PhaseFinished:
		if state.Winner == engine.SidePlayer {
			sb.WriteString("🎉 VICTORY!\n")
		} else {
			sb.WriteString("💀 DEFEAT\n")
		}
	}

	fmt.Fprintf(&sb, "Ships remaining: you %d, bot %d\n", state.PlayerShipsRemaining, state.BotShipsRemaining)
	fmt.Fprintf(&sb, "Shots fired: you %d, bot %d\n", state.PlayerShots, state.BotShots)
	if state.Message != "" {
		fmt.Fprintf(&sb, "Message: %s\n", state.Message)
	}

	sb.WriteString("\nYour board:\n" + formatBoard(state.PlayerBoard))
	sb.WriteString("\nBot board:\n" + formatBoard(state.BotBoard))
	return sb.String()
}

func formatShot(who string, shot *engine.ShotReport) string {
	return fmt.Sprintf("%s %s: %s. %s\n", who, shot.Label, strings.ToUpper(string(shot.Outcome)), shot.Message)
}

func formatActionResult(result *service.ActionResult) string {
	var sb strings.Builder
	if result.Success {
		sb.WriteString("✓ " + result.Message + "\n")
	} else {
		sb.WriteString("✗ Rejected: " + result.Message + "\n")
	}

	if result.Shot != nil {
		sb.WriteString(formatShot("You fired at", result.Shot))
	}
	if result.BotShot != nil {
		sb.WriteString(formatShot("Bot fired at", result.BotShot))
	}
	if result.GameOver {
		fmt.Fprintf(&sb, "Game over, winner: %s\n", result.Winner)
	}

	sb.WriteString("\n" + formatGameState(result.GameState))
	return sb.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Shot History for %s (Page %d/%d, Total: %d)\n\n",
		history.Side, history.Page, history.TotalPages, history.TotalShots)

	for _, shot := range history.Shots {
		fmt.Fprintf(&sb, "%d. %s %s\n", shot.Number, shot.Label, shot.Outcome)
	}
	if len(history.Shots) == 0 {
		sb.WriteString("No shots yet\n")
	}
	return sb.String()
}
