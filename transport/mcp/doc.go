// Package mcp exposes the Battleship REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool makes one REST call and renders
// the JSON answer as text an agent can read, including both boards with
// row letters and column numbers.
//
// MCP Tools:
//   - create_session, list_sessions
//   - game_state, new_game, reset_game
//   - place_ship, auto_place, start_battle
//   - fire, reveal_boards, shot_history
//   - list_configs, game_instructions
//
// Cells are given either as a label ("target": "B3") or as zero-based
// "row" and "col".
//
// Transport Modes:
//   - Stdio: the mcp command serves the tools over stdin and stdout
//   - HTTP: the serve command mounts them at /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
