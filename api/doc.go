// Package api provides the HTTP REST API for the Battleship server.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session, body {"config_id": "duel"} is optional
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Setup:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - POST /api/sessions/{id}/new-game - Start a fresh match
//   - POST /api/sessions/{id}/place - Place the next ship
//   - POST /api/sessions/{id}/auto-place - Place the remaining ships at random
//   - POST /api/sessions/{id}/battle - Start the battle
//
// Battle:
//   - POST /api/sessions/{id}/fire - Fire at the bot's board
//   - GET /api/sessions/{id}/reveal - Show both boards
//   - POST /api/sessions/{id}/reset - Replace the match with a fresh one
//   - GET /api/sessions/{id}/history - Shots (?side=player|bot&page=&limit=&order=)
//
// Configuration:
//   - GET /api/configs - List fleet configurations
//   - POST /api/configs - Save a configuration
//   - GET /api/configs/{name} - Get one configuration
//
// Other:
//   - GET /health
//   - GET /ws?session={id} - WebSocket live updates
//
// Coordinates:
//
// Place and fire accept either zero-based indexes or a label:
//
//	{"row": 1, "col": 2, "horizontal": true}
//	{"target": "B3"}
//
// Errors:
//
// A rejected move such as firing twice at the same cell is not an HTTP
// error. It returns 200 with "success": false and an explanatory message,
// and the game is unchanged. HTTP errors are returned as {"error": "..."}:
// 404 for unknown sessions or configs, 400 for malformed input and 500 for
// engine failures.
package api
