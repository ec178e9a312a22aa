// Package websocket pushes live game updates to browser and bot clients.
//
// Architecture:
//
// A central Hub owns every connection. Registration, removal and broadcasts
// are all handled on the goroutine running Hub.Run, so the client map is
// never touched concurrently. Each connection has its own read and write
// pumps.
//
// Message Protocol:
//
// Clients connect to /ws?session=<id> and only listen. The server sends one
// JSON Message per frame:
//   - state_update: the latest GameState for the session, with the bot's
//     ships hidden until the game is finished
//   - game_event: one service.GameEvent such as a shot or a victory
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, state)
//
// Broadcasts never block the caller. When the queue is full the message is
// dropped; the next state update carries the full snapshot anyway.
package websocket
