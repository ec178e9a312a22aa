// Package service provides the business logic layer for the Battleship server.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Target parsing from row/col pairs or labels such as "B3"
//   - Game events for transports to broadcast
//   - Paginated shot history per side
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages fleet configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation and configuration management.
// Each session owns its own engine instance with independent state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameService.AutoPlace(ctx, sessionInfo.ID)
//	gameService.StartBattle(ctx, sessionInfo.ID)
//	result, err := gameService.Fire(ctx, sessionInfo.ID, service.Target{Label: "C4"})
//
// Recoverable mistakes such as firing at the same cell twice come back as an
// ActionResult with Success=false and an unchanged game. Errors are reserved
// for unknown sessions, malformed targets and engine invariant violations.
package service
