// Package engine provides the core game logic for the Battleship server.
//
// The engine package implements the game mechanics including:
//   - Board representation with hidden and revealed views
//   - Sequential fleet placement validation
//   - Shot resolution with hit, miss and sunk outcomes
//   - A hunt/target bot that only sees observed shot results
//   - The placement → playing → finished state machine
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameEngine owns one active Game and replaces it
// wholesale on reset. GameState is the serializable snapshot returned to
// callers, and GameConfig defines the fleet and messages loaded from JSON.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.PlaceShip(0, 0, true)
//	gameEngine.PlaceShip(2, 2, false)
//	gameEngine.PlaceShip(5, 0, true)
//	if _, err := gameEngine.StartBattle(); err != nil {
//		log.Fatal(err)
//	}
//	result, err := gameEngine.Fire(3, 4)
//
// Game Rules:
//
// Both sides own a 6x6 board. The player places the configured fleet one ship
// at a time; the bot's fleet is placed at random when the battle starts. Each
// player shot is answered by one bot shot unless it ended the game. The first
// side to lose every ship loses the match.
package engine
