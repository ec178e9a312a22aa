// Package session provides in-memory session management for the Battleship server.
//
// Core Types:
//
// Manager stores sessions keyed by a lower-cased ID. Each service.Session owns
// its own engine, so matches in different sessions never share boards or
// random state unless the manager was built with a fixed seed.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters drawn from crypto/rand; lookups are
// case-insensitive. Collisions are retried a bounded number of times.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	go manager.RunCleanup(ctx, time.Hour, 24*time.Hour)
//
// Sessions are lost when the process exits.
package session
