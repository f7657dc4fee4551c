// Package ir provides the canonical history types for lightcone.
//
// This package contains type definitions and their value-level helpers only.
// All other internal packages import ir; ir imports nothing internal. This
// keeps the event model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Exactly two clients (ClientA, ClientB), declared once in Clients
//   - Only SystemTime ever changes; every change yields a new Events value
//   - Event.ID is the sole identity key across edits and reprojections
//   - All JSON/YAML tags use camelCase to match the history definitions
package ir
