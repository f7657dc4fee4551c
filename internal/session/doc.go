// Package session holds the interactive state around one history: the rest
// frame being edited, the boosted frame derived from it and the selected
// consistency level.
//
// A Session is single-writer. Signals are applied either synchronously with
// Apply or, from any goroutine, through Enqueue and a Run loop that drains
// them in FIFO order. Readers call Snapshot at any time and get an
// immutable view; every accepted signal swaps in a whole new Snapshot
// stamped with the next revision from the session Clock.
package session
