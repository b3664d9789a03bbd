// Package state holds the client's view of server-authored game state.
//
// Room is the single source of truth for the current room snapshot. Every
// inbound room:state push replaces the snapshot wholesale; there is no
// field-level merging, so local mutations never survive the next push.
// Subscribers receive each replacement on their own channel and are dropped
// an update, not blocked, when they fall behind.
package state
