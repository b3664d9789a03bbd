// Package notify turns low-level connection, session and presence events
// into user-facing notifications and tracks which players the server
// currently reports as disconnected.
//
// Severity is always supplied by the emitter as an explicit tag; nothing in
// this package classifies notifications by inspecting their text.
package notify
