// Package session persists the credential triple that lets a client
// re-attach to its room after a disconnect or a full restart.
//
// A Session is stored all-or-nothing: the store never persists a partial
// triple, and anything unreadable on disk loads as "no session". Validating
// a stored session against the server is the resumer's job, not the
// store's.
package session
