// Package client ties the session layer together: it owns the transport
// connection, resumes stored sessions after every (re)connect, keeps the
// room snapshot synchronized, dispatches acknowledged actions, and feeds
// the notification and presence aggregators.
//
// All inbound handling happens on the single goroutine running Run, so
// handlers never race each other; they are kept short and non-blocking.
// Action methods may be called from any goroutine.
//
// Actions are never retried automatically. A failed or unacknowledged
// state-mutating action must be re-issued by the caller, since a blind
// retry could double-apply server-side. The only silent retry anywhere in
// this layer is the transport's own reconnect loop.
package client
