// Package socket maintains the single long-lived websocket connection to
// the game server.
//
// A Conn dials once and then keeps itself alive: any unplanned disconnect
// moves it into a reconnect loop with jittered exponential backoff between
// a floor and a ceiling, retrying forever. Only an explicit Close, i.e. the
// user leaving, stops the loop.
//
// Each successful dial starts a new connection epoch. Consumers use the
// epoch carried on status events to stay idempotent across duplicate
// delivery of connection events.
//
// Inbound frames are decoded into protocol envelopes and delivered in
// order on a single channel; status transitions are delivered on a
// side channel that the owner is expected to drain.
package socket
