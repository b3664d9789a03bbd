// Package protocol defines the wire format spoken with the game server.
//
// Every frame is a JSON Envelope carrying a type tag, an optional
// acknowledgement id and a free-form payload. Client requests that expect a
// server acknowledgement set the id; the server answers with an "ack"
// envelope carrying the same id. Server pushes (room state, role
// assignments, presence changes) carry no id and are never acknowledged by
// the client.
//
// Payloads travel as generic maps and are decoded into the typed structs in
// this package at the point of use. All severity, phase and role information
// is carried as explicit tags in the payload, never inferred from
// human-readable text.
package protocol
