package protocol

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the framing for every message exchanged with the server.
// ID is non-zero only on client requests awaiting an acknowledgement and on
// the matching "ack" reply.
type Envelope struct {
	Type string                 `json:"type"`
	ID   uint64                 `json:"id,omitempty"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// NewEnvelope builds an envelope of the given type from a typed payload.
// A nil payload produces an envelope with no data.
func NewEnvelope(eventType string, payload interface{}) (Envelope, error) {
	env := Envelope{Type: eventType}
	if payload == nil {
		return env, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	if err := json.Unmarshal(raw, &env.Data); err != nil {
		return Envelope{}, fmt.Errorf("failed to build %s payload: %w", eventType, err)
	}
	return env, nil
}

// Encode serializes an envelope to its wire representation.
func Encode(env Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return data, nil
}

// Decode parses a wire frame into an envelope.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("envelope is missing a type tag")
	}
	return env, nil
}

// DecodePayload decodes an envelope's data into a typed payload struct.
// Numeric wire values are coerced to the target field types, matching the
// loose typing of JSON numbers.
func DecodePayload(data map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to build payload decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}
