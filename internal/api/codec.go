package api

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// wsEnvelope is the frame every server push is wrapped in.
type wsEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// encodeJSONEnvelope marshals an event for text-frame clients.
func encodeJSONEnvelope(event string, data interface{}) ([]byte, error) {
	b, err := json.Marshal(wsEnvelope{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event, err)
	}
	return b, nil
}

// EncodeProtoEnvelope re-encodes a JSON envelope as a protobuf
// google.protobuf.Struct for binary-frame clients. Field names and values
// are exactly those of the JSON form.
func EncodeProtoEnvelope(jsonEnvelope []byte) ([]byte, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(jsonEnvelope, &m); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	b, err := proto.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal struct: %w", err)
	}
	return b, nil
}

// DecodeProtoEnvelope decodes a binary frame back into its generic form.
// Numbers come back as float64, as with encoding/json.
func DecodeProtoEnvelope(b []byte) (map[string]interface{}, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("unmarshal struct: %w", err)
	}
	return s.AsMap(), nil
}

// decodeCommand parses an inbound command from either frame type.
func decodeCommand(binary bool, payload []byte) (wsCommand, error) {
	var cmd wsCommand
	if binary {
		m, err := DecodeProtoEnvelope(payload)
		if err != nil {
			return cmd, err
		}
		if payload, err = json.Marshal(m); err != nil {
			return cmd, fmt.Errorf("re-encode command: %w", err)
		}
	}
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return cmd, fmt.Errorf("decode command: %w", err)
	}
	return cmd, nil
}
