package api

import (
	"testing"

	"air-hockey/internal/game"
)

func TestProtoEnvelopeMatchesJSON(t *testing.T) {
	snap := &game.GameSnapshot{
		Sequence: 9,
		Puck:     game.Vector2{X: 169, Y: 289},
		Mode:     game.ModeTimed,
		Phase:    game.PhaseRunning,
		Score2:   1,
		TimeLeft: 42,
	}

	text, err := encodeJSONEnvelope(EventMatchState, snap)
	if err != nil {
		t.Fatalf("JSON encode failed: %v", err)
	}
	binary, err := EncodeProtoEnvelope(text)
	if err != nil {
		t.Fatalf("Proto encode failed: %v", err)
	}

	env, err := DecodeProtoEnvelope(binary)
	if err != nil {
		t.Fatalf("Proto decode failed: %v", err)
	}
	if env["event"] != EventMatchState {
		t.Errorf("Expected event %s, got %v", EventMatchState, env["event"])
	}

	data := env["data"].(map[string]interface{})
	if data["mode"] != "timed" || data["phase"] != "running" {
		t.Errorf("Enums should keep their wire names: %v", data)
	}
	if data["timeLeft"] != 42.0 || data["score2"] != 1.0 {
		t.Errorf("Numbers should survive as float64: %v", data)
	}
	puck := data["puck"].(map[string]interface{})
	if puck["x"] != 169.0 || puck["y"] != 289.0 {
		t.Errorf("Unexpected puck %v", puck)
	}
}

func TestDecodeProtoEnvelopeRejectsGarbage(t *testing.T) {
	if _, err := DecodeProtoEnvelope([]byte{0xff, 0xff, 0xff}); err == nil {
		t.Error("Expected error for invalid protobuf")
	}
	if _, err := EncodeProtoEnvelope([]byte("not json")); err == nil {
		t.Error("Expected error for invalid JSON envelope")
	}
}

func TestDecodeCommand(t *testing.T) {
	cmd, err := decodeCommand(false, []byte(`{"type":"paddle","side":"top","x":5,"y":6}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if cmd.Type != "paddle" || cmd.Side != "top" || *cmd.X != 5 || *cmd.Y != 6 {
		t.Errorf("Unexpected command %+v", cmd)
	}

	cmd, err = decodeCommand(false, []byte(`{"type":"restart"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if cmd.X != nil || cmd.Y != nil {
		t.Error("Absent coordinates should stay nil")
	}
}
