package proto

import (
	"encoding/json"
	"testing"
)

func TestEncodeWrapsPayload(t *testing.T) {
	data, err := Encode(TypeError, ErrorMessage{Message: "boom"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Type != TypeError {
		t.Fatalf("type = %q", env.Type)
	}
	var msg ErrorMessage
	if err := json.Unmarshal(env.Payload, &msg); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if msg.Message != "boom" {
		t.Fatalf("message = %q", msg.Message)
	}
}

func TestEncodeNilPayloadOmitsField(t *testing.T) {
	data, err := Encode(TypeSpectateStopped, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != `{"type":"spectate_stopped"}` {
		t.Fatalf("frame = %s", data)
	}
}

func TestInboundFrameDecodes(t *testing.T) {
	frame := `{"type":"player_move","payload":{"direction":{"x":1,"z":-0.5}}}`

	var env Envelope
	if err := json.Unmarshal([]byte(frame), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Type != TypePlayerMove {
		t.Fatalf("type = %q", env.Type)
	}
	var move PlayerMove
	if err := json.Unmarshal(env.Payload, &move); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if move.Direction.X != 1 || move.Direction.Z != -0.5 {
		t.Fatalf("direction = %+v", move.Direction)
	}
}
