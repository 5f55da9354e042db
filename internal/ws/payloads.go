package ws

import "encoding/json"

// Inbound is a client frame before its payload is decoded.
type Inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// client → server
type CreateRoomPayload struct {
	Name string `json:"name"`
}

type JoinRoomPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CodePayload struct {
	Code string `json:"code"`
}

type SubmitSequencePayload struct {
	Code    string `json:"code"`
	UserSeq []int  `json:"userSeq"`
}

// server → client
type ReadyPayload struct {
	PlayerID string `json:"playerId"`
}
