package ws

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"memory_party/internal/metrics"
)

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrUnknownType    = errors.New("unknown message type")
)

// Sessions is the game engine as seen from a connection.
type Sessions interface {
	CreateRoom(playerID, name string) (string, error)
	JoinRoom(code, playerID, name string) error
	StartGame(code, playerID string) error
	TargetHit(code, playerID string) error
	SubmitSequence(code, playerID string, seq []int) error
	Disconnect(playerID string)
}

// Dispatch decodes one client frame and hands it to s. The returned error is
// only for logging; players learn about failures through events.
func Dispatch(s Sessions, playerID string, raw []byte) error {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		metrics.MessagesDropped.WithLabelValues("malformed").Inc()
		return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch in.Type {
	case MsgCreateRoom:
		var p CreateRoomPayload
		if err := decode(in, &p); err != nil {
			return err
		}
		_, err := s.CreateRoom(playerID, p.Name)
		return err

	case MsgJoinRoom:
		var p JoinRoomPayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.JoinRoom(p.Code, playerID, p.Name)

	case MsgStartGame:
		var p CodePayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.StartGame(p.Code, playerID)

	case MsgTargetHit:
		var p CodePayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.TargetHit(p.Code, playerID)

	case MsgSubmitSequence:
		var p SubmitSequencePayload
		if err := decode(in, &p); err != nil {
			return err
		}
		return s.SubmitSequence(p.Code, playerID, p.UserSeq)

	default:
		metrics.MessagesDropped.WithLabelValues("unknown_type").Inc()
		return fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
	}
}

// decode counts the message and fills dst. A missing payload leaves dst zero.
func decode(in Inbound, dst any) error {
	metrics.MessagesReceived.WithLabelValues(in.Type).Inc()

	raw := bytes.TrimSpace(in.Payload)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		metrics.MessagesDropped.WithLabelValues("malformed").Inc()
		return fmt.Errorf("%w: %s payload: %v", ErrMalformedFrame, in.Type, err)
	}
	return nil
}
