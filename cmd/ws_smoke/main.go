package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"memory_party/internal/logger"
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type player struct {
	name string
	conn *websocket.Conn
}

func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	addr := flag.String("url", fmt.Sprintf("ws://127.0.0.1:%s/ws", port), "websocket endpoint")
	hits := flag.Int("hits", 3, "targets to hit per player during the motor phase")
	flag.Parse()

	a := connect(*addr, "A")
	defer a.conn.Close()
	b := connect(*addr, "B")
	defer b.conn.Close()

	a.send("create_room", map[string]any{"name": "smokeA"})
	var created struct {
		Code string `json:"code"`
	}
	a.await("room_created", 3*time.Second, &created)
	logger.Info("room created", "code", created.Code)

	b.send("join_room", map[string]any{"code": created.Code, "name": "smokeB"})
	b.await("room_joined", 3*time.Second, nil)

	a.send("start_game", map[string]any{"code": created.Code})
	var seq struct {
		Sequence []int `json:"sequence"`
		Level    int   `json:"level"`
	}
	a.await("phase_sequence", 3*time.Second, &seq)
	logger.Info("sequence shown", "level", seq.Level, "sequence", seq.Sequence)

	a.await("phase_motor", 30*time.Second, nil)
	for i := 0; i < *hits; i++ {
		a.send("target_hit", map[string]any{"code": created.Code})
		a.await("target_spawn", 3*time.Second, nil)
	}

	for _, p := range []*player{a, b} {
		p.await("phase_recall", 60*time.Second, nil)
		p.send("submit_sequence", map[string]any{"code": created.Code, "userSeq": seq.Sequence})
	}

	var results json.RawMessage
	a.await("round_results", 20*time.Second, &results)
	logger.Info("round results", "payload", string(results))
	logger.Info("smoke test finished")
}

func connect(url, name string) *player {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		logger.Fatal("dial failed", "player", name, "error", err)
	}
	p := &player{name: name, conn: conn}

	var ready struct {
		PlayerID string `json:"playerId"`
	}
	p.await("ready", 3*time.Second, &ready)
	logger.Info("connected", "player", name, "id", ready.PlayerID)
	return p
}

func (p *player) send(typ string, payload any) {
	if err := p.conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		logger.Fatal("write failed", "player", p.name, "type", typ, "error", err)
	}
}

// await drains frames until one of type typ arrives and decodes its payload into dst.
func (p *player) await(typ string, timeout time.Duration, dst any) {
	_ = p.conn.SetReadDeadline(time.Now().Add(timeout))
	for {
		var f frame
		if err := p.conn.ReadJSON(&f); err != nil {
			logger.Fatal("read failed", "player", p.name, "waiting_for", typ, "error", err)
		}
		if f.Type == "error_msg" {
			logger.Fatal("server error", "player", p.name, "payload", string(f.Payload))
		}
		if f.Type != typ {
			continue
		}
		if dst != nil && len(f.Payload) > 0 {
			if err := json.Unmarshal(f.Payload, dst); err != nil {
				logger.Fatal("bad payload", "player", p.name, "type", typ, "error", err)
			}
		}
		return
	}
}
