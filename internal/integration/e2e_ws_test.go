package integration

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memory_party/internal/db"
	"memory_party/internal/game"
	httpserver "memory_party/internal/http"
	"memory_party/internal/migrations"
	"memory_party/internal/repository"
	"memory_party/internal/session"
	"memory_party/internal/ws"
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func await(t *testing.T, conn *websocket.Conn, typ string) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var f frame
		require.NoError(t, conn.ReadJSON(&f), "waiting for %s", typ)
		if f.Type == typ {
			return f
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"type": typ, "payload": payload}))
}

func fastTimings() game.Timings {
	return game.Timings{
		CellDisplay:    5 * time.Millisecond,
		DisplayLead:    5 * time.Millisecond,
		MotorBase:      2,
		MotorPerLevel:  0,
		Tick:           10 * time.Millisecond,
		RespawnDelay:   5 * time.Millisecond,
		RecallDeadline: 2 * time.Second,
		NextLevelDelay: 10 * time.Millisecond,
	}
}

// Plays a full game over a real websocket and checks that it lands in Postgres.
func TestE2E_FullGameIsRecorded(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	require.NoError(t, migrations.Migrate(ctx, dsn))

	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	results := repository.NewGameResultRepository(pool)
	timings := fastTimings()
	hub := ws.NewHub()
	mgr := session.NewManager(hub, session.Options{
		Timings: &timings,
		Sink:    repository.NewGameRecorder(results, nil),
	})

	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(httpserver.NewRouter(httpserver.Deps{
		Hub:          hub,
		Sessions:     mgr,
		Games:        results,
		WSRateLimit:  10,
		WSRateWindow: time.Minute,
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	await(t, conn, ws.MsgReady)

	send(t, conn, ws.MsgCreateRoom, ws.CreateRoomPayload{Name: "e2e"})
	var created ws.CodePayload
	require.NoError(t, json.Unmarshal(await(t, conn, session.EventRoomCreated).Payload, &created))

	send(t, conn, ws.MsgStartGame, ws.CodePayload{Code: created.Code})
	for level := 1; level <= game.MaxLevel; level++ {
		var seq session.PhaseSequencePayload
		require.NoError(t, json.Unmarshal(await(t, conn, session.EventPhaseSequence).Payload, &seq))
		require.Equal(t, level, seq.Level)

		await(t, conn, session.EventPhaseRecall)
		send(t, conn, ws.MsgSubmitSequence, ws.SubmitSequencePayload{Code: created.Code, UserSeq: seq.Sequence})

		var res session.RoundResultsPayload
		require.NoError(t, json.Unmarshal(await(t, conn, session.EventRoundResults).Payload, &res))
		require.True(t, res.AllCorrect)
	}
	await(t, conn, session.EventGameOver)

	require.Eventually(t, func() bool {
		games, err := results.Recent(ctx, 50)
		if err != nil {
			return false
		}
		for _, g := range games {
			if g.RoomCode == created.Code && len(g.Players) == 1 && g.Players[0].Score == 500 {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, 1, mgr.RoomCount())
}
