package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"memory_party/internal/domain"
	"memory_party/internal/game"
	"memory_party/internal/metrics"
)

const (
	triggerAllSubmitted = metrics.TriggerAllSubmitted
	triggerDeadline     = metrics.TriggerDeadline
	triggerDeparture    = metrics.TriggerDeparture

	recordTimeout = 5 * time.Second
)

// The methods below run with r.mu held.

// beginRound resets the per-round state and enters the sequence phase.
// Bumping round invalidates every timer armed for the previous one.
func (r *Room) beginRound() {
	r.cancelAll()
	r.round++
	r.finished = false

	eff := r.effectiveLevel()
	r.sequence = game.NewSequence(r.deps.rng, eff, r.maxLevel, r.gridSize)
	r.motorScores = make(map[string]int)
	r.reactionTimes = make(map[string][]int64)
	r.submissions = make(map[string]bool)
	r.target = nil
	r.targetSpawned = time.Time{}
	r.timeLeft = 0
	r.phase = game.PhaseSequence

	r.broadcast(EventPhaseSequence, PhaseSequencePayload{
		Sequence: append([]int(nil), r.sequence...),
		Level:    eff,
		MaxLevel: r.maxLevel,
	})
	r.schedule(slotMotorStart, r.deps.timings.SequenceDisplay(len(r.sequence)), r.startMotor)
}

func (r *Room) startMotor() {
	eff := r.effectiveLevel()
	r.phase = game.PhaseMotor
	r.timeLeft = r.deps.timings.MotorSeconds(eff)
	r.spawnTarget()

	r.broadcast(EventPhaseMotor, PhaseMotorPayload{TimeLeft: r.timeLeft, Target: r.target, Level: eff})
	r.schedule(slotTick, r.deps.timings.Tick, r.tick)
}

func (r *Room) tick() {
	r.timeLeft--
	r.broadcast(EventMotorTick, MotorTickPayload{TimeLeft: r.timeLeft})
	if r.timeLeft > 0 {
		r.schedule(slotTick, r.deps.timings.Tick, r.tick)
		return
	}
	r.enterRecall()
}

func (r *Room) enterRecall() {
	r.cancel(slotRespawn)
	r.target = nil
	r.phase = game.PhaseRecall

	r.broadcast(EventPhaseRecall, LevelPayload{Level: r.effectiveLevel()})
	r.schedule(slotDeadline, r.deps.timings.RecallDeadline, func() {
		r.finalize(triggerDeadline)
	})
}

func (r *Room) spawnTarget() {
	now := r.deps.clock.Now()
	r.target = game.NewTarget(r.deps.rng, now, r.gridSize)
	r.targetSpawned = now
}

func (r *Room) respawnTarget() {
	r.spawnTarget()
	r.broadcast(EventTargetSpawn, TargetPayload{Target: r.target})
}

// finalize scores the round. Callers reach it only from the recall phase, and
// it leaves that phase, so a round is finalized once.
func (r *Room) finalize(trigger string) {
	r.cancel(slotDeadline)
	r.level = min(r.level, r.maxLevel)

	states := make([]game.PlayerState, 0, len(r.order))
	for _, p := range r.playerList() {
		states = append(states, game.PlayerState{ID: p.ID, Name: p.Name, Score: p.Score, Level: p.Level})
	}
	out := game.Score(game.Round{
		Players:       states,
		MotorScores:   r.motorScores,
		ReactionTimes: r.reactionTimes,
		Submissions:   r.submissions,
		MaxLevel:      r.maxLevel,
	})
	for _, res := range out.Results {
		if p, ok := r.players[res.ID]; ok {
			p.Score = res.Score
			p.Level = res.Level
		}
	}
	r.phase = game.PhaseResult

	metrics.RoundsFinalized.WithLabelValues(trigger).Inc()
	r.log.Info("round finalized", "round", r.round, "level", r.level, "trigger", trigger, "all_correct", out.AllCorrect)

	r.broadcast(EventRoundResults, RoundResultsPayload{Results: out.Results, Level: r.level, AllCorrect: out.AllCorrect})
	r.broadcastRoomUpdate()

	if r.level >= r.maxLevel {
		r.finished = true
		metrics.GamesFinished.Inc()
		r.broadcast(EventGameOver, GameOverPayload{Level: r.effectiveLevel(), Players: r.playerList()})
		r.record()
		return
	}
	r.schedule(slotNextLevel, r.deps.timings.NextLevelDelay, r.advanceLevel)
}

func (r *Room) advanceLevel() {
	r.level = min(r.level+1, r.maxLevel)
	eff := r.effectiveLevel()
	r.broadcast(EventNextLevel, LevelPayload{Level: eff})
	r.broadcast(EventInfo, MessagePayload{Message: fmt.Sprintf("Level %d...", eff)})
	r.beginRound()
}

// record hands the finished game to the sink on its own goroutine.
func (r *Room) record() {
	if r.deps.sink == nil {
		return
	}

	rec := domain.GameRecord{
		ID:         uuid.NewString(),
		RoomCode:   r.Code,
		Level:      r.effectiveLevel(),
		MaxLevel:   r.maxLevel,
		FinishedAt: r.deps.clock.Now().UTC(),
	}
	for _, p := range r.playerList() {
		rec.Players = append(rec.Players, domain.PlayerStanding{PlayerID: p.ID, Name: p.Name, Score: p.Score, Level: p.Level})
	}

	sink, log := r.deps.sink, r.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := sink.RecordGame(ctx, rec); err != nil {
			log.Warn("failed to record finished game", "game", rec.ID, "error", err)
		}
	}()
}
