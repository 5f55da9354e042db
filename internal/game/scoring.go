package game

import "math"

const (
	basePoints          = 100
	pointsPerMotorHit   = 10
	reactionPenaltyUnit = 10 // one point lost per this many ms of average reaction
)

// PlayerState is a player's cumulative standing before a round is scored.
type PlayerState struct {
	ID    string
	Name  string
	Score int
	Level int
}

// Round carries the per-round accumulators of one room.
type Round struct {
	Players       []PlayerState // live players, display order
	MotorScores   map[string]int
	ReactionTimes map[string][]int64 // milliseconds
	Submissions   map[string]bool
	MaxLevel      int
}

type Result struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Correct     bool   `json:"correct"`
	MotorScore  int    `json:"motorScore"`
	AvgReaction int    `json:"avgReaction"`
	Points      int    `json:"points"`
	Score       int    `json:"score"`
	Level       int    `json:"level"`
}

type Outcome struct {
	Results    []Result
	AllCorrect bool
}

// AverageReaction is the mean latency rounded half up, 0 without samples.
func AverageReaction(times []int64) int {
	if len(times) == 0 {
		return 0
	}
	var sum int64
	for _, t := range times {
		sum += t
	}
	return int(math.Floor(float64(sum)/float64(len(times)) + 0.5))
}

// Points can go negative when the average reaction is large; no floor applies.
func Points(motorScore, avgReaction int) int {
	penalty := int(math.Floor(float64(avgReaction) / reactionPenaltyUnit))
	return basePoints + motorScore*pointsPerMotorHit - penalty
}

// Score computes every live player's round result. Players without a
// submission count as incorrect.
func Score(r Round) Outcome {
	out := Outcome{
		Results:    make([]Result, 0, len(r.Players)),
		AllCorrect: true,
	}
	for _, p := range r.Players {
		motor := r.MotorScores[p.ID]
		avg := AverageReaction(r.ReactionTimes[p.ID])
		correct := r.Submissions[p.ID]

		res := Result{
			ID:          p.ID,
			Name:        p.Name,
			Correct:     correct,
			MotorScore:  motor,
			AvgReaction: avg,
			Score:       p.Score,
			Level:       p.Level,
		}
		if correct {
			res.Points = Points(motor, avg)
			res.Score += res.Points
			res.Level = min(r.MaxLevel, p.Level+1)
		} else {
			out.AllCorrect = false
		}
		out.Results = append(out.Results, res)
	}
	return out
}
