package scoring

// ScoringConfig holds the adaptive difficulty bounds.
type ScoringConfig struct {
	MinDifficulty     int // default: 1
	MaxDifficulty     int // default: 5
	InitialDifficulty int // default: 3
}

// DefaultScoringConfig returns production defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		MinDifficulty:     1,
		MaxDifficulty:     5,
		InitialDifficulty: 3,
	}
}

// Tally is the running score state of one quiz session.
type Tally struct {
	Score      int `json:"score"`
	Correct    int `json:"correct"`
	Wrong      int `json:"wrong"`
	Streak     int `json:"streak"`
	BestStreak int `json:"best_streak"`
	Difficulty int `json:"difficulty"`
}

// Engine applies answers to a Tally.
type Engine struct {
	config ScoringConfig
}

// NewEngine creates a scoring engine with the provided config.
func NewEngine(config ScoringConfig) *Engine {
	return &Engine{config: config}
}

// Config returns the engine's configuration.
func (e *Engine) Config() ScoringConfig {
	return e.config
}

// NewTally returns a zeroed tally at the initial difficulty.
func (e *Engine) NewTally() Tally {
	return Tally{Difficulty: e.config.InitialDifficulty}
}

// Apply records one evaluated answer and returns the points earned.
// Correct: score += points, streak++, difficulty+1.
// Wrong: streak reset, difficulty-1. Difficulty is clamped to the configured range.
func (e *Engine) Apply(t *Tally, correct bool, points int) int {
	earned := 0
	if correct {
		earned = points
		t.Score += points
		t.Correct++
		t.Streak++
		t.Difficulty++
	} else {
		t.Wrong++
		t.Streak = 0
		t.Difficulty--
	}
	t.Difficulty = e.clamp(t.Difficulty)
	if t.Streak > t.BestStreak {
		t.BestStreak = t.Streak
	}
	return earned
}

func (e *Engine) clamp(d int) int {
	if d < e.config.MinDifficulty {
		return e.config.MinDifficulty
	}
	if d > e.config.MaxDifficulty {
		return e.config.MaxDifficulty
	}
	return d
}

// Accuracy returns correct / (correct + wrong) as a percentage, 0 when nothing was answered.
func Accuracy(correct, wrong int) float64 {
	total := correct + wrong
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
