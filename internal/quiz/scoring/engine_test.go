package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyCorrect(t *testing.T) {
	e := NewEngine(DefaultScoringConfig())
	tally := e.NewTally()

	earned := e.Apply(&tally, true, 10)

	assert.Equal(t, 10, earned)
	assert.Equal(t, Tally{Score: 10, Correct: 1, Streak: 1, BestStreak: 1, Difficulty: 4}, tally)
}

func TestApplyWrongResetsStreak(t *testing.T) {
	e := NewEngine(DefaultScoringConfig())
	tally := e.NewTally()
	e.Apply(&tally, true, 10)
	e.Apply(&tally, true, 10)

	earned := e.Apply(&tally, false, 10)

	assert.Zero(t, earned)
	assert.Equal(t, 0, tally.Streak)
	assert.Equal(t, 2, tally.BestStreak)
	assert.Equal(t, 1, tally.Wrong)
	assert.Equal(t, 4, tally.Difficulty)
	assert.Equal(t, 20, tally.Score)
}

func TestDifficultyClamped(t *testing.T) {
	e := NewEngine(DefaultScoringConfig())

	high := e.NewTally()
	for i := 0; i < 10; i++ {
		e.Apply(&high, true, 10)
		assert.LessOrEqual(t, high.Difficulty, 5)
	}
	assert.Equal(t, 5, high.Difficulty)

	low := e.NewTally()
	for i := 0; i < 10; i++ {
		e.Apply(&low, false, 10)
		assert.GreaterOrEqual(t, low.Difficulty, 1)
	}
	assert.Equal(t, 1, low.Difficulty)
}

func TestBestStreakNeverBelowStreak(t *testing.T) {
	e := NewEngine(DefaultScoringConfig())
	tally := e.NewTally()
	pattern := []bool{true, true, false, true, true, true, false, false, true}
	prevBest := 0
	for _, correct := range pattern {
		e.Apply(&tally, correct, 5)
		assert.GreaterOrEqual(t, tally.BestStreak, tally.Streak)
		assert.GreaterOrEqual(t, tally.BestStreak, prevBest)
		prevBest = tally.BestStreak
	}
	assert.Equal(t, 3, tally.BestStreak)
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy(0, 0))
	assert.Equal(t, 75.0, Accuracy(15, 5))
	assert.InDelta(t, 66.666, Accuracy(2, 1), 0.01)
}
