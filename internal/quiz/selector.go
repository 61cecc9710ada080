package quiz

import (
	"math/rand"
	"strings"

	"github.com/gokatarajesh/quizsprint/internal/question"
)

// RandIndex returns a uniformly random index in [0,n).
type RandIndex func(n int) int

// Selector picks the next question for a session.
type Selector struct {
	bank      *question.Bank
	randIndex RandIndex
}

// NewSelector builds a selector. A nil randIndex uses math/rand.
func NewSelector(bank *question.Bank, randIndex RandIndex) *Selector {
	if randIndex == nil {
		randIndex = rand.Intn
	}
	return &Selector{bank: bank, randIndex: randIndex}
}

// Select returns a question not yet shown in the session's category, preferring
// the current difficulty, then difficulty ±1, then anything left. It does not
// mutate the session; the caller must hold its lock.
func (s *Selector) Select(sess *Session) (question.Question, bool) {
	var exact, near, rest []question.Question
	for _, q := range s.bank.All() {
		if sess.wasShown(q.ID) || !sess.isCategory(q.Category) {
			continue
		}
		switch diff := q.Difficulty - sess.Difficulty; {
		case diff == 0:
			exact = append(exact, q)
		case diff == 1 || diff == -1:
			near = append(near, q)
		default:
			rest = append(rest, q)
		}
	}

	tier := exact
	if len(tier) == 0 {
		tier = near
	}
	if len(tier) == 0 {
		tier = rest
	}
	if len(tier) == 0 {
		return question.Question{}, false
	}
	return tier[s.randIndex(len(tier))], true
}

func isGeneral(category string) bool {
	return category == "" || strings.EqualFold(category, GeneralCategory)
}
