package quiz

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gokatarajesh/quizsprint/internal/quiz/scoring"
)

// GeneralCategory draws from the whole bank.
const GeneralCategory = "general"

// Termination reasons.
const (
	ReasonLimit     = "limit"
	ReasonExhausted = "exhausted"
)

// Session is one user's in-progress quiz. All fields are guarded by mu.
type Session struct {
	mu sync.Mutex

	ID       string
	UserID   uuid.UUID
	Category string
	scoring.Tally

	Shown    []int
	shownSet map[int]struct{}

	// pending is the delivered question awaiting an answer.
	pending    int
	hasPending bool

	Completed   bool
	CompletedAt time.Time
	CreatedAt   time.Time

	// deleted is set under mu once the session leaves the store. Callers queued on mu check it after locking.
	deleted bool
}

func newSession(id string, userID uuid.UUID, category string, tally scoring.Tally, now time.Time) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		Category:  category,
		Tally:     tally,
		shownSet:  make(map[int]struct{}),
		CreatedAt: now,
	}
}

func (s *Session) wasShown(id int) bool {
	_, ok := s.shownSet[id]
	return ok
}

// deliver records a question as shown and pending.
func (s *Session) deliver(id int) {
	if !s.wasShown(id) {
		s.shownSet[id] = struct{}{}
		s.Shown = append(s.Shown, id)
	}
	s.pending = id
	s.hasPending = true
}

func (s *Session) complete(now time.Time) {
	s.Completed = true
	s.CompletedAt = now
	s.hasPending = false
}

func (s *Session) isCategory(category string) bool {
	return isGeneral(s.Category) || strings.EqualFold(s.Category, category)
}
