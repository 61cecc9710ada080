package question

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Bank is the immutable, process-wide question set. It is safe for concurrent reads.
type Bank struct {
	questions  []Question
	byID       map[int]int
	categories []string
}

// NewBank validates and indexes the given questions. The slice is copied.
func NewBank(questions []Question) (*Bank, error) {
	b := &Bank{
		questions: make([]Question, 0, len(questions)),
		byID:      make(map[int]int, len(questions)),
	}
	seen := make(map[string]struct{})
	for _, q := range questions {
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
			return nil, fmt.Errorf("question %d: difficulty %d outside [%d,%d]", q.ID, q.Difficulty, MinDifficulty, MaxDifficulty)
		}
		if q.Points != nil && *q.Points < 0 {
			return nil, fmt.Errorf("question %d: negative point value", q.ID)
		}
		q.Options = append([]string(nil), q.Options...)
		b.byID[q.ID] = len(b.questions)
		b.questions = append(b.questions, q)

		if q.Category == "" {
			continue
		}
		key := strings.ToLower(q.Category)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			b.categories = append(b.categories, q.Category)
		}
	}
	sort.Slice(b.categories, func(i, j int) bool {
		return strings.ToLower(b.categories[i]) < strings.ToLower(b.categories[j])
	})
	return b, nil
}

// Decode reads a JSON array of questions.
func Decode(r io.Reader) (*Bank, error) {
	var questions []Question
	if err := json.NewDecoder(r).Decode(&questions); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	return NewBank(questions)
}

// LoadFile reads a JSON question bank from disk.
func LoadFile(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// All returns the bank in load order. Callers must not modify the returned slice.
func (b *Bank) All() []Question {
	return b.questions
}

// Lookup resolves a question by id.
func (b *Bank) Lookup(id int) (Question, bool) {
	idx, ok := b.byID[id]
	if !ok {
		return Question{}, false
	}
	return b.questions[idx], true
}

// Len reports the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Categories returns the distinct category labels (case-insensitive), sorted.
func (b *Bank) Categories() []string {
	out := make([]string, len(b.categories))
	copy(out, b.categories)
	return out
}
