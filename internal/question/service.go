package question

import (
	"context"
	"fmt"
	"html"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizsprint/internal/question/external"
)

// Bank sources.
const (
	SourceFile    = "file"
	SourceOpenTDB = "opentdb"
)

type opentdbProvider interface {
	Fetch(ctx context.Context, opts external.FetchOptions) ([]external.OpenTDBQuestion, error)
}

// LoaderOptions selects where the bank comes from.
type LoaderOptions struct {
	Source string
	Path   string
	Amount int
	// RandIndex returns a value in [0,n). Used to shuffle imported options.
	RandIndex func(n int) int
}

// Loader builds the Bank once at startup, from a JSON file or an OpenTDB import.
type Loader struct {
	opentdb opentdbProvider
	opts    LoaderOptions
	logger  zerolog.Logger
}

func NewLoader(opentdb opentdbProvider, opts LoaderOptions, logger zerolog.Logger) *Loader {
	if opts.Source == "" {
		opts.Source = SourceFile
	}
	if opts.RandIndex == nil {
		opts.RandIndex = rand.Intn
	}
	return &Loader{
		opentdb: opentdb,
		opts:    opts,
		logger:  logger.With().Str("component", "question_loader").Logger(),
	}
}

// Load resolves the configured source into a validated Bank.
func (l *Loader) Load(ctx context.Context) (*Bank, error) {
	var (
		bank *Bank
		err  error
	)
	switch l.opts.Source {
	case SourceFile:
		bank, err = LoadFile(l.opts.Path)
	case SourceOpenTDB:
		bank, err = l.importOpenTDB(ctx)
	default:
		return nil, fmt.Errorf("unknown question bank source %q", l.opts.Source)
	}
	if err != nil {
		return nil, err
	}
	if bank.Len() == 0 {
		return nil, fmt.Errorf("question bank from %s is empty", l.opts.Source)
	}
	l.logger.Info().
		Str("source", l.opts.Source).
		Int("questions", bank.Len()).
		Strs("categories", bank.Categories()).
		Msg("question bank loaded")
	return bank, nil
}

func (l *Loader) importOpenTDB(ctx context.Context) (*Bank, error) {
	if l.opentdb == nil {
		return nil, fmt.Errorf("opentdb source selected without a client")
	}
	items, err := l.opentdb.Fetch(ctx, external.FetchOptions{Amount: l.opts.Amount, Type: "multiple"})
	if err != nil {
		return nil, fmt.Errorf("import opentdb: %w", err)
	}
	return NewBank(FromOpenTDB(items, l.opts.RandIndex))
}

// FromOpenTDB converts imported items into bank questions with ids starting at 1.
// Options are the correct answer plus distractors, shuffled with randIndex.
func FromOpenTDB(items []external.OpenTDBQuestion, randIndex func(n int) int) []Question {
	out := make([]Question, 0, len(items))
	for i, item := range items {
		answer := html.UnescapeString(item.CorrectAnswer)
		options := make([]string, 0, len(item.IncorrectAnswer)+1)
		options = append(options, answer)
		for _, wrong := range item.IncorrectAnswer {
			options = append(options, html.UnescapeString(wrong))
		}
		for j := len(options) - 1; j > 0; j-- {
			k := randIndex(j + 1)
			options[j], options[k] = options[k], options[j]
		}
		out = append(out, Question{
			ID:         i + 1,
			Prompt:     html.UnescapeString(item.Question),
			Options:    options,
			Answer:     answer,
			Difficulty: mapOpenTDBDifficulty(item.Difficulty),
			Category:   html.UnescapeString(item.Category),
		})
	}
	return out
}

func mapOpenTDBDifficulty(level string) int {
	switch strings.ToLower(level) {
	case "easy":
		return 2
	case "hard":
		return 4
	default:
		return 3
	}
}
