package question

// Difficulty bounds for bank questions.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// DefaultPoints is awarded for a correct answer when a question carries no point value.
const DefaultPoints = 10

// Question is a bank record. Answer and Points never leave the server.
type Question struct {
	ID         int      `json:"id"`
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Difficulty int      `json:"difficulty"`
	Category   string   `json:"category,omitempty"`
	Points     *int     `json:"points,omitempty"`
}

// PointValue returns the configured points or DefaultPoints when unset.
func (q Question) PointValue() int {
	if q.Points == nil {
		return DefaultPoints
	}
	return *q.Points
}

// View is the client-facing shape of a question.
type View struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// View strips server-side fields.
func (q Question) View() View {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	return View{ID: q.ID, Prompt: q.Prompt, Options: opts}
}
