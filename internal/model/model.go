package model

import (
	"errors"
	"strings"
)

// State represents the tutoring dialogue state for a case.
type State string

const (
	// StateIntro is the entry state: the learner has just opened a case.
	StateIntro State = "intro"
	// StateProbe is the first free-text coaching phase.
	StateProbe State = "probe"
	// StateManeuvers is the maneuver-focused coaching phase.
	StateManeuvers State = "maneuvers"
	// StateMCQ is the multiple-choice phase.
	StateMCQ State = "mcq"
	// StateAwaitReveal is the locked state after exhausting MCQ attempts.
	StateAwaitReveal State = "await-reveal"
	// StateWrap is the terminal state after the answer has been revealed.
	StateWrap State = "wrap"
)

// MaxHints caps the number of progressive hints per case.
const MaxHints = 3

// MaxAttempts caps the number of wrong MCQ selections before the case locks.
const MaxAttempts = 3

// ErrInvalidCase reports a case record that is missing both id and title.
// The tutor cannot run a turn against such a record.
var ErrInvalidCase = errors.New("case record has neither id nor title")

// RawCase is the import shape of a case record as found in the murmur
// bank JSON file and on the turn wire.
type RawCase struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Category      string   `json:"cat"`
	Buzzwords     []string `json:"buzz"`
	TeachingPearl string   `json:"teach"`
	AudioRef      string   `json:"file"`
}

// CaseItem is the normalized, immutable fact record for one murmur case.
// Title and Buzzwords must never appear in tutor output before the reveal.
type CaseItem struct {
	ID            string
	Title         string
	Category      string
	Buzzwords     []string
	TeachingPearl string
	AudioRef      string
}

// Normalize converts a raw record into a CaseItem, trimming whitespace and
// dropping empty buzzwords. It fails with ErrInvalidCase only when both the
// id and the title are absent.
func Normalize(raw RawCase) (CaseItem, error) {
	id := strings.TrimSpace(raw.ID)
	title := strings.TrimSpace(raw.Title)
	if id == "" && title == "" {
		return CaseItem{}, ErrInvalidCase
	}

	var buzz []string
	for _, b := range raw.Buzzwords {
		if b = strings.TrimSpace(b); b != "" {
			buzz = append(buzz, b)
		}
	}

	return CaseItem{
		ID:            id,
		Title:         title,
		Category:      strings.TrimSpace(raw.Category),
		Buzzwords:     buzz,
		TeachingPearl: strings.TrimSpace(raw.TeachingPearl),
		AudioRef:      strings.TrimSpace(raw.AudioRef),
	}, nil
}

// Seed returns the deterministic shuffle identity for the case: the id when
// present, otherwise the title.
func (c CaseItem) Seed() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Title
}

// CaseBank is the ordered, read-only collection of cases loaded at startup.
// It owns no mutable state and is safe for concurrent reads.
type CaseBank []CaseItem

// Lookup resolves a case by id first, then by exact title. The second return
// value reports whether a match was found.
func (b CaseBank) Lookup(id, title string) (CaseItem, bool) {
	for _, it := range b {
		if id != "" && it.ID == id {
			return it, true
		}
	}
	for _, it := range b {
		if title != "" && it.Title == title {
			return it, true
		}
	}
	return CaseItem{}, false
}

// MCQOption is one lettered answer choice.
type MCQOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// TurnRequest carries one inbound learner turn. The tutor is stateless across
// calls: Attempts and HintLevel are round-tripped by the caller.
type TurnRequest struct {
	State       State
	Item        RawCase
	UserMessage string
	Attempts    int
	HintLevel   int
	ChoiceKey   string
}

// TurnResponse is the outbound turn. Audio is only populated on intro and
// reveal turns; Choices is nil once the case is locked or revealed.
type TurnResponse struct {
	Text      string
	Audio     string
	Choices   []MCQOption
	NextState State
	HintLevel int
	Attempts  int
}
