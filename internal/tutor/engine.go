// Package tutor implements the guided-learning dialogue engine for
// heart-murmur cases: the state machine, hint budget, deterministic MCQ
// construction, and answer-reveal synthesis. The engine is stateless across
// turns; attempt and hint counters travel with the request and response.
package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jtown42/heartsoundtutorstatic/internal/i18n"
	"github.com/jtown42/heartsoundtutorstatic/internal/model"
	"github.com/jtown42/heartsoundtutorstatic/internal/phrasing"
)

// Mode selects the tutoring flavor behind the shared state names.
type Mode string

const (
	// ModeMCQ runs the multiple-choice flow: intro serves four options.
	ModeMCQ Mode = "mcq"
	// ModeCoach runs the free-text coaching flow: probe then maneuvers.
	ModeCoach Mode = "coach"
)

// IsValidMode checks a mode name from configuration.
func IsValidMode(m string) bool {
	return Mode(m) == ModeMCQ || Mode(m) == ModeCoach
}

// DefaultRevealPatterns are the literal substrings that trigger an explicit
// reveal, matched case-insensitively against the learner message.
var DefaultRevealPatterns = []string{
	"reveal", "answer", "final", "what is it", "tell me the diagnosis",
}

// DefaultHintPatterns are the literal substrings that request a hint.
var DefaultHintPatterns = []string{
	"hint", "clue", "another hint", "give me a hint",
}

// Config holds the engine's tunables. The keyword lists are injected rather
// than scattered through control flow so they can be tested and extended
// without touching the transition rules.
type Config struct {
	Mode           Mode
	RevealPatterns []string
	HintPatterns   []string
}

// Engine evaluates one learner turn at a time against a read-only case bank.
// It owns no mutable shared state and is safe for concurrent use.
type Engine struct {
	bank model.CaseBank
	gen  phrasing.Generator // nil disables the adapter path
	cfg  Config
}

// New creates an engine. gen may be nil, in which case coaching turns always
// use the local templates. Zero-value config fields get defaults.
func New(bank model.CaseBank, gen phrasing.Generator, cfg Config) *Engine {
	if cfg.Mode == "" {
		cfg.Mode = ModeMCQ
	}
	if len(cfg.RevealPatterns) == 0 {
		cfg.RevealPatterns = DefaultRevealPatterns
	}
	if len(cfg.HintPatterns) == 0 {
		cfg.HintPatterns = DefaultHintPatterns
	}
	return &Engine{bank: bank, gen: gen, cfg: cfg}
}

func matchesAny(lowered string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(lowered, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// resolveItem looks the turn's case up in the bank by id, then title, and
// falls back to normalizing the inline record for banks served elsewhere.
func (e *Engine) resolveItem(raw model.RawCase) (model.CaseItem, error) {
	if it, ok := e.bank.Lookup(strings.TrimSpace(raw.ID), strings.TrimSpace(raw.Title)); ok {
		return it, nil
	}
	return model.Normalize(raw)
}

// HandleTurn evaluates one inbound turn. Transition rules fire in priority
// order: intro, explicit reveal, hint request, MCQ choice, free-text
// coaching, fallback. The diagnosis title and buzzwords appear in the
// response text only when the same response sets wrap.
func (e *Engine) HandleTurn(ctx context.Context, req model.TurnRequest) (model.TurnResponse, error) {
	item, err := e.resolveItem(req.Item)
	if err != nil {
		return model.TurnResponse{}, fmt.Errorf("resolve case: %w", err)
	}

	// Clamp counters from the wire to their documented ranges.
	hintLevel := min(max(req.HintLevel, 0), model.MaxHints)
	attempts := max(req.Attempts, 0)
	choiceKey := strings.ToUpper(strings.TrimSpace(req.ChoiceKey))
	lowered := strings.ToLower(req.UserMessage)

	// Intro: audio only, no text bubble by contract.
	if req.State == model.StateIntro {
		resp := model.TurnResponse{
			Audio:     item.AudioRef,
			NextState: model.StateProbe,
		}
		if e.cfg.Mode == ModeMCQ {
			resp.Choices, _ = BuildMCQ(e.bank, item)
			resp.NextState = model.StateMCQ
		}
		return resp, nil
	}

	// Explicit reveal beats everything else, including a simultaneous choice.
	if matchesAny(lowered, e.cfg.RevealPatterns) {
		return model.TurnResponse{
			Text:      SynthesizeReveal(item),
			Audio:     item.AudioRef,
			NextState: model.StateWrap,
			HintLevel: hintLevel,
			Attempts:  attempts,
		}, nil
	}

	// Hint request: advances the hint budget, never the attempt count.
	// Repeated requests past the cap keep returning the last hint.
	if req.State != model.StateWrap && matchesAny(lowered, e.cfg.HintPatterns) {
		hintLevel = min(hintLevel+1, model.MaxHints)
		hints := GenerateHints(item)
		resp := model.TurnResponse{
			Text:      hints[hintLevel-1],
			NextState: req.State,
			HintLevel: hintLevel,
			Attempts:  attempts,
		}
		if e.cfg.Mode == ModeMCQ && req.State == model.StateMCQ {
			resp.Choices, _ = BuildMCQ(e.bank, item)
		}
		return resp, nil
	}

	// MCQ choice.
	if e.cfg.Mode == ModeMCQ && req.State == model.StateMCQ && isChoiceKey(choiceKey) {
		options, correctKey := BuildMCQ(e.bank, item)
		if choiceKey == correctKey {
			return model.TurnResponse{
				Text:      i18n.T(ctx, "Correct") + "\n\n" + SynthesizeReveal(item),
				Audio:     item.AudioRef,
				NextState: model.StateWrap,
				HintLevel: hintLevel,
				Attempts:  attempts,
			}, nil
		}

		attempts++
		hintLevel = min(hintLevel+1, model.MaxHints)
		hints := GenerateHints(item)
		hintLine := i18n.Td(ctx, "HintLine", map[string]any{"Hint": hints[hintLevel-1]})

		if attempts >= model.MaxAttempts {
			return model.TurnResponse{
				Text: strings.Join([]string{
					i18n.T(ctx, "NotQuite"),
					hintLine,
					i18n.T(ctx, "OutOfTries"),
				}, "\n"),
				NextState: model.StateAwaitReveal,
				HintLevel: hintLevel,
				Attempts:  attempts,
			}, nil
		}
		return model.TurnResponse{
			Text: strings.Join([]string{
				i18n.T(ctx, "NotQuite"),
				hintLine,
				i18n.Tp(ctx, "TriesLeft", model.MaxAttempts-attempts),
			}, "\n"),
			Choices:   options,
			NextState: model.StateMCQ,
			HintLevel: hintLevel,
			Attempts:  attempts,
		}, nil
	}

	// Free-text coaching. Probe advances to maneuvers after its first turn
	// on both the adapter and the local-template path; maneuvers self-loops
	// until an explicit reveal.
	if e.cfg.Mode == ModeCoach && (req.State == model.StateProbe || req.State == model.StateManeuvers) {
		return model.TurnResponse{
			Text:      e.coachText(ctx, item, req.State, req.UserMessage),
			NextState: model.StateManeuvers,
			HintLevel: hintLevel,
			Attempts:  attempts,
		}, nil
	}

	// Fallback: nothing matched; prompt and preserve where we are.
	return e.fallbackTurn(ctx, item, req.State, hintLevel, attempts), nil
}

// coachText delegates to the phrasing adapter when one is configured and
// falls back deterministically to the local templates on any adapter fault.
func (e *Engine) coachText(ctx context.Context, item model.CaseItem, state model.State, userMsg string) string {
	if e.gen == nil {
		return localCoachText(state)
	}
	out, err := e.gen.Generate(ctx, coachInstructions, buildCoachBlob(item, state, userMsg))
	if err != nil {
		slog.Warn("phrasing adapter failed, using local template",
			"case", item.Seed(), "state", state, "error", err)
		return localCoachText(state)
	}
	return out
}

func (e *Engine) fallbackTurn(ctx context.Context, item model.CaseItem, state model.State, hintLevel, attempts int) model.TurnResponse {
	if e.cfg.Mode == ModeCoach {
		next := state
		if !isKnownState(state) {
			next = model.StateManeuvers
		}
		return model.TurnResponse{
			Text:      i18n.T(ctx, "CoachPrompt"),
			NextState: next,
			HintLevel: hintLevel,
			Attempts:  attempts,
		}
	}

	next := state
	if !isKnownState(state) {
		next = model.StateMCQ
	}
	resp := model.TurnResponse{
		Text:      i18n.T(ctx, "ChoosePrompt"),
		NextState: next,
		HintLevel: hintLevel,
		Attempts:  attempts,
	}
	if next == model.StateMCQ {
		resp.Choices, _ = BuildMCQ(e.bank, item)
	}
	if next == model.StateAwaitReveal {
		resp.Text = i18n.T(ctx, "AwaitRevealPrompt")
	}
	return resp
}

func isChoiceKey(key string) bool {
	for _, k := range optionKeys {
		if key == k {
			return true
		}
	}
	return false
}

func isKnownState(s model.State) bool {
	switch s {
	case model.StateIntro, model.StateProbe, model.StateManeuvers,
		model.StateMCQ, model.StateAwaitReveal, model.StateWrap:
		return true
	}
	return false
}
