package tutor

import (
	"strings"

	"github.com/jtown42/heartsoundtutorstatic/internal/model"
)

// Free-text coaching support: the instruction block handed to the phrasing
// adapter and the fixed local templates used when no adapter is configured
// or the adapter fails.

// coachInstructions is the non-disclosure guardrail for every adapter call.
// The adapter never decides to reveal; only the state machine sets wrap.
const coachInstructions = `You are a concise cardiology tutor for heart sounds (NBME/boards style).
Global rules:
• Do NOT state or imply the specific diagnosis OR list canonical buzzwords unless the learner explicitly asked to 'reveal' (then the server sets wrap).
• Keep <=3 bullets and ask exactly ONE follow-up question.
• Never name the murmur before the reveal.`

// phaseDirectives holds the per-phase task handed to the adapter. Unknown
// phases get the maneuvers directive.
var phaseDirectives = map[model.State]string{
	model.StateProbe:     "Evaluate their description concisely (<=3 bullets), then ask exactly ONE maneuver question. Do NOT reveal diagnosis or buzzwords.",
	model.StateManeuvers: "Confirm/correct in <=3 bullets, end with exactly ONE synthesis or next-step question. Do NOT reveal diagnosis or buzzwords.",
}

// buildCoachBlob assembles the per-turn context for the adapter. The case
// facts are marked internal-only; the guardrail in coachInstructions keeps
// them out of the reply.
func buildCoachBlob(item model.CaseItem, state model.State, userMsg string) string {
	directive, ok := phaseDirectives[state]
	if !ok {
		directive = phaseDirectives[model.StateManeuvers]
	}
	if userMsg == "" {
		userMsg = "(first turn)"
	}

	var sb strings.Builder
	sb.WriteString("Selected Item (internal only; do NOT reveal unless explicit reveal):\n")
	sb.WriteString("Title: " + item.Title + "\n")
	sb.WriteString("Buzz: " + strings.Join(item.Buzzwords, ", ") + "\n")
	sb.WriteString("Teach: " + item.TeachingPearl + "\n\n")
	sb.WriteString("Phase now: " + string(state) + "\n")
	sb.WriteString("Reveal requested: no\n")
	sb.WriteString("Learner said: " + userMsg + "\n\n")
	sb.WriteString("Your task this turn:\n" + directive + "\n")
	sb.WriteString("Format: max 3 bullets + exactly 1 question.")
	return sb.String()
}

// localCoachText is the deterministic fallback coaching turn for a phase.
func localCoachText(state model.State) string {
	if state == model.StateProbe {
		return strings.Join([]string{
			"**Probe**",
			"- Focus on where it's loudest and radiation.",
			"- Which **maneuver** changes intensity/timing?",
		}, "\n")
	}
	return strings.Join([]string{
		"**Maneuvers**",
		"- Good — synthesize in 1 line (name + 2 features) when you want the reveal.",
		"Say **'reveal'** anytime to see the answer.",
	}, "\n")
}
