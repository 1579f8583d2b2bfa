package tutor

import (
	"fmt"
	"strings"

	"github.com/jtown42/heartsoundtutorstatic/internal/model"
)

// Fixed clinical vocabularies for hint derivation. Matching is always a
// case-insensitive substring search against the concatenated buzzwords and
// teaching pearl, first match wins. The raw title is never consulted, so a
// hint can never name the diagnosis.

// siteVocab lists auscultation sites in priority order.
var siteVocab = []string{
	"apex",
	"left sternal border",
	"right sternal border",
	"LSB",
	"LLSB",
	"RUSB",
	"LUSB",
	"base",
}

// siteExpansions spells out the board-style site abbreviations.
var siteExpansions = map[string]string{
	"LSB":  "left sternal border",
	"LLSB": "left lower sternal border",
	"RUSB": "right upper sternal border",
	"LUSB": "left upper sternal border",
}

// maneuverHint holds the canonical physiologic effect sentence for a maneuver.
type maneuverHint struct {
	keyword string
	effect  string
}

var maneuverHints = []maneuverHint{
	{"handgrip", "Handgrip (↑ afterload) often accentuates regurgitant or L→R shunt murmurs."},
	{"squatting", "Squatting (↑ preload/afterload) can increase intensity or shift timing."},
	{"valsalva", "Valsalva (↓ preload) typically softens most murmurs (HCM/MVP exceptions)."},
	{"inspiration", "Inspiration ↑ right-sided sounds; expiration accentuates left-sided."},
}

const defaultManeuverHint = "Try a physiologic maneuver (squatting, handgrip, Valsalva) to test intensity/timing."

// radiationHint maps an ancillary-finding keyword to its hint sentence.
type radiationHint struct {
	keywords []string
	text     string
}

var radiationHints = []radiationHint{
	{[]string{"carotid"}, "Assess for radiation to the carotids."},
	{[]string{"axilla"}, "Assess for radiation to the axilla."},
	{[]string{"pulse pressure", "bounding"}, "Note pulse pressure/'bounding' quality."},
	{[]string{"opening snap", "click"}, "Listen for extra sounds relative to S2 (snap/click)."},
}

const defaultRadiationHint = "Consider radiation and any extra sounds to firm up the impression."

// caseFeatures is the lowercased concatenation of a case's buzzwords and
// teaching pearl, the haystack for every vocabulary match.
func caseFeatures(item model.CaseItem) string {
	parts := append([]string{}, item.Buzzwords...)
	parts = append(parts, item.TeachingPearl)
	return strings.ToLower(strings.Join(parts, " "))
}

func timingWord(features string) string {
	if strings.Contains(features, "diastolic") {
		return "diastolic"
	}
	if strings.Contains(features, "systolic") {
		return "systolic"
	}
	return "cardiac-cycle"
}

func firstSite(features string) string {
	for _, w := range siteVocab {
		if strings.Contains(features, strings.ToLower(w)) {
			if full, ok := siteExpansions[w]; ok {
				return full
			}
			return w
		}
	}
	return "the characteristic listening area"
}

func maneuverSentence(features string) string {
	for _, m := range maneuverHints {
		if strings.Contains(features, m.keyword) {
			return m.effect
		}
	}
	return defaultManeuverHint
}

func radiationSentence(features string) string {
	for _, r := range radiationHints {
		for _, kw := range r.keywords {
			if strings.Contains(features, kw) {
				return r.text
			}
		}
	}
	return defaultRadiationHint
}

// GenerateHints derives the three progressively specific, non-diagnostic
// hints for a case:
//
//  1. cardiac-cycle timing plus the first matching auscultation site,
//  2. the best-matching physiologic maneuver with its effect,
//  3. the best-matching radiation pattern or ancillary finding.
//
// Each falls back to a generic sentence when nothing in the vocabulary
// matches. Output never contains the title or a literal buzzword.
func GenerateHints(item model.CaseItem) [model.MaxHints]string {
	features := caseFeatures(item)
	return [model.MaxHints]string{
		fmt.Sprintf("Think **%s**; focus at the **%s**.", timingWord(features), firstSite(features)),
		maneuverSentence(features),
		radiationSentence(features),
	}
}
