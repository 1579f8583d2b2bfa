package tutor

import (
	"strings"

	"github.com/jtown42/heartsoundtutorstatic/internal/model"
)

// Reveal synthesis: the terminal disclosure for a case, built entirely from
// the case facts. A five-line micro-card is always visible; the rest sits in
// a collapsed details block the caller renders as-is.

// canonicalDifferentials are the two fixed contrast statements appended to
// every expanded reveal.
var canonicalDifferentials = []string{
	"Mitral regurgitation — holosystolic at **apex**, radiates to **axilla**; click if MVP.",
	"Aortic stenosis — systolic crescendo–decrescendo at **RUSB**, radiates to **carotids**; soft/late **S2**.",
}

// qualityTag pairs a feature keyword set with its timing/quality tag.
type qualityTag struct {
	keywords []string
	tag      string
}

var qualityTags = []qualityTag{
	{[]string{"diastolic"}, "Diastolic"},
	{[]string{"systolic"}, "Systolic"},
	{[]string{"holosystolic", "pan-systolic"}, "Holosystolic"},
	{[]string{"crescendo", "decrescendo"}, "Crescendo–decrescendo"},
	{[]string{"early diastolic"}, "Early diastolic"},
	{[]string{"mid-diastolic"}, "Mid-diastolic"},
	{[]string{"late diastolic"}, "Late diastolic"},
	{[]string{"high-pitched"}, "High-pitched"},
	{[]string{"low-pitched", "rumble"}, "Low-pitched/rumble"},
	{[]string{"harsh"}, "Harsh"},
	{[]string{"blowing"}, "Blowing"},
}

func revealSite(features string) string {
	switch {
	case strings.Contains(features, "left lower sternal border") || strings.Contains(features, "llsb"):
		return "LLSB"
	case strings.Contains(features, "left sternal border") || strings.Contains(features, "lsb"):
		return "LSB"
	case strings.Contains(features, "right upper sternal border") || strings.Contains(features, "rusb"):
		return "RUSB"
	case strings.Contains(features, "left upper sternal border") || strings.Contains(features, "lusb"):
		return "LUSB"
	case strings.Contains(features, "apex"):
		return "apex"
	case strings.Contains(features, "base"):
		return "base"
	}
	return "classic area"
}

func revealTiming(features string) string {
	switch {
	case strings.Contains(features, "diastolic"):
		return "diastolic"
	case strings.Contains(features, "holosystolic") || strings.Contains(features, "pan-systolic"):
		return "holosystolic (systolic)"
	case strings.Contains(features, "systolic"):
		return "systolic"
	}
	return "timing"
}

func revealRadiation(features string) string {
	switch {
	case strings.Contains(features, "carotid"):
		return "→ carotids"
	case strings.Contains(features, "axilla"):
		return "→ axilla"
	case strings.Contains(features, "no radiation"):
		return "non-radiating"
	}
	return "typical pattern"
}

// revealManeuver is the single best-matching maneuver phrase for the
// micro-card; the expanded block lists all matches.
func revealManeuver(features string) string {
	switch {
	case strings.Contains(features, "handgrip"):
		return "↑ with handgrip (↑ afterload)"
	case strings.Contains(features, "squatting"):
		return "changes with squatting (↑ preload/afterload)"
	case strings.Contains(features, "valsalva"):
		return "↓ with Valsalva (↓ preload) in most murmurs"
	case strings.Contains(features, "inspiration"):
		return "Right ↑ with inspiration / Left ↑ with expiration"
	}
	return "characteristic response to standard maneuvers"
}

func allManeuvers(features string) string {
	var m []string
	if strings.Contains(features, "handgrip") {
		m = append(m, "↑ with **handgrip** (↑ afterload) for regurg/shunts")
	}
	if strings.Contains(features, "squatting") {
		m = append(m, "↑/shift with **squatting** (↑ preload/afterload)")
	}
	if strings.Contains(features, "valsalva") {
		m = append(m, "↓ with **Valsalva** (↓ preload) in most lesions")
	}
	if strings.Contains(features, "inspiration") {
		m = append(m, "Right-sided ↑ with **inspiration**; left-sided with **expiration**")
	}
	if len(m) == 0 {
		return "Characteristic response to standard maneuvers"
	}
	return strings.Join(m, " • ")
}

func timingQualityTags(features string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, q := range qualityTags {
		for _, kw := range q.keywords {
			if strings.Contains(features, kw) && !seen[q.tag] {
				seen[q.tag] = true
				tags = append(tags, q.tag)
				break
			}
		}
	}
	return tags
}

func ancillaryFindings(features string) []string {
	var extras []string
	if strings.Contains(features, "opening snap") {
		extras = append(extras, "Opening snap after S2")
	}
	if strings.Contains(features, "click") || strings.Contains(features, "mvp") {
		extras = append(extras, "Mid-systolic click (MVP)")
	}
	if strings.Contains(features, "wide pulse pressure") || strings.Contains(features, "bounding") {
		extras = append(extras, "Wide pulse pressure / bounding pulses")
	}
	return extras
}

// dontMiss picks the one-line differential pearl for the micro-card, keyed by
// detected features, falling back to the first clause of the teaching pearl
// and then to a generic anchoring sentence.
func dontMiss(item model.CaseItem, features string) string {
	switch {
	case strings.Contains(features, "mvp") || strings.Contains(features, "click"):
		return "MR at **apex** → **axilla** (click if MVP) vs VSD at **LLSB**."
	case strings.Contains(features, "carotid") || strings.Contains(features, "crescendo"):
		return "AS at **RUSB** → **carotids** vs MR at **apex** → **axilla**."
	case strings.Contains(features, "llsb") || strings.Contains(features, "left lower sternal border"):
		return "VSD (**LLSB**) vs TR (↑ with inspiration, prominent v waves)."
	}
	if clause := firstClause(item.TeachingPearl); clause != "" {
		return clause
	}
	return "Anchor on timing/site + one maneuver."
}

// firstClause returns the first sentence of the pearl, period restored, or ""
// when the pearl is empty.
func firstClause(pearl string) string {
	pearl = strings.TrimSpace(pearl)
	if pearl == "" {
		return ""
	}
	head, _, _ := strings.Cut(pearl, ".")
	return strings.TrimSpace(head) + "."
}

// SynthesizeReveal produces the full answer disclosure for a case: the
// always-visible micro-card followed by the collapsed detail block.
func SynthesizeReveal(item model.CaseItem) string {
	features := caseFeatures(item)

	shortBuzz := item.Buzzwords
	if len(shortBuzz) > 3 {
		shortBuzz = shortBuzz[:3]
	}
	buzzLine := "—"
	if len(shortBuzz) > 0 {
		buzzLine = strings.Join(shortBuzz, " • ")
	}

	micro := []string{
		"**Dx:** " + item.Title,
		"**Hear it:** " + revealTiming(features) + " @ " + revealSite(features) + " " + revealRadiation(features),
		"**Maneuver:** " + revealManeuver(features),
		"**Buzz:** " + buzzLine,
		"**Don't miss:** " + dontMiss(item, features),
	}

	return strings.Join(micro, "\n") + "\n\n" + moreInfoBlock(item, features)
}

// moreInfoBlock builds the collapsed detail region. The details/summary
// markup matches what the case page renders natively.
func moreInfoBlock(item model.CaseItem, features string) string {
	tags := timingQualityTags(features)
	tagLine := "—"
	if len(tags) > 0 {
		tagLine = strings.Join(tags, ", ")
	}

	var sb strings.Builder
	sb.WriteString("<details>\n")
	sb.WriteString("  <summary><strong>More info</strong></summary>\n")
	sb.WriteString("  <div class=\"more-info\">\n")
	sb.WriteString("    <div><strong>Site:</strong> " + strings.ToUpper(revealSite(features)) + "</div>\n")
	sb.WriteString("    <div><strong>Timing/Quality:</strong> " + tagLine + "</div>\n")
	sb.WriteString("    <div><strong>Radiation:</strong> " + revealRadiation(features) + "</div>\n")
	sb.WriteString("    <div><strong>Maneuvers:</strong> " + allManeuvers(features) + "</div>\n")

	if extras := ancillaryFindings(features); len(extras) > 0 {
		sb.WriteString("    <div><strong>Extras:</strong> " + strings.Join(extras, " • ") + "</div>\n")
	}

	sb.WriteString("    <div><strong>Buzzwords (full):</strong></div>\n")
	sb.WriteString("    <ul>")
	if len(item.Buzzwords) == 0 {
		sb.WriteString("<li>—</li>")
	}
	for _, b := range item.Buzzwords {
		sb.WriteString("<li>" + b + "</li>")
	}
	sb.WriteString("</ul>\n")

	if pearl := firstClause(item.TeachingPearl); pearl != "" {
		sb.WriteString("    <div><strong>Pearl:</strong> " + pearl + "</div>\n")
	}

	sb.WriteString("    <div><strong>Differentiate from:</strong></div>\n")
	sb.WriteString("    <ul>")
	for _, d := range canonicalDifferentials {
		sb.WriteString("<li>" + d + "</li>")
	}
	sb.WriteString("</ul>\n")
	sb.WriteString("  </div>\n")
	sb.WriteString("</details>")
	return sb.String()
}
