package tutor

import (
	"hash/fnv"
	"math/rand/v2"

	"github.com/jtown42/heartsoundtutorstatic/internal/model"
)

// DefaultDistractors is the number of wrong options in a standard 4-way MCQ.
const DefaultDistractors = 3

// optionKeys are the MCQ letters in assignment order.
var optionKeys = []string{"A", "B", "C", "D"}

// caseRand returns a shuffle source seeded from the case identity. Seeding
// per case keeps the option set stable across the intro, hint, and
// wrong-answer turns of the same case without any server-side session state,
// and keeps concurrent turns for different cases independent.
func caseRand(item model.CaseItem) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(item.Seed()))
	s := h.Sum64()
	return rand.New(rand.NewPCG(s, s))
}

// SelectDistractors picks up to k plausible wrong options for the given case.
// Same-category cases are preferred; when fewer than k remain the pool widens
// to the whole bank minus the correct case. The shuffle is deterministic per
// case identity, and the correct case is never part of the result. Banks with
// fewer than k other cases simply yield everything available.
func SelectDistractors(bank model.CaseBank, correct model.CaseItem, k int) []model.CaseItem {
	var same, rest []model.CaseItem
	for _, it := range bank {
		if it.ID == correct.ID && it.Title == correct.Title {
			continue
		}
		rest = append(rest, it)
		if correct.Category != "" && it.Category == correct.Category {
			same = append(same, it)
		}
	}

	pool := same
	if len(pool) < k {
		pool = rest
	}

	shuffled := make([]model.CaseItem, len(pool))
	copy(shuffled, pool)
	rng := caseRand(correct)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if len(shuffled) > k {
		shuffled = shuffled[:k]
	}
	return shuffled
}

// BuildMCQ assembles the lettered option set for a case: the correct title
// plus up to DefaultDistractors wrong titles, shuffled deterministically per
// case identity and labeled A through D. It returns the options and the key
// holding the correct title. Two calls for the same case produce the same
// ordering and key.
func BuildMCQ(bank model.CaseBank, correct model.CaseItem) ([]model.MCQOption, string) {
	distractors := SelectDistractors(bank, correct, DefaultDistractors)

	labels := []string{correct.Title}
	for _, d := range distractors {
		labels = append(labels, d.Title)
	}

	rng := caseRand(correct)
	rng.Shuffle(len(labels), func(i, j int) {
		labels[i], labels[j] = labels[j], labels[i]
	})

	var options []model.MCQOption
	var correctKey string
	for i, label := range labels {
		key := optionKeys[i]
		options = append(options, model.MCQOption{Key: key, Label: label})
		if label == correct.Title {
			correctKey = key
		}
	}
	return options, correctKey
}
