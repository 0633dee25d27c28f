package formfill

import (
	"strings"

	"formfill/internal/answers"
)

// category pairs the keywords that identify a kind of form field with the
// substrings to look for in answer keys. Categories are evaluated in
// order; extending the chain is a matter of adding a row.
type category struct {
	triggers []string
	targets  []string
}

var categories = []category{
	{triggers: []string{"name", "first", "last", "full"}, targets: []string{"name"}},
	{triggers: []string{"email", "mail"}, targets: []string{"email"}},
	{triggers: []string{"phone", "tel", "number"}, targets: []string{"phone"}},
	{triggers: []string{"address", "street", "addr"}, targets: []string{"address"}},
	{triggers: []string{"date", "birth", "dob"}, targets: []string{"birth", "date", "dob"}},
}

// MatchField resolves a form field label to the best answer value.
//
// Rules fire in order, case-insensitively:
//  1. Substring match: the first answer whose key contains the label, or
//     is contained in it, wins. Insertion order breaks ties.
//  2. Category match: for the first category whose trigger keywords
//     appear in the label, the first answer whose key contains one of
//     the category's target substrings wins.
//  3. Otherwise the model-suggested fallback is returned unchanged,
//     including when it is empty.
//
// MatchField is a pure function and never fails; absence of a match
// degrades to the fallback, not an error.
func MatchField(label string, set *answers.AnswerSet, fallback string) string {
	lower := strings.ToLower(label)

	for _, p := range set.Pairs() {
		key := strings.ToLower(p.Key)
		if strings.Contains(lower, key) || strings.Contains(key, lower) {
			return p.Value
		}
	}

	for _, c := range categories {
		if !containsAny(lower, c.triggers) {
			continue
		}
		for _, p := range set.Pairs() {
			key := strings.ToLower(p.Key)
			if containsAny(key, c.targets) {
				return p.Value
			}
		}
	}

	return fallback
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
