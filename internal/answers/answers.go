// Package answers loads and formats the key/value answer sets that drive
// form filling.
//
// Answer sets arrive either as a JSON object (optionally wrapped in a
// "collected_answers" envelope produced by the interview tool) or as a
// comma-delimited "Key: value" string on the command line. Keys are
// free-form and are not guaranteed to match any form field label.
//
// The set preserves insertion order: field matching gives the first
// matching key priority, so iteration order is part of the contract and a
// plain Go map would not do.
package answers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Pair is a single answer: a free-form key and its value.
type Pair struct {
	Key   string
	Value string
}

// AnswerSet is an ordered collection of answer pairs.
type AnswerSet struct {
	pairs []Pair
}

// New returns an empty answer set.
func New() *AnswerSet {
	return &AnswerSet{}
}

// Add appends a pair to the set. Duplicate keys are kept; the first one
// wins during matching.
func (s *AnswerSet) Add(key, value string) {
	s.pairs = append(s.pairs, Pair{Key: key, Value: value})
}

// Pairs returns the answers in insertion order.
func (s *AnswerSet) Pairs() []Pair {
	return s.pairs
}

// Len returns the number of answers in the set.
func (s *AnswerSet) Len() int {
	return len(s.pairs)
}

// LoadFile reads an answer set from a JSON file. If the top-level object
// contains a "collected_answers" key its value is used; otherwise the
// whole object is treated as the answer mapping.
func LoadFile(path string) (*AnswerSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	if raw, ok := envelope["collected_answers"]; ok {
		return parseOrdered(raw)
	}
	return parseOrdered(data)
}

// LoadCollected reads an answer set from a JSON file and requires the
// "collected_answers" envelope to be present.
func LoadCollected(path string) (*AnswerSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	raw, ok := envelope["collected_answers"]
	if !ok {
		return nil, fmt.Errorf("'collected_answers' key not found in %s", path)
	}
	return parseOrdered(raw)
}

// parseOrdered decodes a JSON object into an AnswerSet, preserving key
// order. encoding/json's map decoding would randomize it, so the object
// is walked token by token instead. Nested objects and arrays are
// skipped; numbers and booleans are stringified.
func parseOrdered(data []byte) (*AnswerSet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid answers JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("answers JSON must be an object, got %v", tok)
	}

	set := New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid answers JSON: %w", err)
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", key, err)
		}

		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			set.Add(key, str)
			continue
		}
		scalarDec := json.NewDecoder(bytes.NewReader(raw))
		scalarDec.UseNumber()
		var scalar interface{}
		if err := scalarDec.Decode(&scalar); err == nil {
			switch scalar.(type) {
			case json.Number, bool:
				set.Add(key, fmt.Sprint(scalar))
			}
			// objects, arrays and nulls are not answers
		}
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid answers JSON: %w", err)
	}

	return set, nil
}

// ParseString parses a comma-delimited "Key: value, Key2: value2" string.
// Segments without a colon are ignored.
func ParseString(s string) *AnswerSet {
	set := New()
	for _, pair := range strings.Split(s, ", ") {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		set.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return set
}

var titleCaser = cases.Title(language.English)

// PrettyKey turns a raw answer key into a display label: underscores
// become spaces and each word is title-cased ("first_name" -> "First Name").
func PrettyKey(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// Inline joins the answers as "key: value, key: value" with raw keys.
// This is the form handed to the model prompt.
func (s *AnswerSet) Inline() string {
	parts := make([]string, 0, len(s.pairs))
	for _, p := range s.pairs {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Key, p.Value))
	}
	return strings.Join(parts, ", ")
}

// FormatString joins the answers as "Key: value, Key: value" with
// prettified keys, suitable for pasting back into the fill command.
func (s *AnswerSet) FormatString() string {
	parts := make([]string, 0, len(s.pairs))
	for _, p := range s.pairs {
		parts = append(parts, fmt.Sprintf("%s: %s", PrettyKey(p.Key), p.Value))
	}
	return strings.Join(parts, ", ")
}

// WriteCSV writes the answers to path as a two-column Field,Value CSV
// with prettified keys.
func (s *AnswerSet) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Field", "Value"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range s.pairs {
		if err := writer.Write([]string{PrettyKey(p.Key), p.Value}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
