package formfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"formfill/internal/answers"
)

func answerSet(pairs ...string) *answers.AnswerSet {
	set := answers.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		set.Add(pairs[i], pairs[i+1])
	}
	return set
}

func TestMatchFieldSubstring(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		set      *answers.AnswerSet
		fallback string
		want     string
	}{
		{
			name:  "label is substring of key",
			label: "Email",
			set:   answerSet("Email Address", "a@b.com"),
			want:  "a@b.com",
		},
		{
			name:  "key is substring of label",
			label: "Full Name of Applicant",
			set:   answerSet("Name", "Jane Doe"),
			want:  "Jane Doe",
		},
		{
			name:  "match is case-insensitive",
			label: "EMAIL",
			set:   answerSet("email address", "a@b.com"),
			want:  "a@b.com",
		},
		{
			name:  "first key in insertion order wins",
			label: "Name",
			set:   answerSet("Name", "A", "First Name", "B"),
			want:  "A",
		},
		{
			name:     "substring beats category order",
			label:    "Phone",
			set:      answerSet("Telephone", "555-1234"),
			fallback: "unused",
			want:     "555-1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchField(tt.label, tt.set, tt.fallback)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchFieldCategories(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		set      *answers.AnswerSet
		fallback string
		want     string
	}{
		{
			name:  "date category resolves dob key",
			label: "Date of Birth",
			set:   answerSet("dob", "2000-01-01"),
			want:  "2000-01-01",
		},
		{
			name:  "name category",
			label: "Applicant",
			set:   answerSet("full_name", "Jane Doe"),
			// no trigger fires for this label
			want: "",
		},
		{
			name:  "first trigger category wins",
			label: "First",
			set:   answerSet("contact_email", "a@b.com", "legal_name", "Jane"),
			want:  "Jane",
		},
		{
			name:  "phone category via tel keyword",
			label: "Tel.",
			set:   answerSet("home_phone", "555-1234"),
			want:  "555-1234",
		},
		{
			name:  "address category via street keyword",
			label: "Street",
			set:   answerSet("mailing_address", "123 Main St"),
			want:  "123 Main St",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchField(tt.label, tt.set, tt.fallback)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchFieldFallback(t *testing.T) {
	set := answerSet("Name", "Jane")

	assert.Equal(t, "X", MatchField("Signature", set, "X"))
	assert.Equal(t, "", MatchField("Signature", set, ""))
}

func TestMatchFieldEmptySet(t *testing.T) {
	assert.Equal(t, "fallback", MatchField("Name", answers.New(), "fallback"))
}
