package answers

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseString(t *testing.T) {
	set := ParseString("Name: John Doe, Email: john@example.com, Phone: (555) 987-6543")

	require.Equal(t, 3, set.Len())
	assert.Equal(t, Pair{Key: "Name", Value: "John Doe"}, set.Pairs()[0])
	assert.Equal(t, Pair{Key: "Email", Value: "john@example.com"}, set.Pairs()[1])
	assert.Equal(t, Pair{Key: "Phone", Value: "(555) 987-6543"}, set.Pairs()[2])
}

func TestParseStringSkipsSegmentsWithoutColon(t *testing.T) {
	set := ParseString("Name: Jane, garbage, Email: a@b.com")

	require.Equal(t, 2, set.Len())
	assert.Equal(t, "Name", set.Pairs()[0].Key)
	assert.Equal(t, "Email", set.Pairs()[1].Key)
}

func TestParseStringEmpty(t *testing.T) {
	assert.Equal(t, 0, ParseString("").Len())
}

func TestLoadFilePreservesOrder(t *testing.T) {
	path := writeTempJSON(t, `{"zeta": "1", "alpha": "2", "middle": "3"}`)

	set, err := LoadFile(path)
	require.NoError(t, err)

	require.Equal(t, 3, set.Len())
	assert.Equal(t, "zeta", set.Pairs()[0].Key)
	assert.Equal(t, "alpha", set.Pairs()[1].Key)
	assert.Equal(t, "middle", set.Pairs()[2].Key)
}

func TestLoadFileCollectedAnswersEnvelope(t *testing.T) {
	path := writeTempJSON(t, `{
		"session_id": "abc",
		"collected_answers": {"first_name": "Jane", "email": "jane@example.com"}
	}`)

	set, err := LoadFile(path)
	require.NoError(t, err)

	require.Equal(t, 2, set.Len())
	assert.Equal(t, Pair{Key: "first_name", Value: "Jane"}, set.Pairs()[0])
}

func TestLoadFileStringifiesScalars(t *testing.T) {
	path := writeTempJSON(t, `{"age": 42, "subscribed": true, "nested": {"x": 1}, "list": [1], "empty": null}`)

	set, err := LoadFile(path)
	require.NoError(t, err)

	require.Equal(t, 2, set.Len())
	assert.Equal(t, Pair{Key: "age", Value: "42"}, set.Pairs()[0])
	assert.Equal(t, Pair{Key: "subscribed", Value: "true"}, set.Pairs()[1])
}

func TestLoadFileInvalidJSON(t *testing.T) {
	path := writeTempJSON(t, `{not json`)

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadCollectedRequiresEnvelope(t *testing.T) {
	path := writeTempJSON(t, `{"first_name": "Jane"}`)

	_, err := LoadCollected(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collected_answers")
}

func TestLoadCollected(t *testing.T) {
	path := writeTempJSON(t, `{"collected_answers": {"first_name": "Jane"}}`)

	set, err := LoadCollected(path)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "Jane", set.Pairs()[0].Value)
}

func TestPrettyKey(t *testing.T) {
	assert.Equal(t, "First Name", PrettyKey("first_name"))
	assert.Equal(t, "Email", PrettyKey("email"))
	assert.Equal(t, "Date Of Birth", PrettyKey("date_of_birth"))
	assert.Equal(t, "Already Pretty", PrettyKey("Already Pretty"))
}

func TestFormatString(t *testing.T) {
	set := New()
	set.Add("first_name", "Jane")
	set.Add("email", "jane@example.com")

	assert.Equal(t, "First Name: Jane, Email: jane@example.com", set.FormatString())
}

func TestInlineKeepsRawKeys(t *testing.T) {
	set := New()
	set.Add("first_name", "Jane")

	assert.Equal(t, "first_name: Jane", set.Inline())
}

func TestWriteCSV(t *testing.T) {
	set := New()
	set.Add("first_name", "Jane")
	set.Add("email", "jane@example.com")

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, set.WriteCSV(path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Field", "Value"}, rows[0])
	assert.Equal(t, []string{"First Name", "Jane"}, rows[1])
	assert.Equal(t, []string{"Email", "jane@example.com"}, rows[2])
}
