package wiki

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInfoboxKeepsFirstPositionAndLastValue(t *testing.T) {
	t.Parallel()

	var box Infobox
	box.Set("Born", "1950")
	box.Set("Died", "2020")
	box.Set("Born", "1951")

	require.Equal(t, 2, box.Len())
	require.Equal(t, []string{"Born", "Died"}, box.Labels())
	got, ok := box.Get("Born")
	require.True(t, ok)
	require.Equal(t, "1951", got)

	_, ok = box.Get("Spouse")
	require.False(t, ok)
}

func TestInfoboxFactsIsACopy(t *testing.T) {
	t.Parallel()

	var box Infobox
	box.Set("Capital", "Jakarta")
	facts := box.Facts()
	facts[0].Value = "changed"

	got, _ := box.Get("Capital")
	require.Equal(t, "Jakarta", got)
}

func TestInfoboxMarshalJSON(t *testing.T) {
	t.Parallel()

	var empty Infobox
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(raw))

	var box Infobox
	box.Set("Type", "Programming language")
	box.Set("Designed by", "Griesemer & Pike")
	box.Set("Age", "<15")
	box.Set("Type", "Systems language")

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(box))
	require.Equal(t, `{"Type":"Systems language","Designed by":"Griesemer & Pike","Age":"<15"}`+"\n", buf.String())
}

func TestArticleRecordJSONShape(t *testing.T) {
	t.Parallel()

	rec := ArticleRecord{
		URL:        "https://en.wikipedia.org/wiki/Go",
		Title:      "Go",
		Categories: []string{"Languages"},
		References: 3,
	}
	rec.Infobox.Set("Paradigm", "Concurrent")

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "Go", decoded["title"])
	require.EqualValues(t, 3, decoded["references"])
	require.Equal(t, map[string]any{"Paradigm": "Concurrent"}, decoded["infobox"])
	require.Contains(t, decoded, "summary")
	require.Contains(t, decoded, "content")
}

func TestSessionCloneIsDeep(t *testing.T) {
	t.Parallel()

	s := NewSession()
	require.Equal(t, DefaultLanguage, s.Language)
	require.NotNil(t, s.Bookmarks)
	require.Zero(t, s.Searches)

	s.Bookmarks = append(s.Bookmarks, "Go")
	cp := s.Clone()
	cp.Bookmarks[0] = "Rust"
	require.Equal(t, "Go", s.Bookmarks[0])
}
