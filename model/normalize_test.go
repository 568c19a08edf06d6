package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuestions_RoundTrip(t *testing.T) {
	lists := []Questions{
		{},
		{{Text: "How are you?", Kind: FreeText}},
		{
			{Text: "Rate us", Kind: SingleChoice, Options: []string{"Good", "Bad"}},
			{Text: "Anything else?", Kind: FreeText},
			{Text: "Again?", Kind: SingleChoice, Options: []string{"Yes", "yes", "No"}},
		},
	}

	for _, canonical := range lists {
		encoded, err := json.Marshal(canonical)
		require.NoError(t, err)

		got := NormalizeQuestions(string(encoded))
		if diff := cmp.Diff(canonical, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestNormalizeQuestions_StoredValueRoundTrip(t *testing.T) {
	canonical := Questions{
		{Text: "Rate us", Kind: SingleChoice, Options: []string{"Good", "Bad"}},
		{Text: "Why?", Kind: FreeText},
	}
	v, err := canonical.Value()
	require.NoError(t, err)

	if diff := cmp.Diff(canonical, NormalizeQuestions(v)); diff != "" {
		t.Errorf("stored value mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeQuestions_NewlineLegacy(t *testing.T) {
	got := NormalizeQuestions("Q1?\nQ2?")
	assert.Equal(t, Questions{
		{Text: "Q1?", Kind: FreeText},
		{Text: "Q2?", Kind: FreeText},
	}, got)
}

func TestNormalizeQuestions_LegacyBlockTrimsAndDropsBlanks(t *testing.T) {
	got := NormalizeQuestions("  First  \r\n\n   \nSecond\n")
	assert.Equal(t, Questions{
		{Text: "First", Kind: FreeText},
		{Text: "Second", Kind: FreeText},
	}, got)
}

func TestNormalizeQuestions_BrokenJSONFallsBackToLines(t *testing.T) {
	got := NormalizeQuestions("[not json\nsecond line")
	assert.Equal(t, Questions{
		{Text: "[not json", Kind: FreeText},
		{Text: "second line", Kind: FreeText},
	}, got)
}

func TestNormalizeQuestions_Empty(t *testing.T) {
	for _, raw := range []any{nil, "", "   \n\n", "[]", 42, []any{7, true}} {
		got := NormalizeQuestions(raw)
		assert.NotNil(t, got, "%#v", raw)
		assert.Empty(t, got, "%#v", raw)
	}
}

func TestNormalizeQuestions_LegacyEntries(t *testing.T) {
	raw := `[
		{"text": "Name?", "options": null},
		{"text": "Pick", "type": "multiple_choice", "options": ["a", "b"]},
		{"text": "Short", "type": "short_answer"},
		{"text": "Odd", "kind": "scale"}
	]`
	got := NormalizeQuestions(raw)
	assert.Equal(t, Questions{
		{Text: "Name?", Kind: FreeText},
		{Text: "Pick", Kind: SingleChoice, Options: []string{"a", "b"}},
		{Text: "Short", Kind: FreeText},
		{Text: "Odd", Kind: "scale"},
	}, got)
}

func TestNormalizeQuestionsAs_DefaultKind(t *testing.T) {
	raw := []any{
		map[string]any{"text": "Color?", "options": []any{"red", "blue"}},
		"Comments",
	}
	got := NormalizeQuestionsAs(raw, SingleChoice)
	assert.Equal(t, Questions{
		{Text: "Color?", Kind: SingleChoice, Options: []string{"red", "blue"}},
		{Text: "Comments", Kind: FreeText},
	}, got)
}

func TestNormalizeQuestions_PassThroughDoesNotAlias(t *testing.T) {
	in := []Question{{Text: "x", Options: []string{}}, {Text: "y", Kind: SingleChoice, Options: []string{"1", "2"}}}
	got := NormalizeQuestions(in)
	require.Len(t, got, 2)
	assert.Equal(t, FreeText, got[0].Kind)
	assert.Nil(t, got[0].Options)

	got[1].Options[0] = "changed"
	assert.Equal(t, "1", in[1].Options[0])
}

func TestNormalizeQuestions_StringSlice(t *testing.T) {
	got := NormalizeQuestions([]string{"Question 1?", " ", "Question 2?"})
	assert.Equal(t, Questions{
		{Text: "Question 1?", Kind: FreeText},
		{Text: "Question 2?", Kind: FreeText},
	}, got)
}
