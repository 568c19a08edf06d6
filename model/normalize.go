package model

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// NormalizeQuestions converts any accepted representation of a question list into
// canonical form. Entries without a kind become free-text questions.
func NormalizeQuestions(raw any) Questions {
	return NormalizeQuestionsAs(raw, FreeText)
}

// NormalizeQuestionsAs is NormalizeQuestions with a different default kind.
//
// Accepted inputs are structured lists ([]Question, decoded JSON or YAML arrays,
// []string), a JSON-encoded array, or a legacy newline-separated block where every
// non-blank line is a free-text question. It never fails: anything unreadable
// yields an empty list, so old records still load.
func NormalizeQuestionsAs(raw any, def QuestionKind) Questions {
	switch v := raw.(type) {
	case Questions:
		return passThrough(v, def)
	case []Question:
		return passThrough(v, def)
	case string:
		return normalizeText(v, def)
	case []byte:
		return normalizeText(string(v), def)
	case []string:
		return fromLines(v)
	case []any:
		return fromEntries(v, def)
	case []map[string]any:
		entries := make([]any, len(v))
		for i, m := range v {
			entries[i] = m
		}
		return fromEntries(entries, def)
	}
	return Questions{}
}

func passThrough(in []Question, def QuestionKind) Questions {
	out := make(Questions, len(in))
	for i, q := range in {
		if q.Kind == "" {
			q.Kind = def
		}
		if len(q.Options) == 0 {
			q.Options = nil
		} else {
			q.Options = append([]string(nil), q.Options...)
		}
		out[i] = q
	}
	return out
}

func normalizeText(s string, def QuestionKind) Questions {
	if strings.HasPrefix(strings.TrimSpace(s), "[") {
		var entries []any
		if err := json.Unmarshal([]byte(s), &entries); err == nil {
			return fromEntries(entries, def)
		}
	}
	return fromLines(strings.Split(s, "\n"))
}

func fromLines(lines []string) Questions {
	out := Questions{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, Question{Text: line, Kind: FreeText})
	}
	return out
}

func fromEntries(entries []any, def QuestionKind) Questions {
	out := Questions{}
	for _, e := range entries {
		switch v := e.(type) {
		case Question:
			out = append(out, passThrough([]Question{v}, def)...)
		case string:
			out = append(out, fromLines([]string{v})...)
		case map[string]any:
			out = append(out, fromMap(v, def))
		}
	}
	return out
}

func fromMap(m map[string]any, def QuestionKind) Question {
	q := Question{Text: asString(m["text"])}

	kind, ok := m["kind"]
	if !ok {
		kind = m["type"]
	}
	q.Kind = parseKind(asString(kind), def)

	switch opts := m["options"].(type) {
	case []any:
		for _, o := range opts {
			q.Options = append(q.Options, asString(o))
		}
	case []string:
		q.Options = append(q.Options, opts...)
	}
	return q
}

func parseKind(s string, def QuestionKind) QuestionKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def
	case string(FreeText), "short_answer", "fillup", "text":
		return FreeText
	case string(SingleChoice), "multiple_choice", "radio":
		return SingleChoice
	}
	// kept verbatim so validation can name it
	return QuestionKind(s)
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	}
	return fmt.Sprint(v)
}
