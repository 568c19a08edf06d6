package model

import (
	"database/sql/driver"
	"strings"

	json "github.com/goccy/go-json"
)

type QuestionKind string

const (
	FreeText     QuestionKind = "free_text"
	SingleChoice QuestionKind = "single_choice"
)

type Question struct {
	Text    string       `json:"text"`
	Kind    QuestionKind `json:"kind"`
	Options []string     `json:"options,omitempty"`
}

// Questions is the canonical, ordered question list of a survey.
// Order decides placement on the remote form.
type Questions []Question

// Value stores the list as a JSON array.
func (qs Questions) Value() (driver.Value, error) {
	if qs == nil {
		qs = Questions{}
	}
	data, err := json.Marshal(qs)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// SurveyKind is the survey-level question type chosen by the operator.
// It supplies the kind of question entries that do not state their own.
type SurveyKind string

const (
	KindFillup         SurveyKind = "fillup"
	KindMultipleChoice SurveyKind = "multiple_choice"
)

// ParseSurveyKind accepts the two known kinds; blank means fillup.
func ParseSurveyKind(s string) (SurveyKind, error) {
	switch SurveyKind(s) {
	case "":
		return KindFillup, nil
	case KindFillup, KindMultipleChoice:
		return SurveyKind(s), nil
	}
	return "", InvalidInput("question_kind", "unsupported question kind "+s)
}

func (k SurveyKind) QuestionKind() QuestionKind {
	if k == KindMultipleChoice {
		return SingleChoice
	}
	return FreeText
}

// Trimmed returns a copy with surrounding whitespace removed from texts and options.
func (qs Questions) Trimmed() Questions {
	out := make(Questions, len(qs))
	for i, q := range qs {
		q.Text = strings.TrimSpace(q.Text)
		if q.Options != nil {
			opts := make([]string, len(q.Options))
			for j, o := range q.Options {
				opts[j] = strings.TrimSpace(o)
			}
			q.Options = opts
		}
		out[i] = q
	}
	return out
}
