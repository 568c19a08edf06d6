package model

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusDeleted  Status = "deleted"
)

// transitions lists, for each status, the statuses it may move to.
// Re-approving an approved survey is not allowed.
var transitions = map[Status][]Status{
	StatusDraft:    {StatusApproved, StatusDeleted},
	StatusApproved: {StatusDeleted},
	StatusDeleted:  nil,
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("unknown survey status %q", s)
	}
	return status, nil
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

type Survey struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	QuestionKind   SurveyKind `json:"question_kind"`
	Questions      Questions  `json:"questions"`
	RecipientEmail string     `json:"recipient_email"`
	FormID         string     `json:"form_id"`
	FormURL        string     `json:"form_url"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewSurvey is what an operator submits. Questions may be in any shape the
// normalizer accepts.
type NewSurvey struct {
	Title          string `json:"title" yaml:"title"`
	QuestionKind   string `json:"question_kind" yaml:"question_kind"`
	Questions      any    `json:"questions" yaml:"questions"`
	RecipientEmail string `json:"recipient_email" yaml:"recipient_email"`
}
