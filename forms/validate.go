package forms

import (
	"fmt"
	"strings"

	"github.com/mbolis/quick-forms/model"
)

// Validate checks a form definition before anything is sent to the provider.
// It stops at the first problem, scanning questions in order.
func Validate(title string, questions model.Questions) error {
	if strings.TrimSpace(title) == "" {
		return model.InvalidInput("title", "empty title")
	}
	if len(questions) == 0 {
		return model.InvalidInput("questions", "no questions")
	}
	for i, q := range questions {
		if err := validateQuestion(i, q); err != nil {
			return err
		}
	}
	return nil
}

func validateQuestion(i int, q model.Question) error {
	field := fmt.Sprintf("questions[%d]", i)

	if strings.TrimSpace(q.Text) == "" {
		return model.InvalidInput(field+".text", "empty question text")
	}

	switch q.Kind {
	case model.FreeText:
		if len(q.Options) > 0 {
			return model.InvalidInput(field+".options", "free-text question cannot have options")
		}
	case model.SingleChoice:
		if len(q.Options) < 2 {
			return model.InvalidInput(field+".options",
				fmt.Sprintf("single-choice question needs at least 2 options, got %d", len(q.Options)))
		}
		seen := make(map[string]int, len(q.Options))
		for j, opt := range q.Options {
			opt = strings.TrimSpace(opt)
			if opt == "" {
				return model.InvalidInput(fmt.Sprintf("%s.options[%d]", field, j), "empty option")
			}
			if prev, dup := seen[opt]; dup {
				return model.InvalidInput(fmt.Sprintf("%s.options[%d]", field, j),
					fmt.Sprintf("duplicate option %q (same as options[%d])", opt, prev))
			}
			seen[opt] = j
		}
	default:
		return model.InvalidInput(field+".kind", fmt.Sprintf("unsupported question kind %q", q.Kind))
	}
	return nil
}
