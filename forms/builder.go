package forms

import (
	"context"
	"strings"

	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

// DefaultURLTemplate points to the Google Forms editor.
const DefaultURLTemplate = "https://docs.google.com/forms/d/{form_id}/edit"

type ItemKind string

const (
	ShortAnswer       ItemKind = "short_answer"
	SingleChoiceRadio ItemKind = "single_choice"
)

// Item is a single question as the provider receives it.
type Item struct {
	Kind    ItemKind
	Text    string
	Options []string
}

// API is the remote forms provider.
type API interface {
	CreateForm(ctx context.Context, title string) (formID string, err error)
	InsertItem(ctx context.Context, formID string, position int, item Item) error
}

type Form struct {
	ID  string
	URL string
}

// Builder turns a validated question list into a remote form.
type Builder struct {
	api         API
	urlTemplate string
}

func NewBuilder(api API, urlTemplate string) *Builder {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	return &Builder{api: api, urlTemplate: urlTemplate}
}

// URL derives the viewable address of a form from its id alone.
func (b *Builder) URL(formID string) string {
	return strings.ReplaceAll(b.urlTemplate, "{form_id}", formID)
}

// Build validates the definition, creates the form and inserts one item per
// question in list order. Items already inserted are not removed when a later
// insertion fails; the returned *model.RemoteError then reports a partial creation.
func (b *Builder) Build(ctx context.Context, title string, questions model.Questions) (Form, error) {
	if err := Validate(title, questions); err != nil {
		return Form{}, err
	}

	formID, err := b.api.CreateForm(ctx, title)
	if err != nil {
		log.Errorf("forms.create_form: %s", err)
		return Form{}, &model.RemoteError{Call: "create_form", Err: err}
	}
	log.WithFields(log.Fields{"form_id": formID, "title": title}).Info("forms.create_form")

	for i, q := range questions {
		err = b.api.InsertItem(ctx, formID, i, itemFor(q))
		if err != nil {
			rerr := &model.RemoteError{Call: "insert_item", FormID: formID, Position: i, Inserted: i, Err: err}
			log.Errorf("forms.insert_item: %s", rerr)
			return Form{}, rerr
		}
		log.Debugf("forms.insert_item: form %s position %d: %s", formID, i, q.Text)
	}

	return Form{ID: formID, URL: b.URL(formID)}, nil
}

func itemFor(q model.Question) Item {
	if q.Kind == model.SingleChoice {
		return Item{Kind: SingleChoiceRadio, Text: q.Text, Options: q.Options}
	}
	return Item{Kind: ShortAnswer, Text: q.Text}
}
