package forms

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	formsapi "google.golang.org/api/forms/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var googleScopes = []string{
	"https://www.googleapis.com/auth/forms.body",
	"https://www.googleapis.com/auth/drive",
}

// GoogleAPI talks to the Google Forms v1 REST API.
type GoogleAPI struct {
	srv *formsapi.Service
}

// NewGoogleAPI loads a service-account or authorized-user JSON credentials file.
// Token refresh is left to the oauth2 token source.
func NewGoogleAPI(ctx context.Context, credentialsFile string) (*GoogleAPI, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "forms.google.read_credentials")
	}
	creds, err := google.CredentialsFromJSON(ctx, data, googleScopes...)
	if err != nil {
		return nil, errors.Wrap(err, "forms.google.parse_credentials")
	}
	return newGoogleAPI(ctx, option.WithTokenSource(creds.TokenSource))
}

func newGoogleAPI(ctx context.Context, opts ...option.ClientOption) (*GoogleAPI, error) {
	srv, err := formsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "forms.google.new_service")
	}
	return &GoogleAPI{srv: srv}, nil
}

func (g *GoogleAPI) CreateForm(ctx context.Context, title string) (string, error) {
	form, err := g.srv.Forms.Create(&formsapi.Form{
		Info: &formsapi.Info{
			Title:         title,
			DocumentTitle: title,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", describe(err)
	}
	if form.FormId == "" {
		return "", errors.New("google forms: create returned no form id")
	}
	return form.FormId, nil
}

func (g *GoogleAPI) InsertItem(ctx context.Context, formID string, position int, item Item) error {
	question := &formsapi.Question{Required: false}
	switch item.Kind {
	case ShortAnswer:
		question.TextQuestion = &formsapi.TextQuestion{Paragraph: false}
	case SingleChoiceRadio:
		opts := make([]*formsapi.Option, len(item.Options))
		for i, o := range item.Options {
			opts[i] = &formsapi.Option{Value: o}
		}
		question.ChoiceQuestion = &formsapi.ChoiceQuestion{Type: "RADIO", Options: opts}
	default:
		return fmt.Errorf("google forms: unsupported item kind %q", item.Kind)
	}

	req := &formsapi.BatchUpdateFormRequest{
		Requests: []*formsapi.Request{{
			CreateItem: &formsapi.CreateItemRequest{
				Item: &formsapi.Item{
					Title:        item.Text,
					QuestionItem: &formsapi.QuestionItem{Question: question},
				},
				// index 0 is the zero value and would otherwise be dropped
				Location: &formsapi.Location{Index: int64(position), ForceSendFields: []string{"Index"}},
			},
		}},
	}
	_, err := g.srv.Forms.BatchUpdate(formID, req).Context(ctx).Do()
	if err != nil {
		return describe(err)
	}
	return nil
}

func describe(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return fmt.Errorf("google forms: HTTP %d: %s", gerr.Code, gerr.Message)
	}
	return errors.Wrap(err, "google forms")
}
