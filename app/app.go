package app

import (
	"context"
	"database/sql"

	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/notify"
	"github.com/mbolis/quick-forms/store"
)

type App struct {
	*sql.DB
	Surveys  *store.Store
	Notifier notify.Notifier
	config.Config
}

// Approval is the outcome of approving a survey. NotifyErr is set when the
// recipient could not be notified; the approval itself stands.
type Approval struct {
	Survey    *model.Survey
	NotifyErr error
}

// ApproveSurvey approves a draft and then notifies its recipient.
func (app App) ApproveSurvey(ctx context.Context, id int64) (Approval, error) {
	survey, err := app.Surveys.Approve(ctx, id)
	if err != nil {
		return Approval{}, err
	}

	err = app.Notifier.Send(ctx, survey.RecipientEmail, survey.Title, survey.FormURL)
	if err != nil {
		log.Errorf("app.approve.notify: survey %d: %s", id, err)
		return Approval{Survey: survey, NotifyErr: err}, nil
	}
	return Approval{Survey: survey}, nil
}
