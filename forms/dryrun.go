package forms

import (
	"context"

	"github.com/gofrs/uuid"

	"github.com/mbolis/quick-forms/log"
)

// DryRunAPI stands in for a real provider when no credentials are configured.
// Form ids are "mock-" followed by a random UUID; nothing leaves the process.
type DryRunAPI struct{}

func (DryRunAPI) CreateForm(ctx context.Context, title string) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	formID := "mock-" + id.String()
	log.Warnf("forms.dry_run: created %s (%q) without a provider", formID, title)
	return formID, nil
}

func (DryRunAPI) InsertItem(ctx context.Context, formID string, position int, item Item) error {
	log.Debugf("forms.dry_run: %s[%d] %s %q %v", formID, position, item.Kind, item.Text, item.Options)
	return nil
}
