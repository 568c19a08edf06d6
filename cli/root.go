package cli

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/notify"
	"github.com/mbolis/quick-forms/store"
)

// NewRootCmd builds the qsurvey command tree. Every invocation gets its own
// Config so commands can be executed repeatedly, e.g. from tests.
func NewRootCmd() *cobra.Command {
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:   "qsurvey",
		Short: "Create surveys as remote forms and notify their recipients",
		Long: `qsurvey turns a list of questions into a remote form, keeps track of it
as a draft, and emails the recipient once the survey is approved.

Run "qsurvey serve" to expose the HTTP API, or use the survey subcommands
to work on the local database directly.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Resolve(); err != nil {
				return err
			}
			if cfg.Debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}
	cfg.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newServeCmd(cfg), newSurveyCmd(cfg))
	return root
}

func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// buildApp opens the database and picks the forms provider and the notifier
// from the configuration. The returned func releases the database.
func buildApp(ctx context.Context, cfg config.Config) (app.App, func(), error) {
	db, err := database.Open(cfg)
	if err != nil {
		return app.App{}, nil, err
	}

	api, err := formsAPI(ctx, cfg)
	if err != nil {
		db.Close()
		return app.App{}, nil, err
	}

	n, err := notifier(cfg)
	if err != nil {
		db.Close()
		return app.App{}, nil, err
	}

	a := app.App{
		DB:       db,
		Surveys:  store.New(db, forms.NewBuilder(api, cfg.FormURLTemplate)),
		Notifier: n,
		Config:   cfg,
	}
	return a, closeDB(db), nil
}

func formsAPI(ctx context.Context, cfg config.Config) (forms.API, error) {
	if cfg.FormsCredentialsFile == "" {
		log.Debug("cli.forms: no credentials, using dry run provider")
		return forms.DryRunAPI{}, nil
	}
	return forms.NewGoogleAPI(ctx, cfg.FormsCredentialsFile)
}

func notifier(cfg config.Config) (notify.Notifier, error) {
	if cfg.SMTPHost == "" {
		log.Debug("cli.notify: no SMTP host, notifications are only logged")
		return notify.LogNotifier{}, nil
	}
	m, err := notify.NewMailer(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "cli.notify.mailer")
	}
	return m, nil
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Warn("cli.db.close:", err)
		}
	}
}
