package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/model"
)

// surveyFile is the YAML form of a survey definition:
//
//	title: Satisfaction
//	question_kind: multiple_choice
//	recipient_email: team@example.com
//	questions:
//	  - text: How was it?
//	    options: [Good, Bad]
//
// questions may also be a block of text, one question per line.
type surveyFile struct {
	model.NewSurvey `yaml:",inline"`
	QuestionType    string `yaml:"question_type"`
}

func parseSurveyFile(r io.Reader) (model.NewSurvey, error) {
	var f surveyFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return model.NewSurvey{}, model.InvalidInput("file", "empty survey definition")
		}
		return model.NewSurvey{}, model.InvalidInput("file", err.Error())
	}
	if f.QuestionKind == "" {
		f.QuestionKind = f.QuestionType
	}
	return f.NewSurvey, nil
}

func newSurveyCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Manage surveys in the local database",
	}
	cmd.AddCommand(
		newSurveyCreateCmd(cfg),
		newSurveyListCmd(cfg),
		newSurveyShowCmd(cfg),
		newSurveyApproveCmd(cfg),
		newSurveyDeleteCmd(cfg),
	)
	return cmd
}

func newSurveyCreateCmd(cfg *config.Config) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create -f FILE",
		Short: "Create a draft survey and its remote form from a YAML file",
		Long: `Creates a draft survey from a YAML definition. Use "-f -" to read it
from standard input.`,
		Args: cobra.NoArgs,
		RunE: withApp(cfg, func(cmd *cobra.Command, a app.App, args []string) error {
			in, err := readSurveyFile(cmd, file)
			if err != nil {
				return err
			}
			survey, err := a.Surveys.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd, survey)
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "survey definition (YAML)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func readSurveyFile(cmd *cobra.Command, file string) (model.NewSurvey, error) {
	if file == "-" {
		return parseSurveyFile(cmd.InOrStdin())
	}
	f, err := os.Open(file)
	if err != nil {
		return model.NewSurvey{}, err
	}
	defer f.Close()
	return parseSurveyFile(f)
}

func newSurveyListCmd(cfg *config.Config) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List surveys that are not deleted, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(cfg, func(cmd *cobra.Command, a app.App, args []string) error {
			var filter model.Status
			if status != "" {
				var err error
				if filter, err = model.ParseStatus(status); err != nil {
					return err
				}
			}
			surveys, err := a.Surveys.GetAll(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(cmd, surveys)
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "only list surveys in this status (draft, approved)")
	return cmd
}

func newSurveyShowCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one survey",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(cfg, func(cmd *cobra.Command, a app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			survey, err := a.Surveys.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if survey == nil {
				return &model.NotFoundError{ID: id}
			}
			return printJSON(cmd, survey)
		}),
	}
}

func newSurveyApproveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "approve ID",
		Short: "Approve a draft survey and notify its recipient",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(cfg, func(cmd *cobra.Command, a app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.ApproveSurvey(cmd.Context(), id)
			if err != nil {
				return err
			}
			if res.NotifyErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "approved, but notification failed: %s\n", res.NotifyErr)
			}
			return printJSON(cmd, res.Survey)
		}),
	}
}

func newSurveyDeleteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Soft-delete a survey",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(cfg, func(cmd *cobra.Command, a app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			survey, err := a.Surveys.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, survey)
		}),
	}
}

type appRunE func(cmd *cobra.Command, a app.App, args []string) error

func withApp(cfg *config.Config, run appRunE) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, release, err := buildApp(cmd.Context(), *cfg)
		if err != nil {
			return err
		}
		defer release()
		return run(cmd, a, args)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.InvalidInput("id", fmt.Sprintf("%q is not a survey id", s))
	}
	return id, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
