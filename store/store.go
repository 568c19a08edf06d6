package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

var reEmail = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Builder creates the remote form of a survey.
type Builder interface {
	Build(ctx context.Context, title string, questions model.Questions) (forms.Form, error)
}

// Store persists surveys. Inserts and status transitions are serialized by a
// store-wide lock; remote form creation runs outside of it.
type Store struct {
	db      *sql.DB
	builder Builder
	now     func() time.Time

	mu sync.Mutex
}

func New(db *sql.DB, builder Builder) *Store {
	return &Store{
		db:      db,
		builder: builder,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create normalizes and validates the definition, creates the remote form and
// only then writes the survey, as a draft. When the remote form cannot be
// created nothing is written.
func (s *Store) Create(ctx context.Context, in model.NewSurvey) (*model.Survey, error) {
	kind, err := model.ParseSurveyKind(strings.TrimSpace(in.QuestionKind))
	if err != nil {
		return nil, err
	}
	recipient := strings.TrimSpace(in.RecipientEmail)
	if !reEmail.MatchString(recipient) {
		return nil, model.InvalidInput("recipient_email", fmt.Sprintf("invalid email address %q", in.RecipientEmail))
	}

	survey := &model.Survey{
		Title:          strings.TrimSpace(in.Title),
		QuestionKind:   kind,
		Questions:      model.NormalizeQuestionsAs(in.Questions, kind.QuestionKind()).Trimmed(),
		RecipientEmail: recipient,
		Status:         model.StatusDraft,
	}

	form, err := s.builder.Build(ctx, survey.Title, survey.Questions)
	if err != nil {
		return nil, err
	}
	survey.FormID = form.ID
	survey.FormURL = form.URL
	survey.CreatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO survey (
			title, question_kind, questions, recipient_email,
			remote_form_id, remote_form_url, status, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		survey.Title,
		survey.QuestionKind,
		survey.Questions,
		survey.RecipientEmail,
		survey.FormID,
		survey.FormURL,
		survey.Status,
		survey.CreatedAt.Format(time.RFC3339Nano),
	).Scan(&survey.ID)
	if err != nil {
		// the remote form exists but has no local record
		log.Errorf("store.create.insert: form %s orphaned: %s", survey.FormID, err)
		return nil, fmt.Errorf("store.create.insert: %w", err)
	}

	log.WithFields(log.Fields{"id": survey.ID, "form_id": survey.FormID}).Info("store.create")
	return survey, nil
}

const selectSurvey = `
	SELECT
		id, title, question_kind, questions, recipient_email,
		remote_form_id, remote_form_url, status, created_at
	FROM survey`

// GetByID returns nil, nil when no survey has that id. Deleted surveys are returned.
func (s *Store) GetByID(ctx context.Context, id int64) (*model.Survey, error) {
	row := s.db.QueryRowContext(ctx, selectSurvey+` WHERE id = ?`, id)
	survey, err := scanSurvey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.get_by_id: %w", err)
	}
	return survey, nil
}

// GetAll lists surveys that are not deleted, most recent first. A non-empty
// status restricts the listing to that status.
func (s *Store) GetAll(ctx context.Context, status model.Status) ([]*model.Survey, error) {
	if status == model.StatusDeleted {
		return []*model.Survey{}, nil
	}

	query := selectSurvey + ` WHERE status <> ?`
	args := []any{model.StatusDeleted}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store.get_all: %w", err)
	}
	defer rows.Close()

	surveys := []*model.Survey{}
	for rows.Next() {
		survey, err := scanSurvey(rows)
		if err != nil {
			return nil, fmt.Errorf("store.get_all.scan: %w", err)
		}
		surveys = append(surveys, survey)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store.get_all: %w", err)
	}
	return surveys, nil
}

// Approve moves a draft to approved. Any other current status is an invalid transition.
func (s *Store) Approve(ctx context.Context, id int64) (*model.Survey, error) {
	return s.transition(ctx, id, model.StatusApproved)
}

// Delete soft-deletes a survey. Deleting an already deleted survey succeeds.
func (s *Store) Delete(ctx context.Context, id int64) (*model.Survey, error) {
	return s.transition(ctx, id, model.StatusDeleted)
}

func (s *Store) transition(ctx context.Context, id int64, to model.Status) (*model.Survey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store.transition.begin_tx: %w", err)
	}
	defer tx.Rollback()

	survey, err := scanSurvey(tx.QueryRowContext(ctx, selectSurvey+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &model.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("store.transition.get: %w", err)
	}

	from := survey.Status
	if from == to && to == model.StatusDeleted {
		return survey, nil
	}
	if !from.CanTransition(to) {
		return nil, &model.TransitionError{ID: id, From: from, To: to}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE survey
		SET status = ?
		WHERE id = ?
			AND status = ?`,
		to,
		id,
		from,
	)
	if err != nil {
		return nil, fmt.Errorf("store.transition.update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("store.transition.verify: %w", err)
	}
	if n < 1 {
		return nil, &model.TransitionError{ID: id, From: from, To: to}
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("store.transition.commit: %w", err)
	}

	log.Infof("store.transition: survey %d %s -> %s", id, from, to)
	survey.Status = to
	return survey, nil
}

type scanner interface {
	Scan(dest ...any) error
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
}

func scanSurvey(row scanner) (*model.Survey, error) {
	var (
		survey    model.Survey
		kind      sql.NullString
		questions sql.NullString
		status    string
		createdAt sql.NullString
	)
	err := row.Scan(
		&survey.ID, &survey.Title, &kind, &questions, &survey.RecipientEmail,
		&survey.FormID, &survey.FormURL, &status, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	survey.QuestionKind, err = model.ParseSurveyKind(kind.String)
	if err != nil {
		log.Warnf("store.scan: survey %d: %s", survey.ID, err)
		survey.QuestionKind = model.KindFillup
	}

	var raw any
	if questions.Valid {
		raw = questions.String
	}
	survey.Questions = model.NormalizeQuestionsAs(raw, survey.QuestionKind.QuestionKind())

	survey.Status, err = model.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	survey.CreatedAt = parseCreatedAt(createdAt.String)
	return &survey, nil
}

func parseCreatedAt(s string) time.Time {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
