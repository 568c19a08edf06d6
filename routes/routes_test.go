package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/forms/formstest"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/store"
)

type stubNotifier struct {
	err error
}

func (n stubNotifier) Send(ctx context.Context, recipient, title, formURL string) error {
	return n.err
}

func setup(t *testing.T, notifyErr error) (http.Handler, *formstest.API) {
	t.Helper()
	log.SetOutput(io.Discard)

	db, err := database.Open(config.Config{DBUrl: filepath.Join(t.TempDir(), "routes.sqlite")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	api := formstest.New()
	a := app.App{
		DB:       db,
		Surveys:  store.New(db, forms.NewBuilder(api, "")),
		Notifier: stubNotifier{notifyErr},
	}
	return Wire(a), api
}

func do(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		data, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

var satisfaction = map[string]any{
	"title":         "Satisfaction",
	"question_type": "multiple_choice",
	"questions": []any{
		map[string]any{"text": "Rate us", "options": []string{"Good", "Bad"}},
	},
	"recipient_email": "a@b.com",
}

func TestCreateAndGetSurvey(t *testing.T) {
	h, _ := setup(t, nil)

	w := do(h, http.MethodPost, "/api/surveys", satisfaction)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.Survey](t, w)
	assert.Equal(t, model.StatusDraft, created.Status)
	assert.Equal(t, model.KindMultipleChoice, created.QuestionKind)
	assert.Equal(t, model.SingleChoice, created.Questions[0].Kind)
	assert.NotEmpty(t, created.FormURL)

	w = do(h, http.MethodGet, "/api/surveys/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.FormURL, decode[model.Survey](t, w).FormURL)

	w = do(h, http.MethodGet, "/api/surveys/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSurvey_InvalidInput(t *testing.T) {
	h, api := setup(t, nil)

	w := do(h, http.MethodPost, "/api/surveys", map[string]any{
		"title":           "Dup",
		"question_kind":   "multiple_choice",
		"questions":       []any{map[string]any{"text": "Pick", "options": []string{"Yes", "Yes"}}},
		"recipient_email": "a@b.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, "invalid_input", resp["kind"])
	assert.Equal(t, "questions[0].options[1]", resp["field"])
	assert.Zero(t, api.CallCount())
}

func TestCreateSurvey_PartialCreation(t *testing.T) {
	h, api := setup(t, nil)
	api.FailAt = 1

	w := do(h, http.MethodPost, "/api/surveys", map[string]any{
		"title":           "T",
		"questions":       "Q1\nQ2\nQ3",
		"recipient_email": "a@b.com",
	})
	require.Equal(t, http.StatusBadGateway, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, "partial_creation", resp["kind"])
	assert.Equal(t, "form-1", resp["form_id"])

	w = do(h, http.MethodGet, "/api/surveys", nil)
	assert.Empty(t, decode[map[string][]model.Survey](t, w)["surveys"])
}

func TestCreateSurvey_MultipartFile(t *testing.T) {
	h, _ := setup(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("title", "Uploaded")
	mw.WriteField("recipient_email", "a@b.com")
	mw.WriteField("question_type", "fillup")
	fw, err := mw.CreateFormFile("questions_file", "questions.txt")
	require.NoError(t, err)
	io.WriteString(fw, "First?\n\nSecond?\n")
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/surveys", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.Survey](t, w)
	assert.Equal(t, model.Questions{
		{Text: "First?", Kind: model.FreeText},
		{Text: "Second?", Kind: model.FreeText},
	}, created.Questions)
}

func TestCreateSurvey_MultipartRejectsNonText(t *testing.T) {
	h, _ := setup(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("title", "Uploaded")
	mw.WriteField("recipient_email", "a@b.com")
	fw, _ := mw.CreateFormFile("questions_file", "questions.csv")
	io.WriteString(fw, "First?")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/surveys", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApproveListDelete(t *testing.T) {
	h, _ := setup(t, nil)

	for _, title := range []string{"A", "B", "C"} {
		s := map[string]any{"title": title, "questions": "Q?", "recipient_email": "a@b.com"}
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/surveys", s).Code)
	}

	w := do(h, http.MethodPost, "/api/surveys/1/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	approved := decode[map[string]any](t, w)
	assert.Equal(t, true, approved["notified"])

	w = do(h, http.MethodPost, "/api/surveys/1/approve", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(h, http.MethodDelete, "/api/surveys/2", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(h, http.MethodDelete, "/api/surveys/2", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(h, http.MethodDelete, "/api/surveys/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(h, http.MethodGet, "/api/surveys/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[map[string][]model.Survey](t, w)["surveys"]
	require.Len(t, list, 2)
	assert.Equal(t, "C", list[0].Title)
	assert.Equal(t, "A", list[1].Title)

	w = do(h, http.MethodGet, "/api/surveys?status=approved", nil)
	list = decode[map[string][]model.Survey](t, w)["surveys"]
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Title)

	w = do(h, http.MethodGet, "/api/surveys?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApprove_NotificationFailureIsReported(t *testing.T) {
	h, _ := setup(t, &model.NotificationError{Recipient: "a@b.com", Err: errors.New("smtp down")})

	s := map[string]any{"title": "A", "questions": "Q?", "recipient_email": "a@b.com"}
	require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/surveys", s).Code)

	w := do(h, http.MethodPost, "/api/surveys/1/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, false, resp["notified"])
	assert.Contains(t, resp["notification_error"], "smtp down")
	assert.Equal(t, "approved", resp["survey"].(map[string]any)["status"])
}

func TestHealth(t *testing.T) {
	h, _ := setup(t, nil)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", nil).Code)
}
