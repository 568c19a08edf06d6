package forms

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestGoogleAPI(t *testing.T, handler http.HandlerFunc) *GoogleAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api, err := newGoogleAPI(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return api
}

func TestGoogleAPI_CreateForm(t *testing.T) {
	var body map[string]any
	api := newTestGoogleAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/forms", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"formId": "abc123"}`)
	})

	id, err := api.CreateForm(context.Background(), "Satisfaction")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
	assert.Equal(t, map[string]any{"title": "Satisfaction", "documentTitle": "Satisfaction"}, body["info"])
}

func TestGoogleAPI_InsertItem(t *testing.T) {
	var body struct {
		Requests []struct {
			CreateItem struct {
				Item struct {
					Title        string `json:"title"`
					QuestionItem struct {
						Question struct {
							TextQuestion   *struct{} `json:"textQuestion"`
							ChoiceQuestion *struct {
								Type    string `json:"type"`
								Options []struct {
									Value string `json:"value"`
								} `json:"options"`
							} `json:"choiceQuestion"`
						} `json:"question"`
					} `json:"questionItem"`
				} `json:"item"`
				Location map[string]any `json:"location"`
			} `json:"createItem"`
		} `json:"requests"`
	}
	api := newTestGoogleAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forms/abc123:batchUpdate", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{}`)
	})

	err := api.InsertItem(context.Background(), "abc123", 0, Item{
		Kind: SingleChoiceRadio, Text: "Rate us", Options: []string{"Good", "Bad"},
	})
	require.NoError(t, err)

	require.Len(t, body.Requests, 1)
	ci := body.Requests[0].CreateItem
	assert.Equal(t, "Rate us", ci.Item.Title)
	assert.Contains(t, ci.Location, "index")
	q := ci.Item.QuestionItem.Question
	assert.Nil(t, q.TextQuestion)
	require.NotNil(t, q.ChoiceQuestion)
	assert.Equal(t, "RADIO", q.ChoiceQuestion.Type)
	require.Len(t, q.ChoiceQuestion.Options, 2)
	assert.Equal(t, "Bad", q.ChoiceQuestion.Options[1].Value)

	err = api.InsertItem(context.Background(), "abc123", 1, Item{Kind: ShortAnswer, Text: "Why?"})
	require.NoError(t, err)
	assert.NotNil(t, body.Requests[0].CreateItem.Item.QuestionItem.Question.TextQuestion)
}

func TestGoogleAPI_ErrorCarriesStatus(t *testing.T) {
	api := newTestGoogleAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error": {"code": 403, "message": "insufficient scopes"}}`)
	})

	_, err := api.CreateForm(context.Background(), "S")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
	assert.Contains(t, err.Error(), "insufficient scopes")
}
