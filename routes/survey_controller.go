package routes

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

const maxUploadSize = 1 << 20

type createSurveyRequest struct {
	model.NewSurvey
	QuestionType string `json:"question_type"`
}

type approveResponse struct {
	Survey            *model.Survey `json:"survey"`
	Notified          bool          `json:"notified"`
	NotificationError string        `json:"notification_error,omitempty"`
}

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeNewSurvey(r)
		if err != nil {
			httpx.LogError(w, r, "request.parse_body", err)
			return
		}

		survey, err := app.Surveys.Create(r.Context(), in)
		if err != nil {
			httpx.LogError(w, r, "create_survey", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, survey)
	}
}

// decodeNewSurvey reads either a JSON body or a multipart form whose questions
// come from an uploaded plain-text file, one question per line.
func decodeNewSurvey(r *http.Request) (model.NewSurvey, error) {
	if strings.HasPrefix(r.Header.Get("content-type"), "multipart/form-data") {
		return decodeMultipartSurvey(r)
	}

	req := createSurveyRequest{}
	err := render.DecodeJSON(r.Body, &req)
	if err != nil {
		return model.NewSurvey{}, model.InvalidInput("body", "malformed JSON: "+err.Error())
	}
	if req.QuestionKind == "" {
		req.QuestionKind = req.QuestionType
	}
	return req.NewSurvey, nil
}

func decodeMultipartSurvey(r *http.Request) (model.NewSurvey, error) {
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		return model.NewSurvey{}, model.InvalidInput("body", "malformed form: "+err.Error())
	}

	in := model.NewSurvey{
		Title:          r.FormValue("title"),
		QuestionKind:   r.FormValue("question_kind"),
		RecipientEmail: r.FormValue("recipient_email"),
	}
	if in.QuestionKind == "" {
		in.QuestionKind = r.FormValue("question_type")
	}

	// questions with options arrive as JSON next to the file
	if questions := r.FormValue("questions"); questions != "" {
		in.Questions = questions
		return in, nil
	}

	file, header, err := r.FormFile("questions_file")
	if err == http.ErrMissingFile {
		return in, nil
	}
	if err != nil {
		return model.NewSurvey{}, model.InvalidInput("questions_file", err.Error())
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".txt") {
		return model.NewSurvey{}, model.InvalidInput("questions_file", "please upload a .txt file")
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return model.NewSurvey{}, model.InvalidInput("questions_file", err.Error())
	}
	in.Questions = string(data)
	return in, nil
}

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status model.Status
		if s := r.URL.Query().Get("status"); s != "" {
			var err error
			status, err = model.ParseStatus(s)
			if err != nil {
				httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.query.status", "%s", err)
				return
			}
		}

		surveys, err := app.Surveys.GetAll(r.Context(), status)
		if err != nil {
			httpx.LogInternalError(w, "db.get_surveys", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func GetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, ok := surveyID(w, r)
		if !ok {
			return
		}

		survey, err := app.Surveys.GetByID(r.Context(), surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}
		if survey == nil {
			httpx.LogNotFound(w, "get_survey", surveyId)
			return
		}

		render.JSON(w, r, survey)
	}
}

func ApproveSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, ok := surveyID(w, r)
		if !ok {
			return
		}

		res, err := app.ApproveSurvey(r.Context(), surveyId)
		if err != nil {
			httpx.LogError(w, r, "approve_survey", err)
			return
		}

		resp := approveResponse{Survey: res.Survey, Notified: res.NotifyErr == nil}
		if res.NotifyErr != nil {
			resp.NotificationError = res.NotifyErr.Error()
		}
		render.JSON(w, r, resp)
	}
}

func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, ok := surveyID(w, r)
		if !ok {
			return
		}

		_, err := app.Surveys.Delete(r.Context(), surveyId)
		if err != nil {
			httpx.LogError(w, r, "delete_survey", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func surveyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id", "invalid survey id")
		return 0, false
	}
	return id, true
}
