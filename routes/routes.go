package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, httpx.RequestLogger, middleware.Recoverer, middleware.StripSlashes)

	root.Get("/healthz", Health(app))
	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/surveys", CreateSurvey(app))
	api.Get("/surveys", ListSurveys(app))
	api.Get(`/surveys/{id:^\d+$}`, GetSurveyById(app))
	api.Post(`/surveys/{id:^\d+$}/approve`, ApproveSurvey(app))
	api.Delete(`/surveys/{id:^\d+$}`, DeleteSurvey(app))

	return api
}

func Health(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := app.PingContext(r.Context()); err != nil {
			httpx.LogInternalError(w, "health.db_ping", err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
