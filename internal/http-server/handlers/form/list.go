package form

import (
	"StaffDesk/internal/lib/api/response"
	"StaffDesk/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func ListForms(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.form")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("form service not available")
			render.JSON(w, r, response.Error("form service not available"))
			return
		}

		forms := handler.ListForms()

		logger.Debug("forms listed", slog.Int("count", len(forms)))
		render.JSON(w, r, response.Ok(forms))
	}
}
