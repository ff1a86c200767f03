package session

import (
	"StaffDesk/internal/lib/api/response"
	"StaffDesk/internal/lib/sl"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ViewSession returns the render payload of the session's current step.
func ViewSession(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.session")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("session service not available")
			render.JSON(w, r, response.Error("session service not available"))
			return
		}

		userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
		if err != nil {
			render.JSON(w, r, response.Error("invalid user_id"))
			return
		}
		formID := r.URL.Query().Get("form_id")
		if formID == "" {
			render.JSON(w, r, response.Error("form_id is required"))
			return
		}

		view, err := handler.SessionView(r.Context(), userID, formID)
		if err != nil {
			logger.Error("failed to get session view", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to get session: %v", err)))
			return
		}
		if view == nil {
			render.JSON(w, r, response.Error("session not found"))
			return
		}

		render.JSON(w, r, response.Ok(view))
	}
}
