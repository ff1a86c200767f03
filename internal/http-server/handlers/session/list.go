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

func ListSessions(log *slog.Logger, handler Core) http.HandlerFunc {
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

		sessions, err := handler.ActiveSessions(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list sessions", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to list sessions: %v", err)))
			return
		}

		logger.Debug("sessions listed",
			slog.Int64("user_id", userID),
			slog.Int("count", len(sessions)),
		)
		render.JSON(w, r, response.Ok(sessions))
	}
}
