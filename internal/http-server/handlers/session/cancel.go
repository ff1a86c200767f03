package session

import (
	"StaffDesk/internal/lib/api/response"
	"StaffDesk/internal/lib/sl"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type CancelRequest struct {
	UserID int64  `json:"user_id"`
	FormID string `json:"form_id"`
}

// CancelSession aborts one session; an empty form_id clears every session
// of the user.
func CancelSession(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var req CancelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if req.UserID == 0 {
			render.JSON(w, r, response.Error("user_id is required"))
			return
		}

		var err error
		if req.FormID == "" {
			err = handler.ClearSessions(r.Context(), req.UserID)
		} else {
			err = handler.CancelSession(r.Context(), req.UserID, req.FormID)
		}
		if err != nil {
			logger.Error("failed to cancel session", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to cancel session: %v", err)))
			return
		}

		logger.Debug("session cancelled",
			slog.Int64("user_id", req.UserID),
			slog.String("form_id", req.FormID),
		)
		render.JSON(w, r, response.Ok(nil))
	}
}
