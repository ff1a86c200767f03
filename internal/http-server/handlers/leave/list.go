package leave

import (
	"StaffDesk/internal/lib/api/response"
	"StaffDesk/internal/lib/sl"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func ListRequests(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.leave")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("leave service not available")
			render.JSON(w, r, response.Error("leave service not available"))
			return
		}

		status := r.URL.Query().Get("status")

		requests, err := handler.ListLeaveRequests(r.Context(), status)
		if err != nil {
			logger.Error("failed to list leave requests", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to list leave requests: %v", err)))
			return
		}

		logger.Debug("leave requests listed", slog.Int("count", len(requests)))
		render.JSON(w, r, response.Ok(requests))
	}
}
