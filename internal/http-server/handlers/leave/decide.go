package leave

import (
	"StaffDesk/entity"
	"StaffDesk/internal/lib/api/response"
	"StaffDesk/internal/lib/sl"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type DecideRequest struct {
	UUID   string `json:"uuid"`
	Status string `json:"status"`
}

// DecideRequests approves or rejects a pending leave request.
func DecideRequests(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var req DecideRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if req.UUID == "" {
			render.JSON(w, r, response.Error("uuid is required"))
			return
		}
		if req.Status != entity.LeaveApproved && req.Status != entity.LeaveRejected {
			render.JSON(w, r, response.Error("status must be approved or rejected"))
			return
		}

		if err := handler.DecideLeave(r.Context(), req.UUID, req.Status); err != nil {
			logger.Error("failed to decide leave request", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to decide leave request: %v", err)))
			return
		}

		logger.Debug("leave request decided",
			slog.String("uuid", req.UUID),
			slog.String("status", req.Status),
		)
		render.JSON(w, r, response.Ok(nil))
	}
}
