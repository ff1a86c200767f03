package employee

import (
	"StaffDesk/internal/lib/api/response"
	"StaffDesk/internal/lib/sl"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func ListEmployees(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.employee")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("employee service not available")
			render.JSON(w, r, response.Error("employee service not available"))
			return
		}

		department := r.URL.Query().Get("department")

		employees, err := handler.ListEmployees(r.Context(), department)
		if err != nil {
			logger.Error("failed to list employees", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Failed to list employees: %v", err)))
			return
		}

		logger.Debug("employees listed", slog.Int("count", len(employees)))
		render.JSON(w, r, response.Ok(employees))
	}
}
