package api

import (
	"StaffDesk/internal/config"
	"StaffDesk/internal/http-server/handlers/employee"
	"StaffDesk/internal/http-server/handlers/errors"
	"StaffDesk/internal/http-server/handlers/form"
	"StaffDesk/internal/http-server/handlers/key"
	"StaffDesk/internal/http-server/handlers/leave"
	"StaffDesk/internal/http-server/handlers/session"
	"StaffDesk/internal/http-server/middleware/authenticate"
	"StaffDesk/internal/http-server/middleware/timeout"
	resp "StaffDesk/internal/lib/api/response"
	"StaffDesk/internal/lib/sl"
	"StaffDesk/internal/ws"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	ws.Authenticator
	form.Core
	session.Core
	employee.Core
	leave.Core
	key.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	// The websocket endpoint authenticates via query token and must stay
	// outside the JSON middleware chain.
	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, handler, log, w, r)
	})

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, resp.Ok(nil))
		})

		v1.Group(func(g chi.Router) {
			g.Use(timeout.Timeout(5))
			g.Use(render.SetContentType(render.ContentTypeJSON))
			g.Use(authenticate.New(log, handler))

			g.Route("/forms", func(r chi.Router) {
				r.Get("/", form.ListForms(log, handler))
			})
			g.Route("/sessions", func(r chi.Router) {
				r.Get("/", session.ListSessions(log, handler))
				r.Get("/view", session.ViewSession(log, handler))
				r.Post("/cancel", session.CancelSession(log, handler))
			})
			g.Route("/employees", func(r chi.Router) {
				r.Get("/", employee.ListEmployees(log, handler))
			})
			g.Route("/leave", func(r chi.Router) {
				r.Get("/", leave.ListRequests(log, handler))
				r.Post("/decide", leave.DecideRequests(log, handler))
			})
			g.Route("/key", func(r chi.Router) {
				r.Post("/new", key.Generate(log, handler))
			})
		})
	})

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
