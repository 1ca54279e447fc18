package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/locreview/discussions-service/internal/http/handlers"
	"github.com/locreview/discussions-service/internal/http/middleware"
	"github.com/locreview/discussions-service/internal/render"
	"github.com/locreview/discussions-service/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger     *slog.Logger
	Timeout    time.Duration
	AuthSecret string
	AuthIssuer string
	BasePath   string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, renderer *render.Renderer, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),          // безопасно ловим паники
		middleware.RequestID(),        // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger),
		middleware.Metrics(),
		middleware.AuthSession(opts.AuthSecret, opts.AuthIssuer), // сессия в контекст
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc, renderer)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех эндпойнтов панели.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// forum
	r.Get("/forum/{locale}", h.Forum)
	r.Get("/forum/{locale}/summary", h.Summary)
	r.Get("/forum/{locale}/threads", h.Threads)
	r.Get("/forum/{locale}/options", h.TopicOptions)

	// posts
	r.Get("/posts/{id}/context", h.PostContext)
	r.Get("/posts/{id}/options", h.ReplyOptions)
	r.Post("/posts", h.Create)
}
