package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/locreview/discussions-service/internal/errors"
	"github.com/locreview/discussions-service/internal/http/middleware"
	"github.com/locreview/discussions-service/internal/models"
	"github.com/locreview/discussions-service/internal/render"
	"github.com/locreview/discussions-service/internal/service"
)

// Forum — GET /forum/{locale}: полный фетч, индексация и рендер
// основного форумного вида.
//
// ?filter=open|request сужает ветки по состоянию корня
// (внешний предикат фильтрации основного вида).
func (h *Handlers) Forum(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrSession)
		return
	}

	locale := chi.URLParam(r, "locale")
	if locale == "" {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	ix, err := h.Svc.Refresh(r.Context(), sess.Token, locale)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	fragment, err := h.Renderer.Forum(render.MainView, ix, filterFrom(r.URL.Query().Get("filter")))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeHTML(w, http.StatusOK, fragment)
}

// Summary — GET /forum/{locale}/summary: счётчики без разметки.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrSession)
		return
	}

	locale := chi.URLParam(r, "locale")
	if locale == "" {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	ix, err := h.Svc.Refresh(r.Context(), sess.Token, locale)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	s := render.Summarize(ix)
	writeJSON(w, http.StatusOK, summaryResponse{
		Locale:      s.Locale,
		Threads:     s.Threads,
		Posts:       s.Posts,
		LastRefresh: s.LastRefresh,
	})
}

// Threads — GET /forum/{locale}/threads: JSON-список веток «новые первыми».
// ?limit=N сужает выдачу; limits.max_threads — дефолт и потолок.
func (h *Handlers) Threads(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrSession)
		return
	}

	locale := chi.URLParam(r, "locale")
	if locale == "" {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	ix, err := h.Svc.Refresh(r.Context(), sess.Token, locale)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	threads := ix.ThreadList()
	if limit := threadLimit(r.URL.Query().Get("limit"), h.Svc.ThreadLimit()); len(threads) > limit {
		threads = threads[:limit]
	}

	out := make([]threadResponse, 0, len(threads))
	for _, th := range threads {
		item := threadResponse{ID: th.ID, Posts: len(th.Posts)}
		if root, ok := ix.Root(th.ID); ok {
			item.Subject = root.Subject
			item.Status = string(root.Status)
			item.XPath = root.XPath
		}
		if len(th.Posts) > 0 {
			item.Newest = th.Posts[0].Date
		}
		out = append(out, item)
	}

	writeJSON(w, http.StatusOK, threadsResponse{Locale: ix.Locale, Threads: out})
}

// threadLimit — лимит веток из query; 0/мусор/превышение -> потолок max.
func threadLimit(raw string, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > max {
		return max
	}

	return n
}

// filterFrom — внешний предикат фильтрации по значению query-параметра.
func filterFrom(name string) render.Filter {
	switch name {
	case "open":
		return func(root models.Post) bool { return root.Status != models.StatusClosed }
	case "request":
		return func(root models.Post) bool { return root.Status == models.StatusRequest }
	}

	return nil
}

type summaryResponse struct {
	Locale      string    `json:"locale"`
	Threads     int       `json:"threads"`
	Posts       int       `json:"posts"`
	LastRefresh time.Time `json:"last_refresh"`
}

type threadsResponse struct {
	Locale  string           `json:"locale"`
	Threads []threadResponse `json:"threads"`
}

type threadResponse struct {
	ID      string    `json:"id"`
	Subject string    `json:"subject,omitempty"`
	Status  string    `json:"status,omitempty"`
	XPath   string    `json:"xpath,omitempty"`
	Posts   int       `json:"posts"`
	Newest  time.Time `json:"newest,omitempty"`
}
