package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/locreview/discussions-service/internal/errors"
	"github.com/locreview/discussions-service/internal/http/middleware"
	"github.com/locreview/discussions-service/internal/models"
	"github.com/locreview/discussions-service/internal/render"
	"github.com/locreview/discussions-service/internal/service"
)

// PostContext — GET /posts/{id}/context: частичный фетч контекста поста
// и рендер фрагмента инфо-панели его ветки.
func (h *Handlers) PostContext(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrSession)
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || postID < 0 {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	ix, post, err := h.Svc.PostContext(r.Context(), sess.Token, postID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	fragment, err := h.Renderer.Thread(render.InfoPanel, ix, post.ThreadID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeHTML(w, http.StatusOK, fragment)
}

// ReplyOptions — GET /posts/{id}/options: заготовка формы ответа —
// синтезированная тема, разрешённые глаголы, шаблоны тела.
func (h *Handlers) ReplyOptions(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrSession)
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || postID < 0 {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	draft, err := h.Svc.Draft(r.Context(), service.DraftInput{
		ReplyTo: postID,
		Actor:   actorFrom(sess, r.URL.Query().Get("locale")),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, draftResponse{
		Subject: draft.Subject,
		Verbs:   verbStrings(draft.Verbs),
		Bodies:  bodyStrings(draft.Bodies),
	})
}

// TopicOptions — GET /forum/{locale}/options: заготовка формы нового топика.
// ?path_header=... — отформатированный заголовок пути (формирует хост-страница).
func (h *Handlers) TopicOptions(w http.ResponseWriter, r *http.Request) {
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

	draft, err := h.Svc.Draft(r.Context(), service.DraftInput{
		ReplyTo:    models.NoParent,
		PathHeader: r.URL.Query().Get("path_header"),
		Actor:      actorFrom(sess, locale),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, draftResponse{
		Subject: draft.Subject,
		Verbs:   verbStrings(draft.Verbs),
		Bodies:  bodyStrings(draft.Bodies),
	})
}

// Create — POST /posts: создание поста/ответа через апстрим.
// Неуспех не трогает состояние: клиент сохраняет черновик и показывает
// message из конверта ошибки инлайн.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrSession)
		return
	}

	var in createRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	replyTo := models.NoParent
	if in.ReplyTo != nil {
		replyTo = *in.ReplyTo
	}

	outcome, err := h.Svc.Submit(r.Context(), sess.Token, actorFrom(sess, in.Locale), service.SubmitInput{
		View:     in.View,
		Locale:   in.Locale,
		XPath:    in.XPath,
		ReplyTo:  replyTo,
		Subject:  in.Subject,
		Text:     in.Text,
		PostType: models.PostType(in.PostType),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{
		PostID:   outcome.PostID,
		Affected: outcome.Affected,
		Refresh:  outcome.Refresh,
	})
}

// actorFrom собирает актора из сессии для вычисления прав.
func actorFrom(sess middleware.Session, locale string) service.Actor {
	return service.Actor{
		ID:       sess.UserID,
		Level:    sess.Level,
		HasVoted: sess.HasVoted(locale),
	}
}

func verbStrings(verbs []models.PostType) []string {
	out := make([]string, 0, len(verbs))
	for _, v := range verbs {
		out = append(out, string(v))
	}
	return out
}

func bodyStrings(bodies map[models.PostType]string) map[string]string {
	out := make(map[string]string, len(bodies))
	for k, v := range bodies {
		out[string(k)] = v
	}
	return out
}

type draftResponse struct {
	Subject string            `json:"subject"`
	Verbs   []string          `json:"verbs"`
	Bodies  map[string]string `json:"bodies"`
}

type createRequest struct {
	View     string `json:"view,omitempty"`
	Locale   string `json:"locale"`
	XPath    string `json:"xpath,omitempty"`
	ReplyTo  *int64 `json:"reply_to,omitempty"`
	Subject  string `json:"subject"`
	Text     string `json:"text"`
	PostType string `json:"post_type"`
}

type createResponse struct {
	PostID   int64  `json:"post_id,omitempty"`
	Affected int    `json:"affected"`
	Refresh  string `json:"refresh"`
}
