package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/locreview/discussions-service/internal/models"
	"github.com/locreview/discussions-service/internal/upstream"
	"github.com/locreview/discussions-service/pkg/log"
)

// Виды рефреша, которые клиент должен выполнить после успешного сабмита.
const (
	RefreshForum = "forum" // полная перезагрузка форумного вида
	RefreshPanel = "panel" // лёгкий рефреш инфо-панели
)

// DraftInput — запрос заготовки формы поста/ответа.
type DraftInput struct {
	// ReplyTo — id родительского поста; models.NoParent для нового топика.
	ReplyTo int64
	// PathHeader — отформатированный заголовок пути элемента
	// (формирует хост-страница); тема нового топика.
	PathHeader string
	// Actor — текущий пользователь.
	Actor Actor
}

// Draft — заготовка формы: предзаполненная тема, разрешённые глаголы
// и шаблон тела на каждый глагол.
type Draft struct {
	Subject string
	Verbs   []models.PostType
	Bodies  map[models.PostType]string
}

// SubmitInput — сабмит поста/ответа.
type SubmitInput struct {
	// View — активный вид клиента: RefreshForum или RefreshPanel.
	View string
	// Locale/XPath — привязка поста.
	Locale string
	XPath  string
	// ReplyTo — id родителя; models.NoParent для корневого поста.
	ReplyTo int64
	// Subject/Text — тема и тело.
	Subject string
	Text    string
	// PostType — выбранный глагол.
	PostType models.PostType
}

// SubmitOutcome — исход сабмита.
type SubmitOutcome struct {
	// PostID — id принятого поста (0, если апстрим вернул только список).
	PostID int64
	// Affected — сколько затронутых постов вернул апстрим.
	Affected int
	// Refresh — какой рефреш должен выполнить клиент.
	Refresh string
}

// draftBody — шаблон тела на глагол.
func draftBody(verb models.PostType) string {
	switch verb {
	case models.Request:
		return "Please consider the following change: "
	case models.Agree:
		return "I agree with this request. "
	case models.Decline:
		return "I disagree with this request. "
	case models.Close:
		return "Closing this thread. "
	}

	// Discuss — свободная форма.
	return ""
}

// Draft собирает заготовку формы.
//
// Для ответа тема синтезируется из темы родителя (префикс "Re: " только
// если его ещё нет), глаголы вычисляются от корня ветки родителя.
//
// Ошибки:
//   - ErrNotFound — родитель не виден в индексе.
func (s *Service) Draft(ctx context.Context, in DraftInput) (*Draft, error) {
	const op = "service/posting/Draft"

	lg := log.From(ctx).With("op", op, "reply_to", in.ReplyTo)

	perm := PermissionInput{Actor: in.Actor}
	subject := in.PathHeader

	if in.ReplyTo >= 0 {
		s.mu.RLock()
		ix := s.index
		s.mu.RUnlock()

		if ix == nil {
			lg.Warn("reply draft without index")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		parent, ok := ix.Posts[in.ReplyTo]
		if !ok {
			lg.Warn("parent not visible")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		subject = models.ReplySubject(parent.Subject)
		perm.IsReply = true
		if root, ok := ix.Root(parent.ThreadID); ok {
			perm.Root = &root
		}
	}

	verbs := AllowedVerbs(perm)

	bodies := make(map[models.PostType]string, len(verbs))
	for _, v := range verbs {
		bodies[v] = draftBody(v)
	}

	return &Draft{
		Subject: subject,
		Verbs:   verbs,
		Bodies:  bodies,
	}, nil
}

// Submit — создание поста/ответа через апстрим.
//
// Валидация:
//   - Locale и Text обязательны (Text нормализуется TrimSpace);
//   - Text не длиннее cfg.Limits.MaxBodyBytes;
//   - PostType — известный глагол, разрешённый актору
//     (если корень ветки виден в индексе).
//
// Поведение:
//   - затронутые посты из ответа апстрима мерджатся в индекс;
//   - при неудаче состояние не меняется — черновик у клиента сохраняется,
//     ошибка отдаётся для инлайн-показа.
func (s *Service) Submit(ctx context.Context, session string, actor Actor, in SubmitInput) (*SubmitOutcome, error) {
	const op = "service/posting/Submit"

	lg := log.From(ctx).With(
		"op", op,
		"locale", in.Locale,
		"reply_to", in.ReplyTo,
		"post_type", string(in.PostType),
	)

	if session == "" {
		lg.Warn("invalid argument: empty session")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Locale = strings.TrimSpace(in.Locale)
	if in.Locale == "" {
		lg.Warn("invalid argument: empty locale")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		lg.Warn("invalid argument: empty text")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if len(in.Text) > s.cfg.Limits.MaxBodyBytes {
		lg.Warn("invalid argument: text too large", slog.Int("bytes", len(in.Text)))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if !in.PostType.Valid() {
		lg.Warn("invalid argument: unknown post type")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.checkVerb(actor, in); err != nil {
		lg.Warn("verb not allowed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.client.SubmitPost(ctx, session, upstream.Submission{
		Locale:   in.Locale,
		XPath:    in.XPath,
		ReplyTo:  in.ReplyTo,
		Subject:  in.Subject,
		Text:     in.Text,
		PostType: in.PostType,
	})
	if err != nil {
		lg.Warn("submit_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, mapUpstreamErr(err))
	}

	// Затронутые посты мерджим в индекс той же локали.
	if len(result.Affected) > 0 {
		now := time.Now().UTC()
		s.mu.Lock()
		if s.index != nil && s.index.Locale == in.Locale {
			s.index = s.index.Merge(result.Affected, now)
		}
		s.mu.Unlock()
	}

	refresh := RefreshForum
	if in.View == RefreshPanel {
		refresh = RefreshPanel
	}

	lg.Info("post_submitted",
		slog.Int64("post_id", result.PostID),
		slog.Int("affected", len(result.Affected)),
		slog.String("refresh", refresh),
	)

	return &SubmitOutcome{
		PostID:   result.PostID,
		Affected: len(result.Affected),
		Refresh:  refresh,
	}, nil
}

// checkVerb проверяет выбранный глагол против вычисленных прав.
// Если ветка родителя не видна в индексе, проверка ограничивается
// правилами нового топика/ответа без корня.
func (s *Service) checkVerb(actor Actor, in SubmitInput) error {
	perm := PermissionInput{
		IsReply: in.ReplyTo >= 0,
		Actor:   actor,
	}

	if in.ReplyTo >= 0 {
		s.mu.RLock()
		if s.index != nil {
			if root, ok := s.index.RootOf(in.ReplyTo); ok {
				perm.Root = &root
			}
		}
		s.mu.RUnlock()
	}

	if !verbAllowed(AllowedVerbs(perm), in.PostType) {
		return ErrPermissionDenied
	}

	return nil
}
