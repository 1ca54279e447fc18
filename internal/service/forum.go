package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/locreview/discussions-service/internal/models"
	"github.com/locreview/discussions-service/pkg/log"
)

// Refresh — полный фетч постов локали и пересборка индексов.
//
// Правила:
//   - смена локали сбрасывает индексы и открывает новую эпоху;
//   - результат фетча, начатого в старой эпохе, отбрасывается
//     (ErrStaleLocale) — устаревший колбэк не пишет в текущий индекс.
//
// Ошибки:
//   - ErrInvalidArgument — пустые session/locale;
//   - ErrSession/ErrRejected/ErrUnavailable — маппинг ошибок апстрима;
//   - ErrStaleLocale — локаль сменилась, пока шёл фетч.
func (s *Service) Refresh(ctx context.Context, session, locale string) (*Index, error) {
	const op = "service/forum/Refresh"

	locale = strings.TrimSpace(locale)
	lg := log.From(ctx).With("op", op, "locale", locale)

	if session == "" || locale == "" {
		lg.Warn("invalid argument: empty session or locale")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	s.mu.Lock()
	if s.index == nil || s.index.Locale != locale {
		s.epoch++
		s.index = nil
	}
	epoch := s.epoch
	s.mu.Unlock()

	posts, err := s.client.FetchPosts(ctx, session, locale)
	if err != nil {
		lg.Warn("fetch_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, mapUpstreamErr(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		lg.Warn("stale_fetch_discarded", slog.Uint64("epoch", epoch))
		return nil, fmt.Errorf("%s: %w", op, ErrStaleLocale)
	}

	ix := BuildIndex(locale, posts, time.Now().UTC())
	s.index = ix

	lg.Info("forum_indexed",
		slog.Int("posts", len(ix.Posts)),
		slog.Int("threads", len(ix.Order)),
	)

	return ix, nil
}

// PostContext — частичный фетч: контекст одного поста.
//
// Если текущий индекс относится к той же локали, контекст мерджится в него;
// иначе собирается отдельный индекс, не замещающий текущий.
//
// Ошибки:
//   - ErrInvalidArgument — пустая сессия или отрицательный id;
//   - ErrNotFound — пост не виден в ответе апстрима;
//   - ErrSession/ErrRejected/ErrUnavailable — маппинг ошибок апстрима.
func (s *Service) PostContext(ctx context.Context, session string, postID int64) (*Index, models.Post, error) {
	const op = "service/forum/PostContext"

	lg := log.From(ctx).With("op", op, "post_id", postID)

	if session == "" || postID < 0 {
		lg.Warn("invalid argument")
		return nil, models.Post{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	posts, err := s.client.FetchPostContext(ctx, session, postID)
	if err != nil {
		lg.Warn("fetch_failed", slog.String("err", err.Error()))
		return nil, models.Post{}, fmt.Errorf("%s: %w", op, mapUpstreamErr(err))
	}

	var target *models.Post
	for i := range posts {
		if posts[i].ID == postID {
			target = &posts[i]
			break
		}
	}
	if target == nil {
		lg.Warn("post not visible in context fetch")
		return nil, models.Post{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	now := time.Now().UTC()

	s.mu.Lock()
	var ix *Index
	if s.index != nil && s.index.Locale == target.Locale {
		s.index = s.index.Merge(posts, now)
		ix = s.index
	} else {
		ix = BuildIndex(target.Locale, posts, now)
	}
	s.mu.Unlock()

	indexed, ok := ix.Posts[postID]
	if !ok {
		return nil, models.Post{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	lg.Info("post_context_indexed", slog.String("thread_id", indexed.ThreadID))

	return ix, indexed, nil
}
