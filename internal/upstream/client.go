package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/locreview/discussions-service/internal/models"
	"github.com/locreview/discussions-service/pkg/log"
)

// Client описывает форумные операции апстрим-API.
//
// Требования к реализации:
//  1. списки постов возвращаются в порядке апстрима — от новых к старым;
//  2. ThreadID в возвращаемых постах не проставляется — это делает индексация;
//  3. реализация обязана уважать ctx (отмена/таймауты);
//  4. транспортные сбои и прикладные ошибки конверта различимы
//     через ErrUnavailable / ErrRejected / ErrSession.
type Client interface {
	// FetchPosts — полный фетч постов локали.
	FetchPosts(ctx context.Context, session, locale string) ([]models.Post, error)
	// FetchPostContext — частичный фетч: контекст одного поста.
	FetchPostContext(ctx context.Context, session string, postID int64) ([]models.Post, error)
	// SubmitPost — создание поста/ответа.
	SubmitPost(ctx context.Context, session string, in Submission) (*SubmitResult, error)
}

// HTTPClient — реализация Client поверх net/http.
// HTTP-клиент настраивается извне (таймауты, прокси и т.д.).
type HTTPClient struct {
	base   string
	client *http.Client
}

// New создаёт клиента форумного API.
func New(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &HTTPClient{
		base:   strings.TrimRight(baseURL, "/"),
		client: client,
	}
}

// FetchPosts — GET {base}/forum?s=...&what=forum_fetch&locale=...
func (c *HTTPClient) FetchPosts(ctx context.Context, session, locale string) ([]models.Post, error) {
	const op = "upstream.FetchPosts"

	q := url.Values{}
	q.Set("s", session)
	q.Set("what", "forum_fetch")
	q.Set("locale", locale)

	env, err := c.get(ctx, op, q)
	if err != nil {
		return nil, err
	}

	return toDomainList(env.Ret), nil
}

// FetchPostContext — GET {base}/forum?s=...&what=forum_fetch&id=...
func (c *HTTPClient) FetchPostContext(ctx context.Context, session string, postID int64) ([]models.Post, error) {
	const op = "upstream.FetchPostContext"

	q := url.Values{}
	q.Set("s", session)
	q.Set("what", "forum_fetch")
	q.Set("id", strconv.FormatInt(postID, 10))

	env, err := c.get(ctx, op, q)
	if err != nil {
		return nil, err
	}

	return toDomainList(env.Ret), nil
}

// SubmitPost — POST {base}/forum (form-encoded).
func (c *HTTPClient) SubmitPost(ctx context.Context, session string, in Submission) (*SubmitResult, error) {
	const op = "upstream.SubmitPost"

	form := url.Values{}
	form.Set("s", session)
	form.Set("what", "forum_post")
	form.Set("locale", in.Locale)
	form.Set("xpath", in.XPath)
	form.Set("replyTo", strconv.FormatInt(in.ReplyTo, 10))
	form.Set("subj", in.Subject)
	form.Set("text", in.Text)
	form.Set("postType", string(in.PostType))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/forum",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	env, err := c.do(ctx, op, req)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		PostID:   env.PostID,
		Affected: toDomainList(env.Ret),
	}, nil
}

// get собирает и выполняет GET-запрос к форумному эндпойнту.
func (c *HTTPClient) get(ctx context.Context, op string, q url.Values) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.base+"/forum?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}

	return c.do(ctx, op, req)
}

// do выполняет запрос и разбирает конверт ответа.
func (c *HTTPClient) do(ctx context.Context, op string, req *http.Request) (*envelope, error) {
	lg := log.From(ctx)

	resp, err := c.client.Do(req)
	if err != nil {
		lg.Warn("http_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: do: %w: %v", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: status=%d: %w", op, resp.StatusCode, ErrUnavailable)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s: decode: %w: %v", op, ErrUnavailable, err)
	}

	// Прикладная ошибка внутри успешного конверта — второй класс ошибок.
	if env.Err != "" {
		lg.Warn("upstream_error",
			slog.String("op", op),
			slog.String("err_code", env.ErrCode),
			slog.String("err", env.Err),
		)

		if env.ErrCode == "E_SESSION_DISCONNECTED" {
			return nil, fmt.Errorf("%s: %w: %s", op, ErrSession, env.Err)
		}

		return nil, fmt.Errorf("%s: %w: %s", op, ErrRejected, env.Err)
	}

	return &env, nil
}

func toDomainList(wire []wirePost) []models.Post {
	if len(wire) == 0 {
		return nil
	}

	output := make([]models.Post, 0, len(wire))
	for _, w := range wire {
		output = append(output, w.toDomain())
	}

	return output
}
