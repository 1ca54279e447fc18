// upstream — клиент API инструмента ревью локализаций (форумные эндпойнты).
package upstream

import (
	"errors"
	"strings"
	"time"

	"github.com/locreview/discussions-service/internal/models"
)

var (
	// ErrUnavailable — транспортная ошибка: сеть, не-2xx, битый ответ.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrRejected — прикладная ошибка в успешном конверте ответа.
	ErrRejected = errors.New("upstream rejected request")
	// ErrSession — апстрим не признал сессию (err_code E_SESSION_DISCONNECTED).
	ErrSession = errors.New("upstream session rejected")
)

// envelope — конверт ответа форумного API.
// Либо err/err_code, либо ret (список постов), либо post_id
// (пост принят, но не отдан обратно).
type envelope struct {
	Err     string     `json:"err,omitempty"`
	ErrCode string     `json:"err_code,omitempty"`
	Ret     []wirePost `json:"ret,omitempty"`
	PostID  int64      `json:"post_id,omitempty"`
}

// wirePost — пост в том виде, в котором его отдаёт апстрим.
type wirePost struct {
	ID       int64       `json:"id"`
	Parent   int64       `json:"parent"`
	Locale   string      `json:"locale"`
	XPath    string      `json:"xpath"`
	Subject  string      `json:"subject"`
	Text     string      `json:"text"`
	Date     string      `json:"date"`
	PostType string      `json:"postType"`
	Status   string      `json:"status"`
	Poster   int64       `json:"poster"`
	Info     *wirePoster `json:"posterInfo,omitempty"`
	Version  string      `json:"version,omitempty"`
}

// wirePoster — метаданные автора; отсутствуют, если автор не активен.
type wirePoster struct {
	Name  string `json:"name"`
	Org   string `json:"org"`
	Email string `json:"email"`
	Level string `json:"userlevelName"`
}

// Submission — полезная нагрузка создания поста/ответа.
type Submission struct {
	Locale   string
	XPath    string
	ReplyTo  int64 // models.NoParent для корневого поста
	Subject  string
	Text     string
	PostType models.PostType
}

// SubmitResult — исход сабмита.
// Либо Affected непустой (апстрим вернул затронутые посты — нужен рефреш),
// либо только PostID (пост принят, но не отдан обратно).
type SubmitResult struct {
	PostID   int64
	Affected []models.Post
}

// toDomain конвертирует wire-пост в доменный. ThreadID не проставляется —
// это делает индексация при каждом фетче.
func (w wirePost) toDomain() models.Post {
	p := models.Post{
		ID:       w.ID,
		ParentID: w.Parent,
		Locale:   strings.TrimSpace(w.Locale),
		XPath:    w.XPath,
		Subject:  w.Subject,
		Text:     w.Text,
		Date:     parseDate(w.Date),
		PostType: models.PostType(w.PostType),
		Status:   models.Status(w.Status),
		PosterID: w.Poster,
		Version:  w.Version,
	}

	if w.Info != nil {
		p.Poster = &models.PosterInfo{
			Name:  strings.TrimSpace(w.Info.Name),
			Org:   strings.TrimSpace(w.Info.Org),
			Email: strings.TrimSpace(w.Info.Email),
			Level: models.Level(strings.ToLower(w.Info.Level)),
		}
	}

	return p
}

// parseDate пробует набор форматов апстрима и возвращает UTC-время.
// Нераспознанная дата не фатальна: пост остаётся с нулевым временем.
func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}

	for _, l := range layouts {
		if t, err := time.Parse(l, value); err == nil {
			return t.UTC()
		}
	}

	return time.Time{}
}
