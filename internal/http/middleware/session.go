package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/locreview/discussions-service/internal/models"
	logctx "github.com/locreview/discussions-service/pkg/log"
)

// Session — проверенная сессия инструмента ревью.
//
// Token — сырой JWT: он же сессионный идентификатор, который клиент
// форумного API прокидывает апстриму. Остальные поля — личность и роль
// текущего пользователя для вычисления прав.
type Session struct {
	Token        string
	UserID       int64
	Name         string
	Org          string
	Level        models.Level
	VotedLocales []string
}

// HasVoted сообщает, голосовал ли пользователь в данной локали.
func (s Session) HasVoted(locale string) bool {
	for _, l := range s.VotedLocales {
		if l == locale {
			return true
		}
	}

	return false
}

// sessionClaims — полезная нагрузка сессионного JWT.
// Subject — идентификатор пользователя (десятичная строка).
type sessionClaims struct {
	jwt.RegisteredClaims
	Name  string   `json:"name"`
	Org   string   `json:"org"`
	Level string   `json:"level"`
	Voted []string `json:"voted,omitempty"`
}

type sessionKey struct{}

// CtxSession — ключ контекста с проверенной сессией.
var CtxSession = sessionKey{}

// SessionFrom достаёт сессию из контекста.
func SessionFrom(ctx context.Context) (Session, bool) {
	if v := ctx.Value(CtxSession); v != nil {
		if s, ok := v.(Session); ok {
			return s, true
		}
	}

	return Session{}, false
}

// AuthSession извлекает Bearer-токен из Authorization, проверяет HS256-подпись
// и кладёт сессию в контекст. Отсутствующий или битый токен не прерывает
// запрос — хендлеры сами решают, требуется ли сессия.
func AuthSession(secret, issuer string) Middleware {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := parseSession(raw, key, issuer)
			if err != nil {
				logctx.From(r.Context()).Warn("session_parse_failed",
					slog.String("err", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), CtxSession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")

	const prefix = "Bearer "
	if strings.HasPrefix(auth, prefix) && len(auth) > len(prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}

	return ""
}

func parseSession(raw string, key []byte, issuer string) (Session, error) {
	token, err := jwt.ParseWithClaims(raw, &sessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return Session{}, err
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return Session{}, errors.New("invalid claims")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Session{}, errors.New("invalid subject")
	}

	return Session{
		Token:        raw,
		UserID:       userID,
		Name:         claims.Name,
		Org:          claims.Org,
		Level:        models.Level(strings.ToLower(claims.Level)),
		VotedLocales: claims.Voted,
	}, nil
}
