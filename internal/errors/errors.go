// errors стандартизирует ответы об ошибках HTTP-слоя discussions-сервиса.
// На вход — сервисная ошибка (sentinel-цепочки errors.Is), на выход:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Обе категории ошибок (транспортный сбой апстрима и
// прикладная ошибка в конверте) не фатальны: клиент показывает message
// инлайн рядом с затронутой областью.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/locreview/discussions-service/internal/service"
)

// Нестандартный код, часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует сервисную ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal, чтобы не
//     отдать "200 OK" с телом ошибки и не замаскировать баг;
//   - сервисные sentinel-ошибки маппятся по таблице ниже;
//   - прочее — 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — маппинг сервисных ошибок -> HTTP/FE-код/сообщение:
//   - ErrInvalidArgument (битые входные) -> 400
//   - ErrSession (сессия не признана) -> 401
//   - ErrPermissionDenied (глагол не разрешён) -> 403
//   - ErrNotFound -> 404
//   - ErrStaleLocale (фетч пережил смену локали) -> 409
//   - ErrRejected (прикладной отказ апстрима) -> 422
//   - ErrUnavailable (апстрим недоступен) -> 503
//   - context.Canceled -> 499 (клиент закрыл соединение)
//   - context.DeadlineExceeded -> 504
//   - прочее -> 500/internal
func base(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrSession):
		return http.StatusUnauthorized, "unauthenticated", "session rejected"
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, "permission_denied", "permission denied"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, service.ErrStaleLocale):
		return http.StatusConflict, "stale_locale", "locale changed during refresh"
	case errors.Is(err, service.ErrRejected):
		return http.StatusUnprocessableEntity, "upstream_rejected", "rejected by upstream"
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable", "upstream unavailable"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
