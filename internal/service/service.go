// service содержит бизнес-логику discussions-сервиса.
package service

import (
	"errors"
	"sync"

	"github.com/locreview/discussions-service/internal/config"
	"github.com/locreview/discussions-service/internal/upstream"
)

var (
	// ErrInvalidArgument — некорректные входные аргументы.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — пост/ветка не видны в выборке.
	// Транспорт: 404.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied — глагол не разрешён для актора.
	// Транспорт: 403.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrStaleLocale — результат фетча отброшен из-за смены локали.
	// Транспорт: 409.
	ErrStaleLocale = errors.New("stale refresh discarded")
	// ErrSession — апстрим не признал сессию.
	// Транспорт: 401.
	ErrSession = errors.New("session rejected")
	// ErrRejected — прикладной отказ апстрима.
	// Транспорт: 422.
	ErrRejected = errors.New("rejected by upstream")
	// ErrUnavailable — апстрим недоступен.
	// Транспорт: 503.
	ErrUnavailable = errors.New("upstream unavailable")
)

// Service — бизнес-логика форумной панели.
//
// Состояние (индекс постов и веток текущей локали) — явный объект,
// защищённый мьютексом; смена локали — явный сброс с инкрементом эпохи.
// Эпоха закрывает гонку «устаревший фетч против смены локали»:
// результат фетча, начатого в старой эпохе, отбрасывается.
type Service struct {
	client upstream.Client
	cfg    config.Config

	mu    sync.RWMutex
	epoch uint64
	index *Index
}

// New создает новый экземпляр Service.
func New(client upstream.Client, cfg config.Config) *Service {
	return &Service{
		client: client,
		cfg:    cfg,
	}
}

// Current возвращает текущий индекс (может быть nil до первого фетча).
func (s *Service) Current() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index
}

// ThreadLimit — потолок числа веток в списковых выдачах.
func (s *Service) ThreadLimit() int {
	return s.cfg.Limits.MaxThreads
}

// mapUpstreamErr переводит ошибки апстрим-клиента в сервисные.
func mapUpstreamErr(err error) error {
	switch {
	case errors.Is(err, upstream.ErrSession):
		return ErrSession
	case errors.Is(err, upstream.ErrRejected):
		return ErrRejected
	case errors.Is(err, upstream.ErrUnavailable):
		return ErrUnavailable
	default:
		return err
	}
}
