package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/locreview/discussions-service/internal/render"
	"github.com/locreview/discussions-service/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	Svc      *service.Service
	Renderer *render.Renderer
}

func New(svc *service.Service, renderer *render.Renderer) *Handlers {
	return &Handlers{Svc: svc, Renderer: renderer}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeHTML — готовый HTML-фрагмент для вставки в панель.
func writeHTML(w http.ResponseWriter, status int, fragment template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(fragment))
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
