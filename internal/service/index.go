package service

import (
	"sort"
	"time"

	"github.com/locreview/discussions-service/internal/models"
)

// Index — восстановленная структура обсуждений одной локали:
// пост-индекс и индекс веток, пересобираемые при каждом полном фетче.
//
// Инвариант: ThreadID каждого поста равен `locale|id` его транзитивного
// корневого предка; локаль корня задаёт ветку, даже если локаль ответа
// отличается от родительской.
//
// Индекс неизменяем после сборки: Merge возвращает новый экземпляр.
type Index struct {
	// Locale — локаль выборки.
	Locale string
	// Posts — пост-индекс: id -> пост с проставленным ThreadID.
	Posts map[int64]models.Post
	// Threads — индекс веток: ThreadID -> посты от новых к старым.
	Threads map[string][]models.Post
	// Order — идентификаторы веток от новых к старым. Сигнал порядка —
	// позиция первого поста ветки в исходном списке «новые первыми».
	Order []string
	// LastRefresh — время последнего фетча (UTC).
	LastRefresh time.Time

	// all — исходный список «новые первыми», основа для Merge.
	all []models.Post
}

// Thread — материализованная ветка для рендера/выдачи.
type Thread struct {
	ID    string
	Posts []models.Post
}

// BuildIndex полностью пересобирает индексы по списку постов
// (порядок апстрима — от новых к старым). Идемпотентна: повторная
// индексация того же списка даёт идентичные группировки.
func BuildIndex(locale string, posts []models.Post, now time.Time) *Index {
	byID := make(map[int64]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	ix := &Index{
		Locale:      locale,
		Posts:       make(map[int64]models.Post, len(posts)),
		Threads:     make(map[string][]models.Post),
		LastRefresh: now,
		all:         append([]models.Post(nil), posts...),
	}

	for _, p := range posts {
		p.ThreadID = resolveThreadID(byID, p)
		ix.Posts[p.ID] = p

		if _, ok := ix.Threads[p.ThreadID]; !ok {
			ix.Order = append(ix.Order, p.ThreadID)
		}
		ix.Threads[p.ThreadID] = append(ix.Threads[p.ThreadID], p)
	}

	return ix
}

// resolveThreadID поднимается по ссылкам parent, пока предок виден в выборке.
// Последний достижимый предок задаёт локаль и ID ветки: сироты с невидимым
// родителем укореняются в самом глубоком видимом предке, возможно в себе.
// Число шагов ограничено размером выборки на случай битых ссылок.
func resolveThreadID(byID map[int64]models.Post, p models.Post) string {
	cur := p
	for steps := len(byID); steps > 0 && cur.ParentID >= 0; steps-- {
		parent, ok := byID[cur.ParentID]
		if !ok {
			break
		}
		cur = parent
	}

	return models.ThreadID(cur.Locale, cur.ID)
}

// Merge возвращает новый индекс с примердженными постами частичного фетча.
// Пост-индекс дополняется (не заменяется); ветки пересобираются, порядок —
// от новых к старым по дате, при равенстве — по убыванию ID.
func (ix *Index) Merge(posts []models.Post, now time.Time) *Index {
	seen := make(map[int64]bool, len(posts))
	combined := make([]models.Post, 0, len(ix.all)+len(posts))

	for _, p := range posts {
		if !seen[p.ID] {
			seen[p.ID] = true
			combined = append(combined, p)
		}
	}

	for _, p := range ix.all {
		if !seen[p.ID] {
			seen[p.ID] = true
			combined = append(combined, p)
		}
	}

	sort.SliceStable(combined, func(i, j int) bool {
		if !combined[i].Date.Equal(combined[j].Date) {
			return combined[i].Date.After(combined[j].Date)
		}
		return combined[i].ID > combined[j].ID
	})

	return BuildIndex(ix.Locale, combined, now)
}

// ThreadList отдаёт ветки в порядке Order.
func (ix *Index) ThreadList() []Thread {
	output := make([]Thread, 0, len(ix.Order))
	for _, id := range ix.Order {
		output = append(output, Thread{ID: id, Posts: ix.Threads[id]})
	}

	return output
}

// Root возвращает корневой пост ветки: тот, чей `locale|id` совпадает
// с ThreadID (для сирот это самый глубокий видимый предок).
func (ix *Index) Root(threadID string) (models.Post, bool) {
	posts := ix.Threads[threadID]
	for _, p := range posts {
		if models.ThreadID(p.Locale, p.ID) == threadID {
			return p, true
		}
	}

	if len(posts) > 0 {
		return posts[len(posts)-1], true
	}

	return models.Post{}, false
}

// RootOf возвращает корень ветки, в которой состоит пост.
func (ix *Index) RootOf(postID int64) (models.Post, bool) {
	p, ok := ix.Posts[postID]
	if !ok {
		return models.Post{}, false
	}

	return ix.Root(p.ThreadID)
}
