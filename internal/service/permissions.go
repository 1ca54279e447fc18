package service

import "github.com/locreview/discussions-service/internal/models"

// Actor — личность и роль текущего пользователя для вычисления прав.
type Actor struct {
	// ID — идентификатор пользователя.
	ID int64
	// Level — роль в инструменте ревью.
	Level models.Level
	// HasVoted — голосовал ли пользователь по обсуждаемому элементу.
	HasVoted bool
}

// PermissionInput — вход чистой функции вычисления разрешённых глаголов.
type PermissionInput struct {
	// IsReply — сочиняется ответ (true) или новый корневой пост (false).
	IsReply bool
	// Root — корневой пост ветки; nil для нового топика
	// или когда корень не виден в выборке.
	Root *models.Post
	// Actor — текущий пользователь.
	Actor Actor
}

// AllowedVerbs возвращает упорядоченный набор разрешённых глаголов.
//
// Правила:
//   - Discuss — всегда;
//   - Request — только новый корневой пост голосовавшего;
//   - Agree/Decline — только ответ в Request-ветке не-автором корня;
//   - Close — только пока ветка открыта, автором корня
//     или привилегированной ролью.
func AllowedVerbs(in PermissionInput) []models.PostType {
	verbs := []models.PostType{models.Discuss}

	if !in.IsReply && in.Actor.HasVoted {
		verbs = append(verbs, models.Request)
	}

	if in.IsReply && in.Root != nil {
		root := *in.Root

		if root.Status == models.StatusRequest && in.Actor.ID != root.PosterID {
			verbs = append(verbs, models.Agree, models.Decline)
		}

		if root.Status != models.StatusClosed &&
			(in.Actor.ID == root.PosterID || in.Actor.Level.Privileged()) {
			verbs = append(verbs, models.Close)
		}
	}

	return verbs
}

// verbAllowed — принадлежность глагола набору.
func verbAllowed(verbs []models.PostType, verb models.PostType) bool {
	for _, v := range verbs {
		if v == verb {
			return true
		}
	}

	return false
}
