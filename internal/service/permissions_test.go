package service

import (
	"testing"

	"github.com/locreview/discussions-service/internal/models"
	"github.com/stretchr/testify/require"
)

// Файл unit-тестов для вычисления прав (permissions.go).
//
// Покрываем правила:
//   - Discuss доступен всегда;
//   - Request — только новый корневой пост голосовавшего;
//   - Agree/Decline — только ответ в Request-ветке не-автором корня;
//   - Close — только пока ветка открыта, автором корня
//     или привилегированной ролью; закрытая ветка не закрывается повторно.

func requestRoot(posterID int64) *models.Post {
	return &models.Post{
		ID:       5,
		ParentID: models.NoParent,
		Locale:   "fr",
		Status:   models.StatusRequest,
		PostType: models.Request,
		PosterID: posterID,
	}
}

// TestAllowedVerbs_DiscussAlways — Discuss присутствует в любом наборе.
func TestAllowedVerbs_DiscussAlways(t *testing.T) {
	t.Parallel()

	cases := []PermissionInput{
		{},
		{IsReply: true},
		{IsReply: true, Root: requestRoot(1), Actor: Actor{ID: 1}},
		{Actor: Actor{HasVoted: true}},
	}

	for _, in := range cases {
		require.Contains(t, AllowedVerbs(in), models.Discuss)
	}
}

// TestAllowedVerbs_RequestForVoterTopic — голосовавший пользователь,
// сочиняющий новый корневой пост, получает Request.
func TestAllowedVerbs_RequestForVoterTopic(t *testing.T) {
	t.Parallel()

	verbs := AllowedVerbs(PermissionInput{
		Actor: Actor{ID: 7, HasVoted: true},
	})

	require.Contains(t, verbs, models.Request)
}

// TestAllowedVerbs_NoRequestWithoutVote — без голоса Request не предлагается.
func TestAllowedVerbs_NoRequestWithoutVote(t *testing.T) {
	t.Parallel()

	verbs := AllowedVerbs(PermissionInput{Actor: Actor{ID: 7}})

	require.NotContains(t, verbs, models.Request)
}

// TestAllowedVerbs_NoRequestForReply — Request недоступен в ответах.
func TestAllowedVerbs_NoRequestForReply(t *testing.T) {
	t.Parallel()

	verbs := AllowedVerbs(PermissionInput{
		IsReply: true,
		Root:    requestRoot(1),
		Actor:   Actor{ID: 7, HasVoted: true},
	})

	require.NotContains(t, verbs, models.Request)
}

// TestAllowedVerbs_AgreeDeclineForNonPoster — не-автор, отвечающий
// в Request-ветку, получает Agree и Decline.
func TestAllowedVerbs_AgreeDeclineForNonPoster(t *testing.T) {
	t.Parallel()

	verbs := AllowedVerbs(PermissionInput{
		IsReply: true,
		Root:    requestRoot(1),
		Actor:   Actor{ID: 7},
	})

	require.Contains(t, verbs, models.Agree)
	require.Contains(t, verbs, models.Decline)
}

// TestAllowedVerbs_NoAgreeForPoster — автор запроса не голосует сам за себя.
func TestAllowedVerbs_NoAgreeForPoster(t *testing.T) {
	t.Parallel()

	verbs := AllowedVerbs(PermissionInput{
		IsReply: true,
		Root:    requestRoot(7),
		Actor:   Actor{ID: 7},
	})

	require.NotContains(t, verbs, models.Agree)
	require.NotContains(t, verbs, models.Decline)
}

// TestAllowedVerbs_CloseByPosterWhileOpen — автор корня может закрыть
// открытую ветку.
func TestAllowedVerbs_CloseByPosterWhileOpen(t *testing.T) {
	t.Parallel()

	root := requestRoot(7)

	verbs := AllowedVerbs(PermissionInput{
		IsReply: true,
		Root:    root,
		Actor:   Actor{ID: 7},
	})

	require.Contains(t, verbs, models.Close)
}

// TestAllowedVerbs_CloseByPrivileged — TC/Admin закрывают чужие ветки.
func TestAllowedVerbs_CloseByPrivileged(t *testing.T) {
	t.Parallel()

	for _, level := range []models.Level{models.LevelTC, models.LevelAdmin} {
		verbs := AllowedVerbs(PermissionInput{
			IsReply: true,
			Root:    requestRoot(1),
			Actor:   Actor{ID: 7, Level: level},
		})

		require.Contains(t, verbs, models.Close)
	}
}

// TestAllowedVerbs_NoCloseWhenClosed — закрытая ветка не закрывается
// повторно независимо от актора.
func TestAllowedVerbs_NoCloseWhenClosed(t *testing.T) {
	t.Parallel()

	root := requestRoot(7)
	root.Status = models.StatusClosed

	actors := []Actor{
		{ID: 7},                          // автор корня
		{ID: 1, Level: models.LevelTC},   // привилегированный
		{ID: 2, Level: models.LevelAdmin},
	}

	for _, actor := range actors {
		verbs := AllowedVerbs(PermissionInput{
			IsReply: true,
			Root:    root,
			Actor:   actor,
		})

		require.NotContains(t, verbs, models.Close)
	}
}

// TestAllowedVerbs_NoCloseForStranger — обычный участник не закрывает
// чужую ветку.
func TestAllowedVerbs_NoCloseForStranger(t *testing.T) {
	t.Parallel()

	verbs := AllowedVerbs(PermissionInput{
		IsReply: true,
		Root:    requestRoot(1),
		Actor:   Actor{ID: 7, Level: models.LevelVetter},
	})

	require.NotContains(t, verbs, models.Close)
}
