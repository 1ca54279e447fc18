package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/locreview/discussions-service/internal/config"
	"github.com/locreview/discussions-service/internal/models"
	"github.com/locreview/discussions-service/internal/render"
	"github.com/locreview/discussions-service/internal/service"
	"github.com/locreview/discussions-service/internal/upstream"
	"github.com/locreview/discussions-service/mocks"
)

// Файл интеграционных тестов HTTP-поверхности: роутер + мидлвары +
// хендлеры поверх реального сервиса с мок-клиентом апстрима.

const (
	testSecret = "router-test-secret"
	testIssuer = "locreview"
)

var routerBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestRouter собирает роутер с мок-апстримом.
func newTestRouter(t *testing.T) (http.Handler, *mocks.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockCl := mocks.NewMockClient(ctrl)

	cfg := config.Config{
		Limits: config.LimitsConfig{MaxBodyBytes: 1024, MaxThreads: 100},
	}

	router := NewRouter(service.New(mockCl, cfg), render.New(), Options{
		AuthSecret: testSecret,
		AuthIssuer: testIssuer,
	})

	return router, mockCl
}

// sessionToken подписывает сессионный JWT ревью-инструмента.
func sessionToken(t *testing.T, userID, level string, voted ...string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"iss":   testIssuer,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"name":  "Marie",
		"org":   "LocTeam",
		"level": level,
		"voted": voted,
	})

	raw, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	return raw
}

func doRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestForum_RequiresSession — без токена форумный вид недоступен.
func TestForum_RequiresSession(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/forum/fr", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "unauthenticated")
}

// TestForum_RendersThreads — полный путь: JWT -> фетч -> индекс -> HTML.
func TestForum_RendersThreads(t *testing.T) {
	t.Parallel()

	router, mockCl := newTestRouter(t)
	raw := sessionToken(t, "7", "vetter")

	mockCl.EXPECT().
		FetchPosts(gomock.Any(), raw, "fr").
		Return([]models.Post{
			{ID: 9, ParentID: 5, Locale: "fr", Subject: "Re: subj", Date: routerBase.Add(time.Hour)},
			{ID: 5, ParentID: models.NoParent, Locale: "fr", Subject: "subj", Date: routerBase},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/forum/fr", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := doRequest(router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), `data-thread-id="fr|5"`)
	require.Contains(t, rec.Body.String(), `data-post-id="9"`)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

// TestForum_UpstreamDown — транспортная ошибка апстрима отдаётся как 503.
func TestForum_UpstreamDown(t *testing.T) {
	t.Parallel()

	router, mockCl := newTestRouter(t)
	raw := sessionToken(t, "7", "vetter")

	mockCl.EXPECT().
		FetchPosts(gomock.Any(), raw, "fr").
		Return(nil, upstream.ErrUnavailable)

	req := httptest.NewRequest(http.MethodGet, "/forum/fr", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := doRequest(router, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "unavailable")
}

// TestSummary_JSONCounts — сводка отдаёт счётчики без разметки.
func TestSummary_JSONCounts(t *testing.T) {
	t.Parallel()

	router, mockCl := newTestRouter(t)
	raw := sessionToken(t, "7", "vetter")

	mockCl.EXPECT().
		FetchPosts(gomock.Any(), raw, "fr").
		Return([]models.Post{
			{ID: 9, ParentID: 5, Locale: "fr", Date: routerBase.Add(time.Hour)},
			{ID: 5, ParentID: models.NoParent, Locale: "fr", Date: routerBase},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/forum/fr/summary", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := doRequest(router, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Locale  string `json:"locale"`
		Threads int    `json:"threads"`
		Posts   int    `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "fr", resp.Locale)
	require.Equal(t, 1, resp.Threads)
	require.Equal(t, 2, resp.Posts)
}

// TestThreads_LimitApplied — ?limit сужает список веток, потолок —
// limits.max_threads.
func TestThreads_LimitApplied(t *testing.T) {
	t.Parallel()

	router, mockCl := newTestRouter(t)
	raw := sessionToken(t, "7", "vetter")

	mockCl.EXPECT().
		FetchPosts(gomock.Any(), raw, "fr").
		Return([]models.Post{
			{ID: 30, ParentID: models.NoParent, Locale: "fr", Date: routerBase.Add(2 * time.Hour)},
			{ID: 20, ParentID: models.NoParent, Locale: "fr", Date: routerBase.Add(time.Hour)},
			{ID: 10, ParentID: models.NoParent, Locale: "fr", Date: routerBase},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/forum/fr/threads?limit=2", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := doRequest(router, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Threads []struct {
			ID string `json:"id"`
		} `json:"threads"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Threads, 2)
	require.Equal(t, "fr|30", resp.Threads[0].ID)
	require.Equal(t, "fr|20", resp.Threads[1].ID)
}

// TestTopicOptions_VoterGetsRequest — голосовавший в локали получает
// глагол request в заготовке нового топика.
func TestTopicOptions_VoterGetsRequest(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	raw := sessionToken(t, "7", "vetter", "fr")

	req := httptest.NewRequest(http.MethodGet,
		"/forum/fr/options?path_header=Menu+%3E+Save", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := doRequest(router, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Subject string   `json:"subject"`
		Verbs   []string `json:"verbs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Menu > Save", resp.Subject)
	require.Contains(t, resp.Verbs, "Discuss")
	require.Contains(t, resp.Verbs, "Request")
}

// TestCreate_SubmitsReply — POST /posts проксирует сабмит в апстрим.
func TestCreate_SubmitsReply(t *testing.T) {
	t.Parallel()

	router, mockCl := newTestRouter(t)
	raw := sessionToken(t, "7", "vetter")

	mockCl.EXPECT().
		FetchPosts(gomock.Any(), raw, "fr").
		Return([]models.Post{
			{ID: 5, ParentID: models.NoParent, Locale: "fr", Subject: "subj", Date: routerBase},
		}, nil)

	// Прогреваем индекс, как это делает клиент панели.
	warm := httptest.NewRequest(http.MethodGet, "/forum/fr", nil)
	warm.Header.Set("Authorization", "Bearer "+raw)
	require.Equal(t, http.StatusOK, doRequest(router, warm).Code)

	mockCl.EXPECT().
		SubmitPost(gomock.Any(), raw, gomock.Any()).
		Return(&upstream.SubmitResult{PostID: 11}, nil)

	body := `{"view":"panel","locale":"fr","reply_to":5,"subject":"Re: subj","text":"ok","post_type":"Discuss"}`
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := doRequest(router, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		PostID  int64  `json:"post_id"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 11, resp.PostID)
	require.Equal(t, "panel", resp.Refresh)
}

// TestCreate_VerbDenied — request без голоса в локали это 403.
func TestCreate_VerbDenied(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	raw := sessionToken(t, "7", "vetter") // без voted

	body := `{"locale":"fr","subject":"s","text":"ok","post_type":"Request"}`
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := doRequest(router, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "permission_denied")
}

// TestCreate_UnknownFieldRejected — строгий декодер отвергает лишние поля.
func TestCreate_UnknownFieldRejected(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	raw := sessionToken(t, "7", "vetter")

	body := `{"locale":"fr","text":"ok","post_type":"Discuss","hack":true}`
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := doRequest(router, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestPostContext_RendersPanel — контекст поста рендерится фрагментом
// инфо-панели с кнопкой ответа.
func TestPostContext_RendersPanel(t *testing.T) {
	t.Parallel()

	router, mockCl := newTestRouter(t)
	raw := sessionToken(t, "7", "vetter")

	mockCl.EXPECT().
		FetchPostContext(gomock.Any(), raw, int64(9)).
		Return([]models.Post{
			{ID: 9, ParentID: 5, Locale: "fr", Date: routerBase.Add(time.Hour)},
			{ID: 5, ParentID: models.NoParent, Locale: "fr", Date: routerBase},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/posts/9/context", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := doRequest(router, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `data-thread-id="fr|5"`)
	require.Contains(t, rec.Body.String(), `class="reply"`)
}

// TestReplyOptions_NotFound — заготовка ответа на невидимый пост.
func TestReplyOptions_NotFound(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	raw := sessionToken(t, "7", "vetter")

	req := httptest.NewRequest(http.MethodGet, "/posts/404/options", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := doRequest(router, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "not_found")
}
