package devserver

import (
	"context"
	"encoding/json/v2"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagepoint/vantage-admin/internal/client"
	"github.com/vantagepoint/vantage-admin/internal/domain"
	domainerrors "github.com/vantagepoint/vantage-admin/internal/errors"
	"github.com/vantagepoint/vantage-admin/internal/session"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "correct-horse"
)

type testEnv struct {
	srv     *Server
	ts      *httptest.Server
	client  *client.Client
	session *session.MemoryStore
}

func setupTestServer(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	if cfg.AdminEmail == "" {
		cfg.AdminEmail = adminEmail
		cfg.AdminPassword = adminPassword
	}
	if cfg.LoginRPS == 0 {
		cfg.LoginRPS = -1
	}

	srv, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	sess := session.NewMemoryStore()
	c, err := client.New(client.Config{
		BaseURL:           ts.URL,
		RequestsPerSecond: -1,
		Session:           sess,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return &testEnv{srv: srv, ts: ts, client: c, session: sess}
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	_, err := e.client.Login(context.Background(), validation.LoginForm{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
}

func (e *testEnv) rawRequest(t *testing.T, method, path string, body url.Values, token string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(body.Encode())
	}
	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func requireAPIError(t *testing.T, err error, status int) *client.APIError {
	t.Helper()
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.Status)
	return apiErr
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(Config{AdminEmail: adminEmail}, nil)
	assert.Error(t, err)

	_, err = New(Config{AdminEmail: adminEmail, AdminPassword: adminPassword, Key: []byte("short")}, nil)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	env := setupTestServer(t, Config{})

	resp, body := env.rawRequest(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestLogin(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()

	pair, err := env.client.Login(ctx, validation.LoginForm{Email: "ADMIN@example.com", Password: adminPassword})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pair.AccessToken, "v4.local."))
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEmpty(t, pair.AccessExpiredAt)
	assert.True(t, env.client.Authenticated(ctx))
}

func TestLogin_Rejected(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()

	_, err := env.client.Login(ctx, validation.LoginForm{Email: adminEmail, Password: "wrong-password"})
	apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
	require.Len(t, apiErr.ValidationErrors, 1)
	assert.Equal(t, "password", apiErr.ValidationErrors[0].Field)
	assert.Equal(t, invalidCredentialsMessage, apiErr.ValidationErrors[0].Message)
	assert.False(t, env.client.Authenticated(ctx))

	_, err = env.client.Login(ctx, validation.LoginForm{})
	apiErr = requireAPIError(t, err, http.StatusUnprocessableEntity)
	assert.Len(t, apiErr.ValidationErrors, 2)
}

func TestLogin_RateLimited(t *testing.T) {
	env := setupTestServer(t, Config{LoginRPS: 0.001, LoginBurst: 1})

	env.login(t)

	_, err := env.client.Login(context.Background(), validation.LoginForm{Email: adminEmail, Password: adminPassword})
	requireAPIError(t, err, http.StatusTooManyRequests)
}

func TestRequireAuth(t *testing.T) {
	env := setupTestServer(t, Config{})

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer v4.local.garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, env.ts.URL+"/manage/tags/default", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			var body map[string]string
			require.NoError(t, json.UnmarshalRead(resp.Body, &body))
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestExpiredAccessTokenIsRefreshed(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()
	env.login(t)

	before, err := env.session.Get(ctx)
	require.NoError(t, err)

	env.srv.ExpireAccessTokens()

	page, err := env.client.ListTags(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	after, err := env.session.Get(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before.Access, after.Access)
	assert.NotEqual(t, before.Refresh, after.Refresh)
}

func TestRevokedSessionExpires(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()
	env.login(t)

	env.srv.RevokeSessions()

	_, err := env.client.ListTags(ctx, 1)
	assert.ErrorIs(t, err, client.ErrSessionExpired)
	assert.False(t, env.client.Authenticated(ctx))
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	env := setupTestServer(t, Config{})
	env.login(t)

	tokens, err := env.session.Get(context.Background())
	require.NoError(t, err)

	form := url.Values{"refresh_token": {tokens.Refresh}}
	resp, body := env.rawRequest(t, http.MethodPost, "/auth/token-refresh", form, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pair domain.TokenPair
	require.NoError(t, json.Unmarshal(body, &pair))
	assert.NotEqual(t, tokens.Refresh, pair.RefreshToken)

	resp, _ = env.rawRequest(t, http.MethodPost, "/auth/token-refresh", form, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = env.rawRequest(t, http.MethodPost, "/auth/token-refresh", url.Values{}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "refresh_token")
}

func TestDevEndpoints(t *testing.T) {
	env := setupTestServer(t, Config{})
	env.login(t)

	tokens, err := env.session.Get(context.Background())
	require.NoError(t, err)

	resp, _ := env.rawRequest(t, http.MethodPost, "/dev/expire-tokens", nil, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.rawRequest(t, http.MethodGet, "/manage/tags/default", nil, tokens.Access)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.rawRequest(t, http.MethodPost, "/dev/revoke-sessions", nil, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.rawRequest(t, http.MethodPost, "/auth/token-refresh", url.Values{"refresh_token": {tokens.Refresh}}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTags_CRUDAndUniqueCode(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()
	env.login(t)

	news, err := env.client.CreateTag(ctx, validation.TagForm{Code: "10", Name: "Новости", Sort: 2})
	require.NoError(t, err)
	_, err = env.client.CreateTag(ctx, validation.TagForm{Code: "20", Name: "Обзоры", Sort: 1})
	require.NoError(t, err)

	_, err = env.client.CreateTag(ctx, validation.TagForm{Code: "10", Name: "Дубль"})
	apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
	derr := domainerrors.Normalize(err)
	assert.Equal(t, domainerrors.KindValidation, derr.Kind)
	assert.Contains(t, derr.Fields["code"], "уже занято")
	assert.Equal(t, "code", apiErr.ValidationErrors[0].Field)

	page, err := env.client.ListTags(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Обзоры", page.Items[0].Name)

	updated, err := env.client.UpdateTag(ctx, news.ID, validation.TagForm{Code: "10", Name: "Новости дня", Sort: 0})
	require.NoError(t, err)
	assert.Equal(t, "Новости дня", updated.Name)

	got, err := env.client.GetTag(ctx, news.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Sort)

	require.NoError(t, env.client.DeleteTag(ctx, news.ID))
	_, err = env.client.GetTag(ctx, news.ID)
	requireAPIError(t, err, http.StatusNotFound)
}

func TestPagination(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()
	env.login(t)

	for i := range 12 {
		_, err := env.client.CreateTag(ctx, validation.TagForm{Code: string(rune('a'+i)) + "1", Name: "Тег", Sort: i})
		require.NoError(t, err)
	}

	page, err := env.client.ListTags(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, client.Pagination{TotalCount: 12, PageCount: 2, CurrentPage: 2, PerPage: 10}, page.Pagination)
	assert.False(t, page.Pagination.HasNext())

	page, err = env.client.ListTags(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestPosts_CRUD(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()
	env.login(t)

	author, err := env.client.CreateAuthor(ctx, validation.AuthorForm{Name: "Иван", LastName: "Петров"})
	require.NoError(t, err)
	tag, err := env.client.CreateTag(ctx, validation.TagForm{Code: "10", Name: "Новости"})
	require.NoError(t, err)

	post, err := env.client.CreatePost(ctx, validation.PostForm{
		Code:     "101",
		Title:    "Первая публикация",
		Text:     "Текст первой публикации",
		AuthorID: author.ID,
		TagIDs:   []int{tag.ID},
		PreviewPicture: &domain.Upload{
			Filename:    "cover.png",
			ContentType: "image/png",
			Data:        []byte("png-bytes"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Петров Иван", post.Author.FullName)
	require.Len(t, post.Tags, 1)
	assert.Equal(t, "Новости", post.Tags[0].Name)
	require.NotNil(t, post.PreviewPicture)
	assert.False(t, post.CreatedAt.IsZero())

	resp, body := env.rawRequest(t, http.MethodGet, post.PreviewPicture.URL, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	page, err := env.client.ListPosts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Петров Иван", page.Items[0].AuthorName)
	assert.Equal(t, []string{"Новости"}, page.Items[0].TagNames)

	updated, err := env.client.UpdatePost(ctx, post.ID, validation.PostForm{
		Code:     "101",
		Title:    "Исправленный заголовок",
		Text:     "Текст первой публикации",
		AuthorID: author.ID,
		TagIDs:   []int{tag.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Исправленный заголовок", updated.Title)
	assert.Equal(t, post.PreviewPicture, updated.PreviewPicture)

	// Deleting a tag detaches it from posts.
	require.NoError(t, env.client.DeleteTag(ctx, tag.ID))
	detail, err := env.client.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Tags)

	require.NoError(t, env.client.DeletePost(ctx, post.ID))
	_, err = env.client.GetPost(ctx, post.ID)
	requireAPIError(t, err, http.StatusNotFound)
}

func TestPosts_ServerValidation(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()
	env.login(t)

	_, err := env.client.CreatePost(ctx, validation.PostForm{Code: "1", AuthorID: 999, TagIDs: []int{888}})
	derr := domainerrors.Normalize(err)
	require.Equal(t, domainerrors.KindValidation, derr.Kind)
	assert.ElementsMatch(t, []string{"title", "text", "authorId", "tagIds"}, derr.Fields.Names())
}

func TestAuthors_OptionalFieldsAndAvatar(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()
	env.login(t)

	author, err := env.client.CreateAuthor(ctx, validation.AuthorForm{
		Name:       "Анна",
		LastName:   "Смирнова",
		SecondName: "Павловна",
		Avatar:     &domain.Upload{Filename: "a.jpg", Data: []byte("jpg")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Павловна", author.SecondName)
	require.NotNil(t, author.Avatar)

	// Omitted optional fields keep their values; removeAvatar drops the file.
	updated, err := env.client.UpdateAuthor(ctx, author.ID, validation.AuthorForm{
		Name:         "Анна",
		LastName:     "Иванова",
		RemoveAvatar: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Иванова", updated.LastName)
	assert.Equal(t, "Павловна", updated.SecondName)
	assert.Nil(t, updated.Avatar)

	resp, _ := env.rawRequest(t, http.MethodGet, author.Avatar.URL, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthors_DeleteRules(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()
	env.login(t)

	busy, err := env.client.CreateAuthor(ctx, validation.AuthorForm{Name: "Пётр", LastName: "Занятой"})
	require.NoError(t, err)
	free1, err := env.client.CreateAuthor(ctx, validation.AuthorForm{Name: "Олег", LastName: "Свободный"})
	require.NoError(t, err)
	free2, err := env.client.CreateAuthor(ctx, validation.AuthorForm{Name: "Ольга", LastName: "Свободная"})
	require.NoError(t, err)
	tag, err := env.client.CreateTag(ctx, validation.TagForm{Code: "10", Name: "Новости"})
	require.NoError(t, err)
	_, err = env.client.CreatePost(ctx, validation.PostForm{
		Code: "1", Title: "Пост", Text: "Текст поста", AuthorID: busy.ID, TagIDs: []int{tag.ID},
	})
	require.NoError(t, err)

	err = env.client.DeleteAuthor(ctx, busy.ID)
	requireAPIError(t, err, http.StatusBadRequest)
	derr := domainerrors.Normalize(err)
	assert.Equal(t, domainerrors.KindForm, derr.Kind)
	assert.Equal(t, authorInUseMessage, derr.Message)

	// A bulk delete containing a busy author removes nothing.
	err = env.client.DeleteAuthors(ctx, []int{free1.ID, busy.ID})
	requireAPIError(t, err, http.StatusBadRequest)

	require.NoError(t, env.client.DeleteAuthors(ctx, []int{free1.ID, free2.ID, 9999}))
	page, err := env.client.ListAuthors(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, busy.ID, page.Items[0].ID)
}

func TestTags_DeleteMany(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()
	env.login(t)

	a, err := env.client.CreateTag(ctx, validation.TagForm{Code: "10", Name: "А"})
	require.NoError(t, err)
	b, err := env.client.CreateTag(ctx, validation.TagForm{Code: "20", Name: "Б"})
	require.NoError(t, err)

	require.NoError(t, env.client.DeleteTags(ctx, []int{a.ID, b.ID}))
	page, err := env.client.ListTags(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Pagination.TotalCount)
}

func TestBadIDIsFormError(t *testing.T) {
	env := setupTestServer(t, Config{})
	env.login(t)

	tokens, err := env.session.Get(context.Background())
	require.NoError(t, err)

	resp, body := env.rawRequest(t, http.MethodGet, "/manage/posts/detail?id=abc", nil, tokens.Access)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"`+badIDMessage+`"}`, string(body))

	resp, _ = env.rawRequest(t, http.MethodDelete, "/manage/tags/multiple-remove", nil, tokens.Access)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMenu_TypesAndTree(t *testing.T) {
	env := setupTestServer(t, Config{})
	ctx := context.Background()
	env.login(t)

	mt, err := env.client.CreateMenuType(ctx, validation.MenuTypeForm{ID: "main", Name: "Главное"})
	require.NoError(t, err)
	assert.Equal(t, "main", mt.ID)

	_, err = env.client.CreateMenuType(ctx, validation.MenuTypeForm{ID: "main", Name: "Ещё раз"})
	requireAPIError(t, err, http.StatusUnprocessableEntity)

	_, err = env.client.CreateMenuType(ctx, validation.MenuTypeForm{ID: "bad id", Name: "Пробел"})
	requireAPIError(t, err, http.StatusUnprocessableEntity)

	renamed, err := env.client.UpdateMenuType(ctx, validation.MenuTypeForm{ID: "main", Name: "Основное"})
	require.NoError(t, err)
	assert.Equal(t, "Основное", renamed.Name)

	require.NoError(t, env.srv.SeedMenu(ctx, domain.MenuType{ID: "main", Name: "Основное"}, []domain.MenuItem{
		{ID: "about", Name: "О нас", Sort: 1},
		{ID: "home", Name: "Главная", Sort: 0},
		{ID: "team", Name: "Команда", ParentID: domain.StringPtr("about")},
		{ID: "orphan", Name: "Сирота", ParentID: domain.StringPtr("gone"), Sort: 5},
	}))

	tree, err := env.client.MenuTree(ctx, "main")
	require.NoError(t, err)
	require.Len(t, tree, 3)
	assert.Equal(t, []string{"home", "about", "orphan"}, []string{tree[0].ID, tree[1].ID, tree[2].ID})
	require.Len(t, tree[1].Children, 1)
	assert.Equal(t, "team", tree[1].Children[0].ID)

	types, err := env.client.ListMenuTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)

	require.NoError(t, env.client.DeleteMenuType(ctx, "main"))
	_, err = env.client.MenuTree(ctx, "main")
	requireAPIError(t, err, http.StatusNotFound)

	// Recreating the type starts with an empty tree.
	_, err = env.client.CreateMenuType(ctx, validation.MenuTypeForm{ID: "main", Name: "Снова"})
	require.NoError(t, err)
	tree, err = env.client.MenuTree(ctx, "main")
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestMenuTree_RequiresTypeID(t *testing.T) {
	env := setupTestServer(t, Config{})
	env.login(t)

	_, err := env.client.MenuTree(context.Background(), "")
	apiErr := requireAPIError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Не передан typeId", apiErr.Message)
}
