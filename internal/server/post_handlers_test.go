package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-ingestion-key"

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByCategory(ctx context.Context, category string, limit, offset int) ([]*models.Post, error) {
	args := m.Called(ctx, category, limit, offset)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByTag(ctx context.Context, tag string) ([]*models.Post, error) {
	args := m.Called(ctx, tag)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPostRepository) IncrementViews(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, slug string, fields map[string]any) (*models.Post, error) {
	args := m.Called(ctx, slug, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

// newTestApp wires a Server with the given repositories onto a bare Fiber
// app. Health routes are registered too but the database is nil, so only
// the API routes are exercised.
func newTestApp(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *fiber.App {
	s := &Server{
		config:      &config.Config{Port: "8420", APIKey: testAPIKey},
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
	if postRepo != nil {
		s.postService = service.NewPostService(postRepo)
	}
	if commentRepo != nil {
		s.commentService = service.NewCommentService(commentRepo)
	}

	app := fiber.New()
	app.Use(middleware.ContextMiddleware())
	s.SetupRoutes(app)
	return app
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func validPostBody() map[string]any {
	return map[string]any{
		"title":   "My First Post",
		"content": "Body of the post",
		"excerpt": "Short summary",
		"author":  "Jane Writer",
		"tags":    []string{"golang"},
	}
}

func TestCreatePost_RequiresAPIKey(t *testing.T) {
	app := newTestApp(new(MockPostRepository), nil)

	tests := []struct {
		name string
		key  string
	}{
		{"Missing key", ""},
		{"Wrong key", "not-the-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(http.MethodPost, "/api/posts", validPostBody())
			if tt.key != "" {
				req.Header.Set(middleware.APIKeyHeader, tt.key)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, models.CodeUnauthorized, body["code"])
		})
	}
}

func TestCreatePost(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("GetBySlug", mock.Anything, "my-first-post").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	app := newTestApp(mockRepo, nil)

	req := jsonRequest(http.MethodPost, "/api/posts", validPostBody())
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Post created successfully", body["message"])

	post, ok := body["post"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "my-first-post", post["slug"])
	assert.Equal(t, models.CategoryAll, post["category"])
	assert.Equal(t, []any{"golang"}, post["tags"])
	mockRepo.AssertExpectations(t)
}

func TestCreatePost_ValidationFailures(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(map[string]any)
		expectedCode string
	}{
		{
			name:         "Missing fields",
			mutate:       func(b map[string]any) { b["title"] = "" },
			expectedCode: models.CodeValidation,
		},
		{
			name:         "Empty tags",
			mutate:       func(b map[string]any) { b["tags"] = []string{} },
			expectedCode: models.CodeValidation,
		},
		{
			name:         "Invalid category",
			mutate:       func(b map[string]any) { b["category"] = "Astrology" },
			expectedCode: models.CodeInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(new(MockPostRepository), nil)

			body := validPostBody()
			tt.mutate(body)
			req := jsonRequest(http.MethodPost, "/api/posts", body)
			req.Header.Set(middleware.APIKeyHeader, testAPIKey)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			got := decodeBody(t, resp)
			assert.Equal(t, tt.expectedCode, got["code"])
			if tt.expectedCode == models.CodeInvalidCategory {
				assert.NotEmpty(t, got["availableCategories"])
			}
		})
	}
}

func TestCreatePost_SlugConflict(t *testing.T) {
	mockRepo := new(MockPostRepository)
	// Every candidate slug is already taken.
	mockRepo.On("GetBySlug", mock.Anything, mock.Anything).Return(&models.Post{}, nil)
	app := newTestApp(mockRepo, nil)

	req := jsonRequest(http.MethodPost, "/api/posts", validPostBody())
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, models.CodeConflict, body["code"])
}

func TestGetPosts(t *testing.T) {
	posts := []*models.Post{
		{ID: 2, Slug: "newer", Title: "Newer"},
		{ID: 1, Slug: "older", Title: "Older"},
	}
	mockRepo := new(MockPostRepository)
	mockRepo.On("List", mock.Anything, 0, 0).Return(posts, nil)
	mockRepo.On("Count", mock.Anything).Return(int64(9), nil)
	app := newTestApp(mockRepo, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(9), body["total"])
	require.Len(t, body["posts"], 2)
	mockRepo.AssertExpectations(t)
}

func TestGetPosts_Paged(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("List", mock.Anything, 2, 4).Return([]*models.Post{}, nil)
	mockRepo.On("Count", mock.Anything).Return(int64(9), nil)
	app := newTestApp(mockRepo, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts?limit=2&offset=4", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestGetPosts_ByCategory(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("ListByCategory", mock.Anything, "Technology", 0, 0).
		Return([]*models.Post{{Slug: "tech"}}, nil)
	mockRepo.On("CountByCategory", mock.Anything, "Technology").Return(int64(1), nil)
	app := newTestApp(mockRepo, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts?category=Technology", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestGetPosts_CatchAllCategoryListsEverything(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("List", mock.Anything, 0, 0).Return([]*models.Post{}, nil)
	mockRepo.On("Count", mock.Anything).Return(int64(0), nil)
	app := newTestApp(mockRepo, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/posts?category="+"All%20Blog%20Posts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "ListByCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPosts_ByTag(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("ListByTag", mock.Anything, "golang").
		Return([]*models.Post{{Slug: "go-post"}}, nil)
	app := newTestApp(mockRepo, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts?tag=golang", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(1), body["total"])
	mockRepo.AssertExpectations(t)
}

func TestGetPost(t *testing.T) {
	post := &models.Post{ID: 1, Slug: "hello-world", Title: "Hello World", Views: 41}
	post.SetTagList([]string{"golang"})

	mockRepo := new(MockPostRepository)
	mockRepo.On("GetBySlug", mock.Anything, "hello-world").Return(post, nil)
	mockRepo.On("IncrementViews", mock.Anything, "hello-world").Return(nil)
	app := newTestApp(mockRepo, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/hello-world", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Hello World", body["title"])
	// The response carries the pre-increment count.
	assert.Equal(t, float64(41), body["views"])
	mockRepo.AssertExpectations(t)
}

func TestGetPost_NotFound(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("GetBySlug", mock.Anything, "missing").Return(nil, nil)
	app := newTestApp(mockRepo, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	mockRepo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func TestUpdatePost(t *testing.T) {
	updated := &models.Post{Slug: "hello-world", Title: "Edited"}
	updated.SetTagList([]string{"golang"})

	mockRepo := new(MockPostRepository)
	mockRepo.On("Update", mock.Anything, "hello-world", mock.Anything).Return(updated, nil)
	app := newTestApp(mockRepo, nil)

	req := jsonRequest(http.MethodPut, "/api/posts/hello-world", map[string]any{"title": "Edited"})
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	mockRepo.AssertExpectations(t)
}

func TestUpdatePost_RequiresAPIKey(t *testing.T) {
	app := newTestApp(new(MockPostRepository), nil)

	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/posts/hello-world",
		map[string]any{"title": "Edited"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdatePost_NotFound(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("Update", mock.Anything, "missing", mock.Anything).Return(nil, nil)
	app := newTestApp(mockRepo, nil)

	req := jsonRequest(http.MethodPut, "/api/posts/missing", map[string]any{"title": "Edited"})
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetCategories(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("Categories", mock.Anything).Return([]string{"Art", "Technology"}, nil)
	app := newTestApp(mockRepo, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, []any{"Art", "Technology"}, body["categories"])
	mockRepo.AssertExpectations(t)
}
