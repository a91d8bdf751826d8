package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolpass-board-service/internal/logger"
	"schoolpass-board-service/internal/metrics"
	"schoolpass-board-service/internal/repository/memory"
	auth_service "schoolpass-board-service/internal/service/auth"
	board_service "schoolpass-board-service/internal/service/board"
	"schoolpass-board-service/internal/storage"
)

const testJWTSecret = "router-test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("test")
	store := memory.NewStore(log)
	store.SeedTags("free", "study")
	provider := metrics.NewNoopMetricsProvider()

	files, err := storage.NewLocalStorage(t.TempDir(), log)
	require.NoError(t, err)

	boardSvc := board_service.NewBoardService(
		memory.NewPostRepository(store),
		memory.NewTagRepository(store),
		memory.NewCommentRepository(store),
		memory.NewLikeRepository(store),
		memory.NewUnitOfWork(store),
		files,
		log,
		provider,
	)
	authSvc := auth_service.NewAuthService(memory.NewUserRepository(store), log, testJWTSecret, time.Hour)

	return NewRouter(
		NewAuthHandler(authSvc, log),
		NewBoardHandler(boardSvc, files, log),
		t.TempDir(),
		[]byte(testJWTSecret),
		log,
		provider,
	)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	envelope := map[string]interface{}{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	}
	return recorder, envelope
}

func registerAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	recorder, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":         username,
		"password":         "long-enough-pass",
		"password_confirm": "long-enough-pass",
		"nickname":         username + "-nick",
		"email":            username + "@school.test",
		"school":           "Central High",
		"grade":            "1",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder, envelope := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": "long-enough-pass",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	token, ok := data["token"].(string)
	require.True(t, ok)
	return token
}

func createPost(t *testing.T, router *gin.Engine, token, title string, tags ...string) int64 {
	t.Helper()

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("title", title))
	for _, tag := range tags {
		require.NoError(t, form.WriteField("tags", tag))
	}
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusCreated, recorder.Code)

	envelope := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	return int64(data["id"].(float64))
}

func TestRouter_RegisterLoginAndMe(t *testing.T) {
	router := setupRouter(t)
	token := registerAndLogin(t, router, "student1")

	recorder, envelope := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "student1", data["username"])
	_, hasPassword := data["password"]
	assert.False(t, hasPassword)
}

func TestRouter_RegisterValidation(t *testing.T) {
	router := setupRouter(t)

	recorder, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "x",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_CreateAndListPosts(t *testing.T) {
	router := setupRouter(t)
	token := registerAndLogin(t, router, "writer")

	createPost(t, router, token, "hello board", "free")

	recorder, envelope := doJSON(t, router, http.MethodGet, "/api/v1/posts?tag=free", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	posts := envelope["data"].([]interface{})
	require.Len(t, posts, 1)
	post := posts[0].(map[string]interface{})
	assert.Equal(t, "hello board", post["title"])
	assert.Equal(t, "writer-nick", post["author_nickname"])
}

func TestRouter_WritesRequireAuth(t *testing.T) {
	router := setupRouter(t)

	recorder, _ := doJSON(t, router, http.MethodPost, "/api/v1/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder, _ = doJSON(t, router, http.MethodPost, "/api/v1/posts/1/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder, _ = doJSON(t, router, http.MethodDelete, "/api/v1/posts/1", "invalid-token", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRouter_LikeToggle(t *testing.T) {
	router := setupRouter(t)
	writer := registerAndLogin(t, router, "writer")
	reader := registerAndLogin(t, router, "reader")

	postID := createPost(t, router, writer, "likeable")
	path := fmt.Sprintf("/api/v1/posts/%d/like", postID)

	recorder, envelope := doJSON(t, router, http.MethodPost, path, reader, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, true, data["liked"])
	assert.Equal(t, float64(1), data["like_count"])

	recorder, envelope = doJSON(t, router, http.MethodPost, path, reader, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	data = envelope["data"].(map[string]interface{})
	assert.Equal(t, false, data["liked"])
	assert.Equal(t, float64(0), data["like_count"])
}

func TestRouter_ForbiddenDelete(t *testing.T) {
	router := setupRouter(t)
	writer := registerAndLogin(t, router, "writer")
	intruder := registerAndLogin(t, router, "intruder")

	postID := createPost(t, router, writer, "mine")
	path := fmt.Sprintf("/api/v1/posts/%d", postID)

	recorder, _ := doJSON(t, router, http.MethodDelete, path, intruder, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder, _ = doJSON(t, router, http.MethodDelete, path, writer, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder, _ = doJSON(t, router, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRouter_CommentsFlow(t *testing.T) {
	router := setupRouter(t)
	writer := registerAndLogin(t, router, "writer")
	reader := registerAndLogin(t, router, "reader")

	createPost(t, router, writer, "discuss")

	recorder, envelope := doJSON(t, router, http.MethodPost, "/api/v1/posts/1/comments", reader, gin.H{
		"content": "great post",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	comment := envelope["data"].(map[string]interface{})
	assert.Equal(t, "reader-nick", comment["author_nickname"])

	recorder, envelope = doJSON(t, router, http.MethodGet, "/api/v1/posts/1", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	detail := envelope["data"].(map[string]interface{})
	comments := detail["comments"].([]interface{})
	assert.Len(t, comments, 1)

	recorder, _ = doJSON(t, router, http.MethodDelete, "/api/v1/comments/1", writer, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder, _ = doJSON(t, router, http.MethodDelete, "/api/v1/comments/1", reader, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_HomeAndTags(t *testing.T) {
	router := setupRouter(t)
	writer := registerAndLogin(t, router, "writer")
	createPost(t, router, writer, "front page", "study")

	recorder, envelope := doJSON(t, router, http.MethodGet, "/api/v1/home", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	overview := envelope["data"].(map[string]interface{})
	stats := overview["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["total_posts"])
	assert.Equal(t, float64(1), stats["total_users"])

	recorder, envelope = doJSON(t, router, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	tags := envelope["data"].([]interface{})
	assert.Len(t, tags, 2)
}
