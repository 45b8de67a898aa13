package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/qa-forum/internal/api/handler"
	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/notify"
	"github.com/d60-Lab/qa-forum/internal/ratelimit"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/internal/service"
	"github.com/d60-Lab/qa-forum/pkg/database"
)

type testServer struct {
	engine *gin.Engine
	mr     *miniredis.Miniredis
}

func newTestServer(t *testing.T, burstLimits map[string]int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	jsonCache := cache.New(rdb)

	leaderboard := service.NewLeaderboard(repository.NewUserRepository(db), jsonCache, service.LeaderboardOptions{
		TTL:      time.Minute,
		MaxLimit: 50,
	})
	auth := service.NewAuthService(db, "test-secret", time.Hour)

	require.NoError(t, handler.RegisterValidators())
	h := handler.NewHandler(handler.Options{
		LikeService:     service.NewLikeService(db, notify.Nop{}),
		AnswerService:   service.NewAnswerService(db, notify.Nop{}, leaderboard),
		QuestionService: service.NewQuestionService(db, jsonCache),
		RankService:     service.NewRankService(db, leaderboard),
		AuthService:     auth,
		Leaderboard:     leaderboard,
		Tokens:          notify.NewTokenIssuer("centrifugo-secret", time.Minute),
	})

	var burst *ratelimit.Burst
	if burstLimits != nil {
		burst = ratelimit.NewBurst(rdb, burstLimits)
	}
	return &testServer{engine: Setup(h, auth, Options{Burst: burst}), mr: mr}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-IP", "10.1.1.1")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	code, _ := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"username": username, "email": username + "@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": username, "password": "password123",
	})
	require.Equal(t, http.StatusOK, code)
	return body["data"].(map[string]any)["token"].(string)
}

func dataID(t *testing.T, body map[string]any) string {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "missing data: %v", body)
	return data["id"].(string)
}

func TestRatingFlow(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.login(t, "alice")
	bob := s.login(t, "bob")

	code, body := s.do(t, http.MethodPost, "/api/v1/questions", alice, map[string]any{
		"title": "How to use contexts?", "detailed": "details", "tags": []string{"Go"},
	})
	require.Equal(t, http.StatusCreated, code)
	questionID := dataID(t, body)

	code, body = s.do(t, http.MethodPost, "/api/v1/questions/"+questionID+"/answers", bob, map[string]any{"text": "use ctx"})
	require.Equal(t, http.StatusCreated, code)
	answerID := dataID(t, body)

	// 不能给自己的回答点赞
	code, body = s.do(t, http.MethodPost, "/api/v1/likes", bob, map[string]any{
		"kind": "answer", "target_id": answerID, "is_like": true,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])

	code, body = s.do(t, http.MethodPost, "/api/v1/likes", alice, map[string]any{
		"kind": "answer", "target_id": answerID, "is_like": true,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 1, body["rating"])

	// 重复点赞不改变评分
	_, body = s.do(t, http.MethodPost, "/api/v1/likes", alice, map[string]any{
		"kind": "answer", "target_id": answerID, "is_like": true,
	})
	assert.EqualValues(t, 1, body["rating"])

	code, _ = s.do(t, http.MethodPost, "/api/v1/answers/"+answerID+"/correct", bob, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(t, http.MethodPost, "/api/v1/answers/"+answerID+"/correct", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	code, body = s.do(t, http.MethodGet, "/api/v1/leaderboard?limit=5", "", nil)
	require.Equal(t, http.StatusOK, code)
	entries := body["data"].([]any)
	require.Len(t, entries, 2)
	top := entries[0].(map[string]any)
	assert.EqualValues(t, 1, top["rank"])
	assert.Equal(t, "bob", top["user"].(map[string]any)["username"])

	code, body = s.do(t, http.MethodGet, "/api/v1/questions/"+questionID, "", nil)
	require.Equal(t, http.StatusOK, code)
	answers := body["data"].(map[string]any)["answers"].([]any)
	require.Len(t, answers, 1)
	assert.Equal(t, true, answers[0].(map[string]any)["is_correct"])
}

func TestValidationAndAuthErrors(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.login(t, "alice")

	code, _ := s.do(t, http.MethodPost, "/api/v1/likes", "", map[string]any{"kind": "answer", "target_id": "x", "is_like": true})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := s.do(t, http.MethodPost, "/api/v1/likes", alice, map[string]any{"kind": "comment", "target_id": "x", "is_like": true})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])

	code, _ = s.do(t, http.MethodPost, "/api/v1/likes", alice, map[string]any{"kind": "answer", "target_id": "missing", "is_like": true})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/leaderboard?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = s.do(t, http.MethodGet, "/api/v1/leaderboard?limit=0", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["data"])

	code, _ = s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]any{"username": "alice", "password": "password123"})
	assert.Equal(t, http.StatusConflict, code)
}

func TestQuestionBurstLimit(t *testing.T) {
	s := newTestServer(t, map[string]int{"minute": 1})
	alice := s.login(t, "alice")

	payload := map[string]any{"title": "t", "detailed": "d"}
	code, _ := s.do(t, http.MethodPost, "/api/v1/questions", alice, payload)
	assert.Equal(t, http.StatusCreated, code)
	code, _ = s.do(t, http.MethodPost, "/api/v1/questions", alice, payload)
	assert.Equal(t, http.StatusTooManyRequests, code)

	s.mr.FastForward(time.Minute)
	code, _ = s.do(t, http.MethodPost, "/api/v1/questions", alice, payload)
	assert.Equal(t, http.StatusCreated, code)
}

func TestRealtimeToken(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.login(t, "alice")

	code, body := s.do(t, http.MethodGet, "/api/v1/realtime/token?channel=question_abc", alice, nil)
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.NotEmpty(t, data["subscription_token"])

	code, _ = s.do(t, http.MethodGet, "/api/v1/realtime/token?channel=admin", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
