package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/pkg/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

// setupFileDB 使用文件数据库与多连接，供并发测试使用；写事务以 BEGIN IMMEDIATE 串行化
func setupFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_txlock=immediate", filepath.Join(t.TempDir(), "qa.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(8)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func setupTestCache(t *testing.T) (*cache.JSONCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client), mr
}

func seedUser(t *testing.T, db *gorm.DB, id string, rating int) *model.User {
	t.Helper()
	u := &model.User{ID: id, Username: id, Email: id + "@example.com", Password: "p", Rating: rating}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedQuestion(t *testing.T, db *gorm.DB, id, authorID string) *model.Question {
	t.Helper()
	q := &model.Question{ID: id, AuthorID: authorID, Title: "title " + id, Detailed: "details", IsActive: true}
	require.NoError(t, db.Create(q).Error)
	return q
}

func seedAnswer(t *testing.T, db *gorm.DB, id, questionID, authorID string) *model.Answer {
	t.Helper()
	a := &model.Answer{ID: id, QuestionID: questionID, AuthorID: authorID, Text: "answer " + id}
	require.NoError(t, db.Create(a).Error)
	return a
}

func reloadUser(t *testing.T, db *gorm.DB, id string) model.User {
	t.Helper()
	var u model.User
	require.NoError(t, db.Where("id = ?", id).First(&u).Error)
	return u
}

func reloadAnswer(t *testing.T, db *gorm.DB, id string) model.Answer {
	t.Helper()
	var a model.Answer
	require.NoError(t, db.Where("id = ?", id).First(&a).Error)
	return a
}

type sentEvent struct {
	channel string
	payload map[string]any
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (f *fakeNotifier) Notify(_ context.Context, channel string, payload map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{channel: channel, payload: payload})
}

func (f *fakeNotifier) sent() []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEvent(nil), f.events...)
}

var testTTL = 30 * time.Second
