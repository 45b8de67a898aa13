package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
)

type likeFixture struct {
	svc      LikeService
	notifier *fakeNotifier
	likes    repository.LikeRepository
	question *model.Question
	answer   *model.Answer
}

// user1 问问题，user2 回答
func newLikeFixture(t *testing.T) (*likeFixture, func(kind model.TargetKind, id string) int) {
	db := setupTestDB(t)
	seedUser(t, db, "user1", 0)
	seedUser(t, db, "user2", 0)
	q := seedQuestion(t, db, "q1", "user1")
	a := seedAnswer(t, db, "a1", "q1", "user2")
	n := &fakeNotifier{}

	rating := func(kind model.TargetKind, id string) int {
		t.Helper()
		var r int
		table := "questions"
		if kind == model.TargetAnswer {
			table = "answers"
		}
		require.NoError(t, db.Table(table).Select("rating").Where("id = ?", id).Scan(&r).Error)
		return r
	}
	return &likeFixture{
		svc:      NewLikeService(db, n),
		notifier: n,
		likes:    repository.NewLikeRepository(db),
		question: q,
		answer:   a,
	}, rating
}

func TestToggleLike_SelfLikeRejected(t *testing.T) {
	f, rating := newLikeFixture(t)
	ctx := context.Background()

	_, err := f.svc.ToggleLike(ctx, "user1", model.TargetQuestion, "q1", true)
	assert.ErrorIs(t, err, ErrSelfLike)

	_, err = f.svc.ToggleLike(ctx, "user2", model.TargetAnswer, "a1", true)
	assert.ErrorIs(t, err, ErrSelfLike)

	assert.Equal(t, 0, rating(model.TargetQuestion, "q1"))
	assert.Equal(t, 0, rating(model.TargetAnswer, "a1"))
	exists, err := f.likes.Exists(ctx, model.TargetQuestion, "user1", "q1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, f.notifier.sent())
}

func TestToggleLike_LikeIsIdempotent(t *testing.T) {
	for _, tc := range []struct {
		kind   model.TargetKind
		id     string
		author string
	}{
		{model.TargetQuestion, "q1", "user2"},
		{model.TargetAnswer, "a1", "user1"},
	} {
		t.Run(string(tc.kind), func(t *testing.T) {
			f, rating := newLikeFixture(t)
			ctx := context.Background()

			r1, err := f.svc.ToggleLike(ctx, tc.author, tc.kind, tc.id, true)
			require.NoError(t, err)
			r2, err := f.svc.ToggleLike(ctx, tc.author, tc.kind, tc.id, true)
			require.NoError(t, err)

			assert.Equal(t, 1, r1)
			assert.Equal(t, r1, r2)
			assert.Equal(t, 1, rating(tc.kind, tc.id))
			cnt, err := f.likes.CountByTarget(ctx, tc.kind, tc.id)
			require.NoError(t, err)
			assert.EqualValues(t, 1, cnt)
		})
	}
}

func TestToggleLike_LikeThenUnlikeRestoresRating(t *testing.T) {
	f, rating := newLikeFixture(t)
	ctx := context.Background()

	_, err := f.svc.ToggleLike(ctx, "user2", model.TargetQuestion, "q1", true)
	require.NoError(t, err)
	r, err := f.svc.ToggleLike(ctx, "user2", model.TargetQuestion, "q1", false)
	require.NoError(t, err)

	assert.Equal(t, 0, r)
	assert.Equal(t, 0, rating(model.TargetQuestion, "q1"))
	exists, err := f.likes.Exists(ctx, model.TargetQuestion, "user2", "q1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestToggleLike_UnlikeWithoutLikeIsNoop(t *testing.T) {
	f, rating := newLikeFixture(t)

	r, err := f.svc.ToggleLike(context.Background(), "user1", model.TargetAnswer, "a1", false)
	require.NoError(t, err)
	assert.Equal(t, 0, r)
	assert.Equal(t, 0, rating(model.TargetAnswer, "a1"))
}

func TestToggleLike_LikeRowAlreadyPresentIsNoop(t *testing.T) {
	f, rating := newLikeFixture(t)
	ctx := context.Background()

	// 点赞行已存在（例如由另一请求写入）
	created, err := f.likes.Create(ctx, model.TargetQuestion, "user2", "q1")
	require.NoError(t, err)
	require.True(t, created)

	r, err := f.svc.ToggleLike(ctx, "user2", model.TargetQuestion, "q1", true)
	require.NoError(t, err)
	assert.Equal(t, 0, r)
	assert.Equal(t, 0, rating(model.TargetQuestion, "q1"))
}

func TestToggleLike_NotFoundAndInvalidKind(t *testing.T) {
	f, _ := newLikeFixture(t)
	ctx := context.Background()

	_, err := f.svc.ToggleLike(ctx, "user2", model.TargetQuestion, "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.ToggleLike(ctx, "user2", model.TargetKind("comment"), "q1", true)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestToggleLike_NotifiesLikesChannel(t *testing.T) {
	f, _ := newLikeFixture(t)

	_, err := f.svc.ToggleLike(context.Background(), "user1", model.TargetAnswer, "a1", true)
	require.NoError(t, err)

	events := f.notifier.sent()
	require.Len(t, events, 1)
	assert.Equal(t, "likes_q1", events[0].channel)
	assert.Equal(t, map[string]any{
		"type":    "answer_like",
		"id":      "a1",
		"rating":  1,
		"user_id": "user1",
		"is_like": true,
	}, events[0].payload)
}

func TestToggleLike_ConcurrentDoubleLikeCountsOnce(t *testing.T) {
	db := setupFileDB(t)
	seedUser(t, db, "user1", 0)
	seedUser(t, db, "user2", 0)
	seedQuestion(t, db, "q1", "user1")
	svc := NewLikeService(db, &fakeNotifier{})
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ToggleLike(ctx, "user2", model.TargetQuestion, "q1", true)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	var q model.Question
	require.NoError(t, db.Where("id = ?", "q1").First(&q).Error)
	assert.Equal(t, 1, q.Rating)

	cnt, err := repository.NewLikeRepository(db).CountByTarget(ctx, model.TargetQuestion, "q1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}
