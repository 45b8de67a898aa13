package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/config"
	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/notify"
	"github.com/d60-Lab/qa-forum/internal/service"
	"github.com/d60-Lab/qa-forum/pkg/database"
	"github.com/d60-Lab/qa-forum/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

var tagPool = []string{"go", "sql", "redis", "http", "testing", "docker", "linux", "grpc"}

// 生成演示数据：用户、问题、回答、点赞、采纳，最后重算排名
func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, true); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := must(database.InitDB(cfg))
	ctx := context.Background()

	users := envInt("USERS", 50)
	questions := envInt("QUESTIONS", 100)
	answersPer := envInt("ANSWERS", 3)
	likesPer := envInt("LIKES", 5)
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	auth := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.Expire)
	questionSvc := service.NewQuestionService(db, nil)
	answerSvc := service.NewAnswerService(db, notify.Nop{}, nil)
	likeSvc := service.NewLikeService(db, notify.Nop{})
	rankSvc := service.NewRankService(db, nil)

	suffix := strconv.FormatInt(time.Now().Unix(), 36)
	ids := make([]string, 0, users)
	for i := 0; i < users; i++ {
		name := fmt.Sprintf("user%d%s", i, suffix)
		u := must(auth.Signup(ctx, name, name+"@example.com", "password123"))
		ids = append(ids, u.ID)
	}
	pick := func(except string) string {
		for {
			id := ids[rnd.Intn(len(ids))]
			if id != except {
				return id
			}
		}
	}

	var likes, marked int
	for i := 0; i < questions; i++ {
		author := ids[rnd.Intn(len(ids))]
		tags := []string{tagPool[rnd.Intn(len(tagPool))], tagPool[rnd.Intn(len(tagPool))]}
		q := must(questionSvc.CreateQuestion(ctx, author, fmt.Sprintf("Question #%d", i), "Seeded question body", tags))

		for l := 0; l < rnd.Intn(likesPer+1); l++ {
			if _, err := likeSvc.ToggleLike(ctx, pick(author), model.TargetQuestion, q.ID, rnd.Intn(5) > 0); err == nil {
				likes++
			}
		}

		var answerIDs []string
		for a := 0; a < answersPer; a++ {
			ans := must(answerSvc.CreateAnswer(ctx, pick(author), q.ID, fmt.Sprintf("Answer %d to question %d", a, i)))
			answerIDs = append(answerIDs, ans.ID)
			for l := 0; l < rnd.Intn(likesPer+1); l++ {
				if _, err := likeSvc.ToggleLike(ctx, pick(ans.AuthorID), model.TargetAnswer, ans.ID, true); err == nil {
					likes++
				}
			}
		}
		if len(answerIDs) > 0 && rnd.Intn(2) == 0 {
			if err := answerSvc.MarkCorrect(ctx, author, answerIDs[rnd.Intn(len(answerIDs))]); err != nil {
				logger.Warn("mark correct failed", zap.Error(err))
				continue
			}
			marked++
		}
	}

	if err := rankSvc.RecalculateRanks(ctx); err != nil {
		logger.Fatal("recalculate ranks", zap.Error(err))
	}
	logger.Info("seed done",
		zap.Int("users", users),
		zap.Int("questions", questions),
		zap.Int("likes", likes),
		zap.Int("marked", marked),
	)
}
