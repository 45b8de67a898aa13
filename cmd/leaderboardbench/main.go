package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/config"
	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/internal/service"
	"github.com/d60-Lab/qa-forum/pkg/database"
)

// 对比排行榜在无缓存 / TTL 缓存 / 重算即失效 三种策略下的读延迟
func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	userCount := envInt("USERS", 20000)
	reqCount := envInt("REQS", 5000)
	recalcEvery := envInt("RECALC_EVERY", 500)

	fmt.Printf("Seeding %d users...\n", userCount)
	seedUsers(db, userCount)

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", cfg.Redis.Addr, err))
	}

	users := repository.NewUserRepository(db)
	rankSvc := func(lb *service.Leaderboard) service.RankService { return service.NewRankService(db, lb) }
	limits := makeLimits(reqCount)

	noCache := service.NewLeaderboard(users, nil, service.LeaderboardOptions{MaxLimit: cfg.Leaderboard.MaxLimit})
	ttlCache := cache.New(client)
	ttl := service.NewLeaderboard(users, ttlCache, service.LeaderboardOptions{
		TTL: cfg.Leaderboard.TTL, MaxLimit: cfg.Leaderboard.MaxLimit,
	})
	invCache := cache.New(client)
	invalidating := service.NewLeaderboard(users, invCache, service.LeaderboardOptions{
		TTL: cfg.Leaderboard.TTL, MaxLimit: cfg.Leaderboard.MaxLimit, InvalidateOnRecalc: true,
	})

	results := []struct {
		name string
		res  scenarioResult
	}{
		{"No cache", runScenario(ctx, client, nil, noCache, rankSvc(noCache), limits, recalcEvery)},
		{"TTL cache", runScenario(ctx, client, ttlCache, ttl, rankSvc(ttl), limits, recalcEvery)},
		{"Invalidate on recalc", runScenario(ctx, client, invCache, invalidating, rankSvc(invalidating), limits, recalcEvery)},
	}

	fmt.Printf("\nLeaderboard latency (%d req, %d users, recalc every %d req)\n", reqCount, userCount, recalcEvery)
	for _, r := range results {
		fmt.Printf("%-22s avg=%v p95=%v p99=%v hits=%d misses=%d loads=%d cache_keys=%d mem=%s\n",
			r.name, avg(r.res.durations), pct(r.res.durations, 0.95), pct(r.res.durations, 0.99),
			r.res.counters.Hits, r.res.counters.Misses, r.res.counters.Loads,
			r.res.cacheKeys, formatBytes(r.res.memoryBytes),
		)
	}
}

type scenarioResult struct {
	durations   []time.Duration
	counters    cache.Counters
	cacheKeys   int
	memoryBytes int64
}

func runScenario(ctx context.Context, client *redis.Client, c *cache.JSONCache, lb *service.Leaderboard, ranks service.RankService, limits []int, recalcEvery int) scenarioResult {
	client.FlushAll(ctx)
	if c != nil {
		c.ResetCounters()
	}

	fmt.Print("  Running benchmark...")
	out := make([]time.Duration, 0, len(limits))
	for i, limit := range limits {
		if recalcEvery > 0 && i > 0 && i%recalcEvery == 0 {
			mustDo(ranks.RecalculateRanks(ctx))
		}
		start := time.Now()
		if _, err := lb.GetTopUsers(ctx, limit); err != nil {
			panic(err)
		}
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")

	keys, _ := client.Keys(ctx, "leaderboard:*").Result()
	info, err := client.Info(ctx, "memory").Result()
	var memBytes int64
	if err == nil {
		memBytes = parseRedisMemory(info)
	}

	res := scenarioResult{durations: out, cacheKeys: len(keys), memoryBytes: memBytes}
	if c != nil {
		res.counters = c.Counters()
	}
	return res
}

func seedUsers(db *gorm.DB, n int) {
	rnd := rand.New(rand.NewSource(42))
	rows := make([]model.User, n)
	for i := range rows {
		id := uuid.NewString()
		rows[i] = model.User{
			ID:       id,
			Username: "bench_" + id[:12],
			Email:    id[:12] + "@example.com",
			Password: "secret",
			// 长尾分布：大部分用户评分很低
			Rating: int(math.Floor(rnd.ExpFloat64() * 20)),
		}
	}
	mustDo(db.CreateInBatches(&rows, 1000).Error)
}

// 大部分请求是默认的前 10 名，少量请求更长的榜单
func makeLimits(n int) []int {
	sizes := []int{10, 10, 10, 10, 25, 50, 100}
	out := make([]int, n)
	rnd := rand.New(rand.NewSource(7))
	for i := range out {
		out[i] = sizes[rnd.Intn(len(sizes))]
	}
	return out
}

func parseRedisMemory(info string) int64 {
	for _, line := range strings.Split(info, "\r\n") {
		if v, ok := strings.CutPrefix(line, "used_memory:"); ok {
			n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			return n
		}
	}
	return 0
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
