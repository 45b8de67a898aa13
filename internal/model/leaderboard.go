package model

// LeaderboardEntry 排行榜条目（不落库，计算后缓存）
// Delta = 上次持久化的名次 - 当前计算名次，正数表示上升
type LeaderboardEntry struct {
	User  UserSummary `json:"user"`
	Rank  int         `json:"rank"`
	Delta int         `json:"delta"`
}
