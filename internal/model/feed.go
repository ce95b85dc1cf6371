package model

// 上游接口（football-data.org 风格）的原始报文结构。
// 全部用显式结构体承接，避免 map[string]interface{} 一路透传。

// FeedResponse 单个联赛的比赛列表响应
type FeedResponse struct {
	Matches []FeedMatch `json:"matches"`
}

// FeedMatch 上游单场比赛
type FeedMatch struct {
	ID       int64     `json:"id"`      // 上游数字ID
	UTCDate  string    `json:"utcDate"` // ISO8601 字符串，入库前解析
	Status   string    `json:"status"`  // 上游状态词表（SCHEDULED/IN_PLAY/...）
	Matchday *int      `json:"matchday,omitempty"`
	HomeTeam FeedTeam  `json:"homeTeam"`
	AwayTeam FeedTeam  `json:"awayTeam"`
	Score    FeedScore `json:"score"`
}

// FeedTeam 上游球队引用
type FeedTeam struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName,omitempty"`
	TLA       string `json:"tla,omitempty"` // 3字母简称，如 MUN
}

// FeedScore 上游比分与胜负指示
type FeedScore struct {
	Winner   *string      `json:"winner"` // HOME_TEAM / AWAY_TEAM / DRAW，可缺失
	Duration string       `json:"duration,omitempty"`
	FullTime FeedFullTime `json:"fullTime"`
}

// FeedFullTime 全场比分（未完赛时为 null）
type FeedFullTime struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
