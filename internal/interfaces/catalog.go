package interfaces

import (
	"context"

	"MatchSync/internal/model"
)

// CatalogStore 目录存储的窄接口。实体对齐与摄取协调器只依赖这组方法，
// 底层是事务型关系库（见 repository 包的 GORM 实现）。
type CatalogStore interface {
	GetTeamByID(ctx context.Context, teamID string) (*model.Team, error)
	// FindTeamByNameLike 按名称模糊查找（解析失败时的兜底查询）
	FindTeamByNameLike(ctx context.Context, pattern string) (*model.Team, error)
	// InsertTeamIfAbsent 已存在则不动（ON CONFLICT DO NOTHING），不报冲突错
	InsertTeamIfAbsent(ctx context.Context, team *model.Team) error
	// UpsertMatch 按 match_id 幂等写入：不存在则插入；
	// 已存在只更新可变字段（status/比分/result/kickoff/updated_at），created_at 与标识字段不动
	UpsertMatch(ctx context.Context, match *model.Match) error
	GetLeagueByID(ctx context.Context, leagueID string) (*model.League, error)
	ListLeagues(ctx context.Context) ([]*model.League, error)
	ListTeams(ctx context.Context) ([]*model.Team, error)
}

// FeedSource 上游数据源。dateFrom/dateTo 为 ISO 日期字符串，空串表示不限
type FeedSource interface {
	FetchMatches(ctx context.Context, competitionCode, dateFrom, dateTo string) ([]model.FeedMatch, error)
}
