package repository

import (
	"context"
	"time"

	"MatchSync/internal/model"

	"gorm.io/gorm"
)

// QualityRepository 数据质量只读统计（给质量报告用，不在摄取关键路径上）
type QualityRepository interface {
	LastMatchUpdate(ctx context.Context) (*time.Time, error)
	CountMatches(ctx context.Context) (int64, error)
	// CountFinishedMissingScores 已完赛但缺比分的数量（完整性）
	CountFinishedMissingScores(ctx context.Context) (int64, error)
	// CountFinishedMissingResult 已完赛但缺 result 字段的数量
	CountFinishedMissingResult(ctx context.Context) (int64, error)
	// ListFinishedWithFullData 取出比分与 result 俱全的完赛记录（一致性抽查）
	ListFinishedWithFullData(ctx context.Context, limit int) ([]*model.Match, error)
	// CountMatchesByLeague 各联赛比赛数（覆盖率）
	CountMatchesByLeague(ctx context.Context) (map[string]int64, error)
}

type qualityRepository struct {
	db *gorm.DB
}

func NewQualityRepository(db *gorm.DB) QualityRepository {
	return &qualityRepository{db: db}
}

func (r *qualityRepository) LastMatchUpdate(ctx context.Context) (*time.Time, error) {
	var last *time.Time
	if err := r.db.WithContext(ctx).Model(&model.Match{}).
		Select("max(updated_at)").Scan(&last).Error; err != nil {
		return nil, err
	}
	return last, nil
}

func (r *qualityRepository) CountMatches(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Match{}).Count(&total).Error
	return total, err
}

func (r *qualityRepository) CountFinishedMissingScores(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("status = ?", model.StatusFinished).
		Where("home_score IS NULL OR away_score IS NULL").
		Count(&n).Error
	return n, err
}

func (r *qualityRepository) CountFinishedMissingResult(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("status = ? AND result IS NULL", model.StatusFinished).
		Count(&n).Error
	return n, err
}

func (r *qualityRepository) ListFinishedWithFullData(ctx context.Context, limit int) ([]*model.Match, error) {
	if limit <= 0 || limit > 5000 {
		limit = 1000
	}
	var matches []*model.Match
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusFinished).
		Where("home_score IS NOT NULL AND away_score IS NOT NULL AND result IS NOT NULL").
		Order("kickoff DESC").Limit(limit).Find(&matches).Error
	return matches, err
}

func (r *qualityRepository) CountMatchesByLeague(ctx context.Context) (map[string]int64, error) {
	type row struct {
		LeagueID string
		N        int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&model.Match{}).
		Select("league_id, count(*) as n").Group("league_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.LeagueID] = r.N
	}
	return counts, nil
}
