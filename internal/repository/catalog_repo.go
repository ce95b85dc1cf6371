package repository

import (
	"context"
	"errors"
	"time"

	"MatchSync/internal/interfaces"
	"MatchSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// catalogRepository CatalogStore 的 GORM 实现（PostgreSQL）
type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) interfaces.CatalogStore {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetTeamByID(ctx context.Context, teamID string) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).Where("team_id = ?", teamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *catalogRepository) FindTeamByNameLike(ctx context.Context, pattern string) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).Where("team_name ILIKE ?", "%"+pattern+"%").First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *catalogRepository) InsertTeamIfAbsent(ctx context.Context, team *model.Team) error {
	// ON CONFLICT DO NOTHING：摄取中途并发建队或重复批次都不报错
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}},
		DoNothing: true,
	}).Create(team).Error
}

// UpsertMatch 幂等写入：冲突时只更新可变字段，created_at 与标识字段不覆盖
func (r *catalogRepository) UpsertMatch(ctx context.Context, match *model.Match) error {
	match.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "home_score", "away_score", "result", "kickoff", "updated_at"}),
	}).Create(match).Error
}

func (r *catalogRepository) GetLeagueByID(ctx context.Context, leagueID string) (*model.League, error) {
	var league model.League
	if err := r.db.WithContext(ctx).Where("league_id = ?", leagueID).First(&league).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &league, nil
}

func (r *catalogRepository) ListLeagues(ctx context.Context) ([]*model.League, error) {
	var leagues []*model.League
	if err := r.db.WithContext(ctx).Order("league_id ASC").Find(&leagues).Error; err != nil {
		return nil, err
	}
	return leagues, nil
}

func (r *catalogRepository) ListTeams(ctx context.Context) ([]*model.Team, error) {
	var teams []*model.Team
	if err := r.db.WithContext(ctx).Order("team_id ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}
