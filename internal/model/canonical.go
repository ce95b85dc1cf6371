package model

import (
	"time"

	"gorm.io/datatypes"
)

// 比赛状态枚举（入库后的统一词表）
const (
	StatusFixture   = "FIXTURE"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
	StatusSuspended = "SUSPENDED"
)

// 比赛结果枚举（H=主胜 D=平 A=客胜）
const (
	ResultHome = "H"
	ResultDraw = "D"
	ResultAway = "A"
)

// League 联赛主数据（种子导入后基本不变，仅允许改名）
type League struct {
	LeagueID   string    `gorm:"column:league_id;primaryKey;type:varchar(16);comment:联赛稳定短码"`
	LeagueName string    `gorm:"column:league_name;type:varchar(128);not null;comment:联赛名称"`
	Country    string    `gorm:"column:country;type:varchar(64);comment:所属国家"`
	Tier       int       `gorm:"column:tier;type:int;default:1;comment:级别（1=顶级）"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt  time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// Team 球队主数据。team_id 首次见到时由 TLA 或全名首字母确定，之后不变
type Team struct {
	TeamID    string    `gorm:"column:team_id;primaryKey;type:varchar(16);comment:球队稳定短码"`
	TeamName  string    `gorm:"column:team_name;type:varchar(128);not null;comment:球队展示名（可含括号译名）"`
	LeagueID  *string   `gorm:"column:league_id;type:varchar(16);comment:所属联赛ID（可为空/可重新归属）"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// Match 比赛记录。match_id = 联赛代码_上游数字ID，保证重复摄取幂等。
// 本管道只插入和更新可变字段，从不删除。
type Match struct {
	MatchID    string         `gorm:"column:match_id;primaryKey;type:varchar(32);comment:确定性比赛ID"`
	LeagueID   string         `gorm:"column:league_id;type:varchar(16);index;not null;comment:联赛ID"`
	HomeTeamID string         `gorm:"column:home_team_id;type:varchar(16);not null;comment:主队ID"`
	AwayTeamID string         `gorm:"column:away_team_id;type:varchar(16);not null;comment:客队ID"`
	Kickoff    time.Time      `gorm:"column:kickoff;type:timestamp;index;not null;comment:开球时间(UTC)"`
	Status     string         `gorm:"column:status;type:varchar(16);default:FIXTURE;comment:比赛状态"`
	HomeScore  *int           `gorm:"column:home_score;type:int;comment:主队比分（仅FINISHED有值）"`
	AwayScore  *int           `gorm:"column:away_score;type:int;comment:客队比分（仅FINISHED有值）"`
	Result     *string        `gorm:"column:result;type:varchar(1);comment:结果 H/D/A"`
	SourceTags datatypes.JSON `gorm:"column:source_tags;type:jsonb;comment:数据来源标签"`
	CreatedAt  time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (League) TableName() string { return "leagues" }
func (Team) TableName() string   { return "teams" }
func (Match) TableName() string  { return "matches" }
