package quality

import (
	"context"
	"fmt"
	"time"

	"MatchSync/internal/model"
	"MatchSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// Alert 质量告警
type Alert struct {
	Severity string `json:"severity"` // warning/error
	Message  string `json:"message"`
}

// Report 数据质量报告（新鲜度/完整性/一致性/覆盖率）
type Report struct {
	GeneratedAt         time.Time        `json:"generated_at"`
	LastUpdateHoursAgo  *float64         `json:"last_update_hours_ago,omitempty"`
	TotalMatches        int64            `json:"total_matches"`
	MissingScores       int64            `json:"missing_scores"`
	MissingResults      int64            `json:"missing_results"`
	InconsistentResults int64            `json:"inconsistent_results"`
	MatchesByLeague     map[string]int64 `json:"matches_by_league"`
	Alerts              []Alert          `json:"alerts"`
}

// Monitor 数据质量监控器。只读目录库，不在摄取关键路径上
type Monitor struct {
	repo   repository.QualityRepository
	logger *logrus.Logger
}

func NewMonitor(repo repository.QualityRepository, logger *logrus.Logger) *Monitor {
	return &Monitor{repo: repo, logger: logger}
}

// Run 生成一次完整质量报告
func (m *Monitor) Run(ctx context.Context) (*Report, error) {
	report := &Report{GeneratedAt: time.Now().UTC()}

	// 新鲜度
	last, err := m.repo.LastMatchUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询最近更新时间失败: %w", err)
	}
	if last == nil {
		report.Alerts = append(report.Alerts, Alert{Severity: "error", Message: "数据库中无任何比赛数据"})
	} else {
		hours := time.Since(*last).Hours()
		report.LastUpdateHoursAgo = &hours
		if hours > 24 {
			report.Alerts = append(report.Alerts, Alert{
				Severity: "warning",
				Message:  fmt.Sprintf("数据已超过 %.1f 小时未更新", hours),
			})
		}
	}

	// 完整性
	if report.TotalMatches, err = m.repo.CountMatches(ctx); err != nil {
		return nil, fmt.Errorf("统计比赛总数失败: %w", err)
	}
	if report.MissingScores, err = m.repo.CountFinishedMissingScores(ctx); err != nil {
		return nil, fmt.Errorf("统计缺失比分失败: %w", err)
	}
	if report.MissingResults, err = m.repo.CountFinishedMissingResult(ctx); err != nil {
		return nil, fmt.Errorf("统计缺失结果失败: %w", err)
	}
	if report.MissingScores > 0 {
		report.Alerts = append(report.Alerts, Alert{
			Severity: "warning",
			Message:  fmt.Sprintf("%d 场已完成比赛缺少比分数据", report.MissingScores),
		})
	}
	if report.MissingResults > 0 {
		report.Alerts = append(report.Alerts, Alert{
			Severity: "warning",
			Message:  fmt.Sprintf("%d 场已完成比赛缺少结果字段", report.MissingResults),
		})
	}

	// 一致性：result 与比分必须吻合
	finished, err := m.repo.ListFinishedWithFullData(ctx, 1000)
	if err != nil {
		return nil, fmt.Errorf("抽取完赛记录失败: %w", err)
	}
	for _, match := range finished {
		if !resultConsistent(match) {
			report.InconsistentResults++
		}
	}
	if report.InconsistentResults > 0 {
		report.Alerts = append(report.Alerts, Alert{
			Severity: "error",
			Message:  fmt.Sprintf("%d 场比赛的结果与比分不一致", report.InconsistentResults),
		})
	}

	// 覆盖率
	if report.MatchesByLeague, err = m.repo.CountMatchesByLeague(ctx); err != nil {
		return nil, fmt.Errorf("统计联赛覆盖失败: %w", err)
	}

	m.logger.Infof("质量报告生成完成：%d 条告警", len(report.Alerts))
	return report, nil
}

// resultConsistent 校验 H/D/A 与比分方向一致
func resultConsistent(m *model.Match) bool {
	if m.HomeScore == nil || m.AwayScore == nil || m.Result == nil {
		return true
	}
	switch *m.Result {
	case model.ResultHome:
		return *m.HomeScore > *m.AwayScore
	case model.ResultAway:
		return *m.AwayScore > *m.HomeScore
	case model.ResultDraw:
		return *m.HomeScore == *m.AwayScore
	default:
		return false
	}
}
