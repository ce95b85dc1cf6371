package quality

import (
	"fmt"

	"MatchSync/internal/model"
)

// 完赛比分的合理上限（含）。超出视为上游脏数据
const MaxSaneScore = 20

// ValidateMatch 入库前的数据质量门禁。任一检查不通过即拒绝，
// 返回可读原因；协调器对失败只做跳过并计数，绝不中止批次
func ValidateMatch(m *model.Match) (bool, string) {
	// 1. 必填字段
	if m.MatchID == "" {
		return false, "缺少字段 match_id"
	}
	if m.LeagueID == "" {
		return false, "缺少字段 league_id"
	}
	if m.HomeTeamID == "" {
		return false, "缺少字段 home_team_id"
	}
	if m.AwayTeamID == "" {
		return false, "缺少字段 away_team_id"
	}
	if m.Kickoff.IsZero() {
		return false, "缺少字段 kickoff"
	}

	// 2. 已完赛必须有双方比分，且在合理范围内
	if m.Status == model.StatusFinished {
		if m.HomeScore == nil || m.AwayScore == nil {
			return false, "已结束比赛缺少比分"
		}
		if *m.HomeScore < 0 || *m.AwayScore < 0 || *m.HomeScore > MaxSaneScore || *m.AwayScore > MaxSaneScore {
			return false, fmt.Sprintf("比分异常 %d:%d", *m.HomeScore, *m.AwayScore)
		}
	}

	// 3. 主客队不能相同
	if m.HomeTeamID == m.AwayTeamID {
		return false, fmt.Sprintf("主客队相同: %s", m.HomeTeamID)
	}

	return true, ""
}
