package normalizer

import "MatchSync/internal/model"

// statusMap 上游状态词表 -> 内部状态词表
var statusMap = map[string]string{
	"SCHEDULED": model.StatusFixture,
	"TIMED":     model.StatusFixture,
	"IN_PLAY":   model.StatusLive,
	"PAUSED":    model.StatusLive,
	"FINISHED":  model.StatusFinished,
	"POSTPONED": model.StatusPostponed,
	"CANCELLED": model.StatusCancelled,
	"SUSPENDED": model.StatusSuspended,
}

// winnerMap 上游胜负指示 -> H/D/A
var winnerMap = map[string]string{
	"HOME_TEAM": model.ResultHome,
	"AWAY_TEAM": model.ResultAway,
	"DRAW":      model.ResultDraw,
}

// MapStatus 转换上游状态；未知状态兜底为 FIXTURE
func MapStatus(upstream string) string {
	if status, ok := statusMap[upstream]; ok {
		return status
	}
	return model.StatusFixture
}

// InferResult 推导比赛结果。只有内部状态为 FINISHED 且上游给出明确
// winner 指示时才有值；不从比分反推（比分齐全也返回 nil）
func InferResult(status string, winner *string) *string {
	if status != model.StatusFinished || winner == nil {
		return nil
	}
	if result, ok := winnerMap[*winner]; ok {
		return &result
	}
	return nil
}
