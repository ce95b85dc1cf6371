package normalizer

import (
	"testing"

	"MatchSync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		upstream string
		want     string
	}{
		{"SCHEDULED", model.StatusFixture},
		{"TIMED", model.StatusFixture},
		{"IN_PLAY", model.StatusLive},
		{"PAUSED", model.StatusLive},
		{"FINISHED", model.StatusFinished},
		{"POSTPONED", model.StatusPostponed},
		{"CANCELLED", model.StatusCancelled},
		{"SUSPENDED", model.StatusSuspended},
	}
	for _, tt := range tests {
		t.Run(tt.upstream, func(t *testing.T) {
			assert.Equal(t, tt.want, MapStatus(tt.upstream))
		})
	}
}

// 未知上游状态兜底为 FIXTURE
func TestMapStatus_UnknownDefaultsToFixture(t *testing.T) {
	assert.Equal(t, model.StatusFixture, MapStatus("AWARDED"))
	assert.Equal(t, model.StatusFixture, MapStatus(""))
}

func TestInferResult_WinnerIndicator(t *testing.T) {
	winner := "AWAY_TEAM"
	result := InferResult(model.StatusFinished, &winner)
	require.NotNil(t, result)
	assert.Equal(t, model.ResultAway, *result)

	winner = "HOME_TEAM"
	result = InferResult(model.StatusFinished, &winner)
	require.NotNil(t, result)
	assert.Equal(t, model.ResultHome, *result)

	winner = "DRAW"
	result = InferResult(model.StatusFinished, &winner)
	require.NotNil(t, result)
	assert.Equal(t, model.ResultDraw, *result)
}

// 没有明确 winner 指示时不反推结果，即使比分齐全
func TestInferResult_NoWinnerStaysNil(t *testing.T) {
	assert.Nil(t, InferResult(model.StatusFinished, nil))
}

// 非完赛状态永远不产生结果
func TestInferResult_NotFinishedStaysNil(t *testing.T) {
	winner := "HOME_TEAM"
	assert.Nil(t, InferResult(model.StatusLive, &winner))
	assert.Nil(t, InferResult(model.StatusFixture, &winner))
}

func TestInferResult_UnknownWinnerStaysNil(t *testing.T) {
	winner := "UNKNOWN_TOKEN"
	assert.Nil(t, InferResult(model.StatusFinished, &winner))
}
