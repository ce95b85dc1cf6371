package resolver

import (
	"context"
	"io"
	"testing"

	"MatchSync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore 内存版 CatalogStore，只实现索引用到的方法
type fakeStore struct {
	teams     []*model.Team
	listCalls int
}

func (f *fakeStore) ListTeams(ctx context.Context) ([]*model.Team, error) {
	f.listCalls++
	return f.teams, nil
}

func (f *fakeStore) GetTeamByID(ctx context.Context, teamID string) (*model.Team, error) {
	for _, t := range f.teams {
		if t.TeamID == teamID {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindTeamByNameLike(ctx context.Context, pattern string) (*model.Team, error) {
	return nil, nil
}

func (f *fakeStore) InsertTeamIfAbsent(ctx context.Context, team *model.Team) error { return nil }
func (f *fakeStore) UpsertMatch(ctx context.Context, match *model.Match) error      { return nil }
func (f *fakeStore) GetLeagueByID(ctx context.Context, leagueID string) (*model.League, error) {
	return nil, nil
}
func (f *fakeStore) ListLeagues(ctx context.Context) ([]*model.League, error) { return nil, nil }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func strPtr(s string) *string { return &s }

func seededIndex(t *testing.T, teams ...*model.Team) (*AliasIndex, *fakeStore) {
	t.Helper()
	store := &fakeStore{teams: teams}
	index := NewAliasIndex(store, testLogger())
	require.NoError(t, index.Initialize(context.Background()))
	return index, store
}

func TestInitialize_Idempotent(t *testing.T) {
	index, store := seededIndex(t, &model.Team{TeamID: "MUN", TeamName: "Manchester United FC (曼联)"})
	require.NoError(t, index.Initialize(context.Background()))
	require.NoError(t, index.Initialize(context.Background()))
	assert.Equal(t, 1, store.listCalls, "重复 Initialize 不应再查库")
}

func TestResolveTeam_ExactMatch(t *testing.T) {
	index, _ := seededIndex(t,
		&model.Team{TeamID: "MUN", TeamName: "Manchester United FC (曼联)"},
		&model.Team{TeamID: "LIV", TeamName: "Liverpool FC (利物浦)"},
	)

	id, ok := index.ResolveTeam(context.Background(), "Manchester United FC", "test")
	require.True(t, ok)
	assert.Equal(t, "MUN", id)

	// 大小写不敏感
	id, ok = index.ResolveTeam(context.Background(), "liverpool fc", "test")
	require.True(t, ok)
	assert.Equal(t, "LIV", id)

	// 括号译名
	id, ok = index.ResolveTeam(context.Background(), "曼联", "test")
	require.True(t, ok)
	assert.Equal(t, "MUN", id)

	id, ok = index.ResolveTeam(context.Background(), "利物浦", "test")
	require.True(t, ok)
	assert.Equal(t, "LIV", id)
}

func TestResolveTeam_StrippedMatch(t *testing.T) {
	index, _ := seededIndex(t, &model.Team{TeamID: "NEW", TeamName: "Newcastle United FC"})

	id, ok := index.ResolveTeam(context.Background(), "Newcastle United", "test")
	require.True(t, ok)
	assert.Equal(t, "NEW", id)

	id, ok = index.ResolveTeam(context.Background(), "Newcastle", "test")
	require.True(t, ok)
	assert.Equal(t, "NEW", id)
}

func TestResolveTeam_Nickname(t *testing.T) {
	index, _ := seededIndex(t, &model.Team{TeamID: "TOT", TeamName: "Tottenham Hotspur FC"})

	id, ok := index.ResolveTeam(context.Background(), "Spurs", "test")
	require.True(t, ok)
	assert.Equal(t, "TOT", id)
}

// 级联短路：剥后缀精确命中必须赢过得分更高的模糊候选
func TestResolveTeam_CascadeOrdering(t *testing.T) {
	index, _ := seededIndex(t,
		&model.Team{TeamID: "BRE", TeamName: "Brentford"},
		&model.Team{TeamID: "BRB", TeamName: "Brentford FC B"},
	)

	// "brentford fc" 对 "brentford fc b" 的模糊相似度高于对 "brentford"，
	// 但剥后缀后精确命中 BRE，级联在策略2短路
	id, ok := index.ResolveTeam(context.Background(), "Brentford FC", "test")
	require.True(t, ok)
	assert.Equal(t, "BRE", id)
}

// 阈值边界：相似度恰好等于阈值可解析，低于则不行
func TestResolveTeam_ThresholdBoundary(t *testing.T) {
	index, _ := seededIndex(t, &model.Team{TeamID: "ABC", TeamName: "Abcde"})

	// "abcdx" vs "abcde"：编辑距离1，长度5，相似度恰为0.8
	id, ok := index.ResolveTeamWithThreshold(context.Background(), "abcdx", "test", 0.8)
	require.True(t, ok)
	assert.Equal(t, "ABC", id)

	_, ok = index.ResolveTeamWithThreshold(context.Background(), "abcdx", "test", 0.81)
	assert.False(t, ok)
}

// 模糊同分：按别名字典序取最小，且全量重建后结果不变
func TestResolveTeam_DeterministicTieBreak(t *testing.T) {
	index, _ := seededIndex(t,
		&model.Team{TeamID: "T2", TeamName: "aaab"},
		&model.Team{TeamID: "T1", TeamName: "aaaa"},
	)

	id, ok := index.ResolveTeamWithThreshold(context.Background(), "aaac", "test", 0.7)
	require.True(t, ok)
	assert.Equal(t, "T1", id, "同分取字典序最小别名 aaaa")

	require.NoError(t, index.Rebuild(context.Background()))
	id2, ok := index.ResolveTeamWithThreshold(context.Background(), "aaac", "test", 0.7)
	require.True(t, ok)
	assert.Equal(t, id, id2)
}

func TestResolveTeam_NotFound(t *testing.T) {
	index, _ := seededIndex(t, &model.Team{TeamID: "MUN", TeamName: "Manchester United FC"})

	_, ok := index.ResolveTeam(context.Background(), "完全无关的名字", "test")
	assert.False(t, ok)
}

// RegisterTeam 的增量登记立即可见
func TestRegisterTeam_IncrementalUpdate(t *testing.T) {
	index, _ := seededIndex(t)

	_, ok := index.ResolveTeam(context.Background(), "Brentford FC", "test")
	require.False(t, ok)

	index.RegisterTeam(&model.Team{TeamID: "BRE", TeamName: "Brentford FC"})

	id, ok := index.ResolveTeam(context.Background(), "Brentford FC", "test")
	require.True(t, ok)
	assert.Equal(t, "BRE", id)

	// 剥后缀变体同样生效
	id, ok = index.ResolveTeam(context.Background(), "Brentford", "test")
	require.True(t, ok)
	assert.Equal(t, "BRE", id)
}

func TestResolveLeague(t *testing.T) {
	index, _ := seededIndex(t)

	tests := []struct {
		code string
		want string
	}{
		{"PL", "EPL"},
		{"BL1", "BL1"},
		{"PD", "PD"},
		{"SA", "SA"},
		{"FL1", "FL1"},
		{"CL", "UCL"},
	}
	for _, tt := range tests {
		id, ok := index.ResolveLeague(tt.code)
		require.True(t, ok, tt.code)
		assert.Equal(t, tt.want, id)
	}

	_, ok := index.ResolveLeague("XX")
	assert.False(t, ok)
}

// 搜索不截断阈值，按相似度降序
func TestSearchTeams_Ranking(t *testing.T) {
	index, _ := seededIndex(t,
		&model.Team{TeamID: "MUN", TeamName: "Manchester United FC", LeagueID: strPtr("EPL")},
		&model.Team{TeamID: "MCI", TeamName: "Manchester City FC", LeagueID: strPtr("EPL")},
		&model.Team{TeamID: "LIV", TeamName: "Liverpool FC", LeagueID: strPtr("EPL")},
		&model.Team{TeamID: "BAY", TeamName: "FC Bayern München", LeagueID: strPtr("BL1")},
	)

	candidates := index.SearchTeams("manchester", 2, "")
	require.Len(t, candidates, 2)
	assert.Equal(t, "MUN", candidates[0].TeamID, "剥后缀别名 manchester 完全命中")
	assert.GreaterOrEqual(t, candidates[0].Score, candidates[1].Score)

	// 联赛过滤
	filtered := index.SearchTeams("manchester", 10, "BL1")
	for _, c := range filtered {
		assert.Equal(t, "BAY", c.TeamID)
	}
}

func TestDeriveAliases(t *testing.T) {
	aliases := DeriveAliases("Manchester United FC (曼联)")
	assert.Contains(t, aliases, "manchester united fc (曼联)")
	assert.Contains(t, aliases, "manchester united fc")
	assert.Contains(t, aliases, "曼联")
	assert.Contains(t, aliases, "manchester")
	// 昵称表（按剥离后的基名挂接）
	assert.NotContains(t, aliases, "")
}

func TestStripClubTokens(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Manchester United FC", "manchester"},
		{"FC Bayern München", "bayern münchen"},
		{"Hannover 96", "hannover"},
		{"Schalke 04", "schalke"},
		{"Brentford", "brentford"},
		{"AFC Bournemouth", "bournemouth"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripClubTokens(tt.in))
		})
	}
}
