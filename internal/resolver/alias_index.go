package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"MatchSync/internal/interfaces"
	"MatchSync/internal/model"

	"github.com/agext/levenshtein"
	"github.com/sirupsen/logrus"
)

// DefaultFuzzyThreshold 模糊匹配默认阈值。未经精确率/召回率标定，可被配置覆盖
const DefaultFuzzyThreshold = 0.85

// clubTokens 球队名中可剥离的常见前后缀（全部小写比较）
var clubTokens = map[string]bool{
	"fc": true, "cf": true, "afc": true, "cfc": true,
	"ac": true, "sc": true, "fk": true, "bk": true,
	"united": true, "club": true,
}

// nicknameTable 人工维护的昵称表：官方名（剥离后缀后的小写基名）-> 常用昵称
var nicknameTable = map[string][]string{
	"manchester united":       {"man utd", "man united"},
	"manchester city":         {"man city"},
	"tottenham hotspur":       {"spurs"},
	"wolverhampton wanderers": {"wolves"},
	"brighton & hove albion":  {"brighton"},
	"west ham":                {"hammers"},
	"borussia dortmund":       {"bvb"},
	"bayern münchen":          {"bayern", "bayern munich"},
	"internazionale milano":   {"inter", "inter milan"},
	"paris saint-germain":     {"psg"},
	"atlético de madrid":      {"atletico madrid", "atletico"},
}

// leagueCodeMap 上游联赛代码 -> 内部联赛ID 的静态映射
var leagueCodeMap = map[string]string{
	"PL":  "EPL", // Premier League
	"BL1": "BL1", // Bundesliga
	"PD":  "PD",  // La Liga
	"SA":  "SA",  // Serie A
	"FL1": "FL1", // Ligue 1
	"CL":  "UCL", // Champions League
}

// TeamCandidate 搜索返回的候选项（给消歧界面用）
type TeamCandidate struct {
	TeamID   string  `json:"team_id"`
	TeamName string  `json:"team_name"`
	Score    float64 `json:"score"`
}

// AliasIndex 别名索引：任意外部名称 -> 内部球队/联赛 ID。
// 单写者约定：摄取运行按顺序逐条处理，RegisterTeam 在下一条记录评估前同步生效；
// 读写锁只为 API 侧的并发查询兜底，管道内部不依赖它做排序。
type AliasIndex struct {
	store  interfaces.CatalogStore
	logger *logrus.Logger

	mu          sync.RWMutex
	aliases     map[string]string // 规范化别名 -> team_id（多对一）
	teamNames   map[string]string // team_id -> 展示名
	teamLeagues map[string]string // team_id -> league_id（搜索过滤用）
	initialized bool
}

func NewAliasIndex(store interfaces.CatalogStore, logger *logrus.Logger) *AliasIndex {
	return &AliasIndex{
		store:       store,
		logger:      logger,
		aliases:     make(map[string]string),
		teamNames:   make(map[string]string),
		teamLeagues: make(map[string]string),
	}
}

// Initialize 从目录库加载全部球队并构建索引。首次成功后再次调用为幂等空操作
func (a *AliasIndex) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}

	teams, err := a.store.ListTeams(ctx)
	if err != nil {
		return fmt.Errorf("加载球队列表失败: %w", err)
	}
	for _, team := range teams {
		a.indexTeamLocked(team)
	}

	a.initialized = true
	a.logger.Infof("别名索引初始化完成，共加载 %d 条映射", len(a.aliases))
	return nil
}

// Rebuild 全量重建索引（批量人工修正后调用）
func (a *AliasIndex) Rebuild(ctx context.Context) error {
	a.mu.Lock()
	a.aliases = make(map[string]string)
	a.teamNames = make(map[string]string)
	a.teamLeagues = make(map[string]string)
	a.initialized = false
	a.mu.Unlock()
	return a.Initialize(ctx)
}

// RegisterTeam 增量登记新建球队，使同一批次后续记录立即可解析
func (a *AliasIndex) RegisterTeam(team *model.Team) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.indexTeamLocked(team)
}

// indexTeamLocked 为单支球队派生别名集并写入索引。调用方必须持有写锁
func (a *AliasIndex) indexTeamLocked(team *model.Team) {
	a.teamNames[team.TeamID] = team.TeamName
	if team.LeagueID != nil {
		a.teamLeagues[team.TeamID] = *team.LeagueID
	}
	for _, alias := range DeriveAliases(team.TeamName) {
		a.aliases[alias] = team.TeamID
	}
}

// DeriveAliases 从展示名派生别名集：
// 官方名小写、括号译名拆分、逐级剥离球会前后缀与年份后缀、昵称表
func DeriveAliases(displayName string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(strings.ToLower(s))
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	add(displayName)

	// 括号译名："Manchester United (曼联)" -> "manchester united" + "曼联"
	base := displayName
	if i := strings.Index(displayName, "("); i >= 0 {
		base = strings.TrimSpace(displayName[:i])
		add(base)
		rest := displayName[i+1:]
		if j := strings.Index(rest, ")"); j >= 0 {
			add(rest[:j])
		}
	}

	// 逐级剥离的中间形态都入索引（"manchester united fc" -> "manchester united" -> "manchester"）
	for _, variant := range StripVariants(base) {
		add(variant)
	}

	// 昵称表按已派生的任一别名挂接
	derived := append([]string(nil), out...)
	for _, alias := range derived {
		for _, nick := range nicknameTable[alias] {
			add(nick)
		}
	}
	return out
}

// StripVariants 逐级剥离球会前后缀与纯数字年份后缀，返回所有中间形态（小写）
func StripVariants(name string) []string {
	var variants []string
	words := strings.Fields(strings.ToLower(name))
	variants = append(variants, strings.Join(words, " "))

	// 前缀（如 "FC Bayern München"）
	for len(words) > 1 && clubTokens[words[0]] {
		words = words[1:]
		variants = append(variants, strings.Join(words, " "))
	}
	// 后缀（如 "Manchester United FC"、"Newcastle United"、"Hannover 96"）
	for len(words) > 1 {
		last := words[len(words)-1]
		if clubTokens[last] || isYearToken(last) {
			words = words[:len(words)-1]
			variants = append(variants, strings.Join(words, " "))
			continue
		}
		break
	}
	return variants
}

// StripClubTokens 完全剥离后的形态（StripVariants 的最后一级）
func StripClubTokens(name string) string {
	variants := StripVariants(name)
	return variants[len(variants)-1]
}

func isYearToken(s string) bool {
	if len(s) != 2 && len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ResolveTeam 按默认阈值解析
func (a *AliasIndex) ResolveTeam(ctx context.Context, name, source string) (string, bool) {
	return a.ResolveTeamWithThreshold(ctx, name, source, DefaultFuzzyThreshold)
}

// ResolveTeamWithThreshold 解析外部球队名到内部 ID。
// 级联严格按序短路：精确 -> 剥后缀精确 -> 模糊（>=阈值）。
// 前置策略命中即返回，即使后置策略可能得分更高。
// 全部失败时带最佳候选记一条 warning（供人工标注），返回 ("", false)
func (a *AliasIndex) ResolveTeamWithThreshold(ctx context.Context, name, source string, threshold float64) (string, bool) {
	a.mu.RLock()

	// 策略1：精确匹配（大小写不敏感）
	normalized := strings.TrimSpace(strings.ToLower(name))
	if id, ok := a.aliases[normalized]; ok {
		a.mu.RUnlock()
		return id, true
	}

	// 策略2：剥离球会前后缀后精确匹配
	if id, ok := a.aliases[StripClubTokens(name)]; ok {
		a.mu.RUnlock()
		return id, true
	}

	// 策略3：模糊匹配。别名按字典序遍历，同分取最小别名，保证重建后结果稳定
	bestAlias, bestID, bestScore := "", "", 0.0
	for _, alias := range a.sortedAliasesLocked() {
		score := levenshtein.Similarity(normalized, alias, levenshtein.NewParams())
		if score > bestScore {
			bestScore = score
			bestAlias = alias
			bestID = a.aliases[alias]
		}
	}
	a.mu.RUnlock()

	if bestScore >= threshold {
		a.logger.Infof("模糊匹配成功: '%s' -> %s (别名 '%s'，相似度 %.2f)", name, bestID, bestAlias, bestScore)
		return bestID, true
	}

	// 兜底：目录库按名称模糊查一次（索引可能落后于库内人工修正）
	if team, err := a.store.FindTeamByNameLike(ctx, StripClubTokens(name)); err == nil && team != nil {
		a.RegisterTeam(team)
		a.logger.Infof("目录库兜底命中: '%s' -> %s", name, team.TeamID)
		return team.TeamID, true
	}

	a.logger.WithFields(logrus.Fields{
		"name":       name,
		"source":     source,
		"best_match": bestAlias,
		"best_score": fmt.Sprintf("%.2f", bestScore),
	}).Warn("无法解析球队名称，待人工标注")
	return "", false
}

// ResolveLeague 上游联赛代码 -> 内部联赛 ID
func (a *AliasIndex) ResolveLeague(code string) (string, bool) {
	id, ok := leagueCodeMap[code]
	return id, ok
}

// SearchTeams 按相似度取 Top-N 候选（不做阈值截断，给消歧界面用）。
// leagueFilter 非空时只在该联赛内搜索
func (a *AliasIndex) SearchTeams(query string, limit int, leagueFilter string) []TeamCandidate {
	if limit <= 0 {
		limit = 10
	}
	normalized := strings.TrimSpace(strings.ToLower(query))

	a.mu.RLock()
	// 每支球队取其别名集中的最高相似度
	bestByTeam := make(map[string]float64)
	for alias, teamID := range a.aliases {
		if leagueFilter != "" && a.teamLeagues[teamID] != leagueFilter {
			continue
		}
		score := levenshtein.Similarity(normalized, alias, levenshtein.NewParams())
		if score > bestByTeam[teamID] {
			bestByTeam[teamID] = score
		}
	}
	candidates := make([]TeamCandidate, 0, len(bestByTeam))
	for teamID, score := range bestByTeam {
		candidates = append(candidates, TeamCandidate{
			TeamID:   teamID,
			TeamName: a.teamNames[teamID],
			Score:    score,
		})
	}
	a.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].TeamID < candidates[j].TeamID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// sortedAliasesLocked 别名字典序快照。调用方必须持有读锁
func (a *AliasIndex) sortedAliasesLocked() []string {
	keys := make([]string, 0, len(a.aliases))
	for k := range a.aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
