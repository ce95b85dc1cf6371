package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"MatchSync/internal/config"
	"MatchSync/internal/interfaces"
	"MatchSync/internal/model"
	"MatchSync/internal/normalizer"
	"MatchSync/internal/quality"
	"MatchSync/internal/resolver"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Stats 单联赛摄取统计。恒等式：TotalFetched = SuccessfullyIngested +
// FailedResolution + SkippedValidation + Errors
type Stats struct {
	TotalFetched         int `json:"total_fetched"`
	SuccessfullyIngested int `json:"successfully_ingested"`
	FailedResolution     int `json:"failed_resolution"`
	SkippedValidation    int `json:"skipped_validation"`
	Errors               int `json:"errors"`
}

// Add 合并统计（跨联赛聚合用）
func (s *Stats) Add(other Stats) {
	s.TotalFetched += other.TotalFetched
	s.SuccessfullyIngested += other.SuccessfullyIngested
	s.FailedResolution += other.FailedResolution
	s.SkippedValidation += other.SkippedValidation
	s.Errors += other.Errors
}

// Summary 整次运行的汇总（调度方可见的唯一产出）
type Summary struct {
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	Stats
}

// feedProvenanceTag 所有经本管道入库的比赛都会带上的来源标签
const feedProvenanceTag = "ImportedFromAPI"

// IngestService 摄取协调器：逐联赛、逐记录驱动
// 解析 -> 标准化 -> 校验 -> 幂等入库 的完整管道。
// 单写者顺序执行：别名索引必须在下一条记录评估前完成增量更新，
// 因此内部不做并行
type IngestService struct {
	store  interfaces.CatalogStore
	feed   interfaces.FeedSource
	index  *resolver.AliasIndex
	cfg    *config.Config
	logger *logrus.Logger

	mu          sync.Mutex
	lastSummary *Summary
}

func NewIngestService(store interfaces.CatalogStore, feed interfaces.FeedSource, index *resolver.AliasIndex, cfg *config.Config, logger *logrus.Logger) *IngestService {
	return &IngestService{
		store:  store,
		feed:   feed,
		index:  index,
		cfg:    cfg,
		logger: logger,
	}
}

// IngestLeague 摄取单个联赛。incremental 时窗口为 [now-daysBack, now+30d]，
// 否则不限。联赛级失败（代码无法解析、拉取彻底失败）返回 error；
// 记录级失败只计数不上抛
func (s *IngestService) IngestLeague(ctx context.Context, leagueCode string, incremental bool, daysBack int) (Stats, error) {
	var stats Stats

	// 1. 解析联赛ID
	leagueID, ok := s.index.ResolveLeague(leagueCode)
	if !ok {
		return stats, fmt.Errorf("无法解析联赛代码: %s", leagueCode)
	}

	// 2. 确定时间范围（增量 vs 全量）
	var dateFrom, dateTo string
	if incremental {
		now := time.Now().UTC()
		dateFrom = now.AddDate(0, 0, -daysBack).Format("2006-01-02")
		dateTo = now.AddDate(0, 0, 30).Format("2006-01-02")
		s.logger.Infof("增量更新模式: %s 到 %s", dateFrom, dateTo)
	}

	// 3. 拉取数据（重试在客户端内部完成；认证失败会直接到这里）
	matches, err := s.feed.FetchMatches(ctx, leagueCode, dateFrom, dateTo)
	if err != nil {
		return stats, fmt.Errorf("获取联赛 %s 数据失败: %w", leagueCode, err)
	}
	stats.TotalFetched = len(matches)

	// 4. 逐条处理，单条失败隔离
	for i := range matches {
		s.processRecord(ctx, leagueCode, leagueID, &matches[i], &stats)
	}

	s.logger.Infof("联赛 %s 摄取完成: 获取 %d / 入库 %d / 解析失败 %d / 校验跳过 %d / 错误 %d",
		leagueCode, stats.TotalFetched, stats.SuccessfullyIngested,
		stats.FailedResolution, stats.SkippedValidation, stats.Errors)
	return stats, nil
}

// processRecord 单条记录管道。任何意外 panic/错误都收敛在本条记录内
func (s *IngestService) processRecord(ctx context.Context, leagueCode, leagueID string, fm *model.FeedMatch, stats *Stats) {
	matchID := fmt.Sprintf("%s_%d", leagueCode, fm.ID)
	defer func() {
		if p := recover(); p != nil {
			stats.Errors++
			s.logger.Errorf("处理比赛 %s 时发生意外异常: %v", matchID, p)
		}
	}()

	// 4.1 实体对齐（未命中则自动建队并即时登记索引）
	homeID, ok := s.resolveOrCreateTeam(ctx, &fm.HomeTeam, leagueID)
	if !ok {
		stats.FailedResolution++
		s.logger.Warnf("跳过无法处理的比赛 %s: %s vs %s", matchID, fm.HomeTeam.Name, fm.AwayTeam.Name)
		return
	}
	awayID, ok := s.resolveOrCreateTeam(ctx, &fm.AwayTeam, leagueID)
	if !ok {
		stats.FailedResolution++
		s.logger.Warnf("跳过无法处理的比赛 %s: %s vs %s", matchID, fm.HomeTeam.Name, fm.AwayTeam.Name)
		return
	}

	// 4.2 词表标准化
	status := normalizer.MapStatus(fm.Status)
	result := normalizer.InferResult(status, fm.Score.Winner)

	// 开球时间解析失败保持零值，交给校验器按缺失字段拒绝
	kickoff, err := time.Parse(time.RFC3339, fm.UTCDate)
	if err != nil {
		kickoff = time.Time{}
	}

	// 比分只在完赛状态下入库
	var homeScore, awayScore *int
	if status == model.StatusFinished {
		homeScore = fm.Score.FullTime.Home
		awayScore = fm.Score.FullTime.Away
	}

	tags, _ := json.Marshal([]string{feedProvenanceTag, leagueCode})
	match := &model.Match{
		MatchID:    matchID,
		LeagueID:   leagueID,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		Kickoff:    kickoff,
		Status:     status,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		Result:     result,
		SourceTags: datatypes.JSON(tags),
	}

	// 4.3 数据质量门禁（失败只跳过计数）
	if ok, reason := quality.ValidateMatch(match); !ok {
		stats.SkippedValidation++
		s.logger.Warnf("数据质量检查失败 %s: %s", matchID, reason)
		return
	}

	// 4.4 幂等入库（插入或只更新可变字段）
	if err := s.store.UpsertMatch(ctx, match); err != nil {
		stats.Errors++
		s.logger.WithError(err).Errorf("比赛 %s 入库失败", matchID)
		return
	}
	stats.SuccessfullyIngested++
}

// resolveOrCreateTeam 解析球队；解析不到则自动创建并登记索引。
// 返回 ("", false) 仅当创建本身失败（如持久化错误）
func (s *IngestService) resolveOrCreateTeam(ctx context.Context, ft *model.FeedTeam, leagueID string) (string, bool) {
	threshold := s.cfg.Resolver.FuzzyThreshold
	if id, ok := s.index.ResolveTeamWithThreshold(ctx, ft.Name, "football-data.org", threshold); ok {
		return id, true
	}

	team := &model.Team{
		TeamID:   DeriveTeamID(ft.Name, ft.TLA),
		TeamName: ft.Name,
		LeagueID: &leagueID,
	}
	if err := s.store.InsertTeamIfAbsent(ctx, team); err != nil {
		s.logger.WithError(err).Errorf("创建球队失败: %s", ft.Name)
		return "", false
	}
	// 即时登记，使同一批次后续记录直接命中
	s.index.RegisterTeam(team)
	s.logger.Infof("创建或确认球队: %s -> %s", ft.Name, team.TeamID)
	return team.TeamID, true
}

// DeriveTeamID 生成球队稳定短码：优先上游3字母简称，
// 否则取全名前三个词的首字母，不足三词取前三个字符
func DeriveTeamID(name, tla string) string {
	if len(tla) == 3 {
		return strings.ToUpper(tla)
	}
	words := strings.Fields(name)
	if len(words) >= 3 {
		var b strings.Builder
		for _, w := range words[:3] {
			b.WriteString(strings.ToUpper(string([]rune(w)[:1])))
		}
		return b.String()
	}
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

// RunFullIngestion 顺序摄取多个联赛，联赛之间按配置停顿以尊重上游限流。
// 单个联赛整体失败（含认证失败）只记日志并继续下一个。
// 返回的汇总是整次运行对外的唯一可观测产出
func (s *IngestService) RunFullIngestion(ctx context.Context, leagues []string, daysBack int) Summary {
	if len(leagues) == 0 {
		leagues = s.cfg.Sync.Leagues
	}
	if daysBack <= 0 {
		daysBack = s.cfg.Sync.DaysBack
	}

	summary := Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	s.logger.Infof("开始数据摄取任务 %s，目标联赛: %v，回溯 %d 天", summary.RunID, leagues, daysBack)

	if err := s.index.Initialize(ctx); err != nil {
		s.logger.WithError(err).Error("别名索引初始化失败，本次运行中止")
		summary.DurationSeconds = time.Since(summary.StartedAt).Seconds()
		return summary
	}

	pace := time.Duration(s.cfg.Sync.PaceSeconds) * time.Second
	for i, leagueCode := range leagues {
		stats, err := s.IngestLeague(ctx, leagueCode, true, daysBack)
		summary.Add(stats)
		if err != nil {
			s.logger.WithError(err).Errorf("联赛 %s 摄取失败，继续下一个", leagueCode)
		}
		// 联赛间停顿（最后一个之后不等）；取消时安全退出
		if i < len(leagues)-1 {
			select {
			case <-ctx.Done():
				s.logger.Warn("摄取任务被取消，提前结束")
				summary.DurationSeconds = time.Since(summary.StartedAt).Seconds()
				s.setLastSummary(&summary)
				return summary
			case <-time.After(pace):
			}
		}
	}

	summary.DurationSeconds = time.Since(summary.StartedAt).Seconds()
	s.logger.Infof("数据摄取任务完成: 获取 %d / 入库 %d / 解析失败 %d / 校验跳过 %d / 错误 %d / 耗时 %.2f 秒",
		summary.TotalFetched, summary.SuccessfullyIngested, summary.FailedResolution,
		summary.SkippedValidation, summary.Errors, summary.DurationSeconds)
	s.setLastSummary(&summary)
	return summary
}

func (s *IngestService) setLastSummary(summary *Summary) {
	s.mu.Lock()
	s.lastSummary = summary
	s.mu.Unlock()
}

// LastSummary 最近一次运行的汇总（未运行过返回 nil）
func (s *IngestService) LastSummary() *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSummary
}
