package api

import (
	"net/http"
	"strconv"

	"MatchSync/internal/quality"
	"MatchSync/internal/resolver"
	"MatchSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SyncHandler 摄取触发与状态查询接口（给外部调度器用，如 Airflow/cron）
type SyncHandler struct {
	ingest  *service.IngestService
	index   *resolver.AliasIndex
	monitor *quality.Monitor
	logger  *logrus.Logger
}

func NewSyncHandler(ingest *service.IngestService, index *resolver.AliasIndex, monitor *quality.Monitor, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		ingest:  ingest,
		index:   index,
		monitor: monitor,
		logger:  logger,
	}
}

// IngestLeagueHandler 摄取指定联赛
// @Param code path string true "联赛代码（PL/BL1/PD/SA/FL1/CL）"
// @Param days_back query int false "增量回溯天数（默认7）"
// @Router /sync/league/{code} [post]
func (h *SyncHandler) IngestLeagueHandler(c *gin.Context) {
	code := c.Param("code")
	daysBack, _ := strconv.Atoi(c.DefaultQuery("days_back", "7"))

	if err := h.index.Initialize(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("别名索引初始化失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stats, err := h.ingest.IngestLeague(c.Request.Context(), code, true, daysBack)
	if err != nil {
		h.logger.Errorf("摄取联赛 %s 失败: %v", code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "stats": stats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"league": code, "stats": stats})
}

// RunFullIngestionHandler 按配置顺序摄取全部联赛
// @Router /sync/full [post]
func (h *SyncHandler) RunFullIngestionHandler(c *gin.Context) {
	daysBack, _ := strconv.Atoi(c.DefaultQuery("days_back", "0"))
	summary := h.ingest.RunFullIngestion(c.Request.Context(), nil, daysBack)
	c.JSON(http.StatusOK, summary)
}

// StatsHandler 最近一次运行的汇总
// @Router /sync/stats [get]
func (h *SyncHandler) StatsHandler(c *gin.Context) {
	summary := h.ingest.LastSummary()
	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "尚未运行过摄取任务"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SearchTeamsHandler 球队候选搜索（消歧界面用，不做阈值截断）
// @Param q query string true "查询名称"
// @Param limit query int false "返回条数（默认10）"
// @Param league query string false "联赛过滤"
// @Router /api/teams/search [get]
func (h *SyncHandler) SearchTeamsHandler(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少查询参数 q"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if err := h.index.Initialize(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	candidates := h.index.SearchTeams(query, limit, c.Query("league"))
	c.JSON(http.StatusOK, gin.H{"query": query, "candidates": candidates})
}

// QualityReportHandler 数据质量报告
// @Router /api/quality [get]
func (h *SyncHandler) QualityReportHandler(c *gin.Context) {
	report, err := h.monitor.Run(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("生成质量报告失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
