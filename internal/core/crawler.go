package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/RecoveryAshes/unitcrawl/internal/crawlers"
	"github.com/RecoveryAshes/unitcrawl/internal/dataset"
	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/retry"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
	"github.com/schollz/progressbar/v3"
)

// RendererFactory 为一次运行创建渲染器
type RendererFactory func(ctx context.Context) (crawlers.Renderer, error)

// Crawler 爬取流程协调器
// 加载 -> 定位嵌入块 -> 进入iframe -> 逐页提取 -> 结束
type Crawler struct {
	cfg         *models.CrawlConfig
	newRenderer RendererFactory
	progress    io.Writer
	persist     func(path string, records []models.Record) error
}

// NewCrawler 创建协调器
func NewCrawler(cfg *models.CrawlConfig, factory RendererFactory) *Crawler {
	return &Crawler{
		cfg:         cfg,
		newRenderer: factory,
		persist:     dataset.WriteCSV,
	}
}

// SetProgressOutput 设置进度条输出, 为nil时不显示进度条
func (c *Crawler) SetProgressOutput(w io.Writer) {
	c.progress = w
}

// Run 执行一次完整的爬取
// 所有错误、中断和panic都转换为停止原因, 已提取的记录保留在结果中
// 渲染器在任何路径上都只关闭一次
func (c *Crawler) Run(ctx context.Context) (result *models.CrawlResult) {
	result = &models.CrawlResult{
		RunID:     models.NewRunID(),
		URL:       c.cfg.URL,
		Records:   make([]models.Record, 0),
		State:     models.StateLoading,
		OutputCSV: c.cfg.OutputCSV,
		StartedAt: time.Now(),
	}
	utils.Infof("开始爬取 (运行ID %s): %s", result.RunID, c.cfg.URL)

	r, err := c.newRenderer(ctx)
	if err != nil {
		utils.Errorf("启动渲染器失败: %v", err)
		result.Err = err
		result.StopReason = models.StopRendererFailed
		result.State = models.StateDone
		result.Finish()
		return result
	}
	defer func() {
		if err := r.Close(); err != nil {
			utils.Warnf("关闭渲染器失败: %v", err)
		}
	}()

	defer func() {
		if rec := recover(); rec != nil {
			result.Err = fmt.Errorf("爬取过程panic: %v", rec)
			result.StopReason = models.StopError
			utils.Errorf("%v", result.Err)
		}
		c.finish(result)
	}()

	c.run(ctx, r, result)
	return result
}

func (c *Crawler) run(ctx context.Context, r crawlers.Renderer, result *models.CrawlResult) {
	result.State = models.StateLoading
	if !crawlers.NewLoader(r, c.cfg).Load(ctx, c.cfg.URL) {
		result.StopReason = stopReason(ctx, models.StopLoadFailed)
		return
	}

	result.State = models.StateLocatingEmbed
	embed, ok := crawlers.NewLocator(r, c.cfg).Locate(ctx)
	if !ok {
		result.StopReason = stopReason(ctx, models.StopNoEmbed)
		if result.StopReason == models.StopNoEmbed {
			result.Err = crawlers.ErrNoEmbed
		}
		return
	}

	result.State = models.StateEnteringFrame
	if !crawlers.NewNavigator(r, c.cfg).Enter(ctx, embed) {
		result.StopReason = stopReason(ctx, models.StopNoFrame)
		if result.StopReason == models.StopNoFrame {
			result.Err = crawlers.ErrNoFrame
		}
		return
	}

	result.State = models.StatePageLoop
	c.pageLoop(ctx, r, result)
}

func (c *Crawler) pageLoop(ctx context.Context, r crawlers.Renderer, result *models.CrawlResult) {
	extractor := crawlers.NewExtractor(r)
	paginator := crawlers.NewPaginator(r, c.cfg)

	var bar *progressbar.ProgressBar
	if c.progress != nil {
		bar = utils.NewProgressBar(c.progress, c.cfg.MaxPages, "翻页")
		defer bar.Exit()
	}

	for page := 1; page <= c.cfg.MaxPages; page++ {
		if ctx.Err() != nil {
			result.StopReason = models.StopInterrupted
			return
		}
		result.Pages = page

		records := extractor.Extract(ctx)
		c.snapshot(r, page)

		if len(records) > 0 {
			result.Records = append(result.Records, records...)
			result.ConsecutiveEmptyPages = 0
			c.save(result.Records)
			utils.Infof("第%d页: 提取 %d 条记录, 累计 %d 条", page, len(records), len(result.Records))
		} else {
			result.ConsecutiveEmptyPages++
			utils.Warnf("第%d页没有数据 (连续空页 %d/%d)", page, result.ConsecutiveEmptyPages, c.cfg.MaxEmptyPages)
			if result.ConsecutiveEmptyPages >= c.cfg.MaxEmptyPages {
				utils.Warnf("连续 %d 页没有数据, 停止爬取", result.ConsecutiveEmptyPages)
				result.StopReason = models.StopEmptyPages
				return
			}
		}
		if bar != nil {
			_ = bar.Add(1)
		}

		switch paginator.Advance(ctx) {
		case crawlers.ReachedEnd:
			result.StopReason = models.StopReachedEnd
			return
		case crawlers.RetriesExhausted:
			result.StopReason = stopReason(ctx, models.StopPaginationFailed)
			return
		}

		if err := retry.Sleep(ctx, c.cfg.PageDelay); err != nil {
			result.StopReason = models.StopInterrupted
			return
		}
	}

	utils.Infof("已达到最大页数 %d", c.cfg.MaxPages)
	result.StopReason = models.StopMaxPages
}

// finish 最终保存并记录结果
func (c *Crawler) finish(result *models.CrawlResult) {
	if result.StopReason == "" {
		result.StopReason = models.StopError
	}
	if result.StopReason == models.StopInterrupted {
		utils.Warnf("爬取被用户中断, 保留已提取的 %d 条记录", len(result.Records))
	}
	if len(result.Records) > 0 {
		c.save(result.Records)
	}
	result.State = models.StateDone
	result.Finish()

	utils.Infof("爬取结束: %d 页, %d 条记录, 停止原因 %s, 耗时 %.1f秒",
		result.Pages, len(result.Records), result.StopReason, result.Duration)
}

func (c *Crawler) save(records []models.Record) {
	if err := c.persist(c.cfg.OutputCSV, records); err != nil {
		utils.Errorf("保存CSV失败: %v", err)
		return
	}
	utils.Debugf("已保存 %d 条记录到 %s", len(records), c.cfg.OutputCSV)
}

func (c *Crawler) snapshot(r crawlers.Renderer, page int) {
	if c.cfg.SnapshotDir == "" {
		return
	}
	s, ok := r.(crawlers.Snapshotter)
	if !ok {
		return
	}
	html, err := s.Snapshot()
	if err != nil {
		utils.Warnf("导出第%d页快照失败: %v", page, err)
		return
	}
	if _, err := crawlers.SaveSnapshot(c.cfg.SnapshotDir, page, html); err != nil {
		utils.Warnf("保存第%d页快照失败: %v", page, err)
	}
}

// stopReason ctx已取消时统一记为中断
func stopReason(ctx context.Context, reason models.StopReason) models.StopReason {
	if ctx.Err() != nil {
		return models.StopInterrupted
	}
	return reason
}
