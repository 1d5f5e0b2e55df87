package models

import (
	"encoding/json"
	"time"
)

// CrawlState 爬取状态机状态
type CrawlState string

const (
	StateLoading       CrawlState = "loading"        // 加载页面
	StateLocatingEmbed CrawlState = "locating_embed" // 定位嵌入块
	StateEnteringFrame CrawlState = "entering_frame" // 进入iframe
	StatePageLoop      CrawlState = "page_loop"      // 逐页提取
	StateDone          CrawlState = "done"           // 结束
)

// StopReason 爬取停止原因
type StopReason string

const (
	StopReachedEnd       StopReason = "reached_end"       // 没有可用的下一页按钮
	StopPaginationFailed StopReason = "pagination_failed" // 翻页重试耗尽
	StopEmptyPages       StopReason = "empty_pages"       // 连续空页达到上限
	StopMaxPages         StopReason = "max_pages"         // 达到最大页数
	StopLoadFailed       StopReason = "load_failed"       // 页面加载失败
	StopNoEmbed          StopReason = "no_embed"          // 未找到数据嵌入块
	StopNoFrame          StopReason = "no_frame"          // 无法进入iframe
	StopInterrupted      StopReason = "interrupted"       // 用户中断
	StopError            StopReason = "error"             // 循环内异常
	StopRendererFailed   StopReason = "renderer_failed"   // 渲染器启动失败
)

// CrawlResult 一次爬取运行的结果
type CrawlResult struct {
	RunID                 string     `json:"run_id"`
	URL                   string     `json:"url"`
	Records               []Record   `json:"-"`
	Rows                  int        `json:"rows"`
	Pages                 int        `json:"pages"`
	State                 CrawlState `json:"state"`
	StopReason            StopReason `json:"stop_reason"`
	ConsecutiveEmptyPages int        `json:"consecutive_empty_pages"`
	Error                 string     `json:"error,omitempty"`
	Err                   error      `json:"-"`
	OutputCSV             string     `json:"output_csv"`
	StartedAt             time.Time  `json:"started_at"`
	FinishedAt            time.Time  `json:"finished_at"`
	Duration              float64    `json:"duration"` // 秒
}

// Succeeded 至少提取到一行数据即视为成功
func (r *CrawlResult) Succeeded() bool {
	return len(r.Records) > 0
}

// Finish 记录结束时间并同步派生字段
func (r *CrawlResult) Finish() {
	r.FinishedAt = time.Now()
	r.Duration = r.FinishedAt.Sub(r.StartedAt).Seconds()
	r.Rows = len(r.Records)
	if r.Err != nil {
		r.Error = r.Err.Error()
	}
}

// ToJSON 序列化为JSON
func (r *CrawlResult) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
