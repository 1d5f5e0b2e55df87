package crawlers

import (
	"context"
	"errors"
	"strings"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/retry"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
)

// AdvanceResult 翻页结果
type AdvanceResult int

const (
	// Advanced 已点击下一页
	Advanced AdvanceResult = iota
	// ReachedEnd 没有可用的下一页按钮
	ReachedEnd
	// RetriesExhausted 翻页操作反复出错
	RetriesExhausted
)

func (a AdvanceResult) String() string {
	switch a {
	case Advanced:
		return "advanced"
	case ReachedEnd:
		return "reached_end"
	case RetriesExhausted:
		return "retries_exhausted"
	default:
		return "unknown"
	}
}

var errNoNextButton = errors.New("没有可用的下一页按钮")

// Paginator 查找并点击下一页按钮
type Paginator struct {
	r   Renderer
	cfg *models.CrawlConfig
}

// NewPaginator 创建翻页器
func NewPaginator(r Renderer, cfg *models.CrawlConfig) *Paginator {
	return &Paginator{r: r, cfg: cfg}
}

// Advance 按选择器顺序查找, 每个选择器内取第一个可用且可见的按钮, 通过脚本点击
// 操作出错时以固定间隔重试; 找不到按钮不重试
func (p *Paginator) Advance(ctx context.Context) AdvanceResult {
	before := p.firstRowText()

	policy := retry.Policy{
		MaxAttempts: p.cfg.MaxRetries,
		Backoff:     retry.Constant(p.cfg.RetryDelay),
		Retryable:   func(err error) bool { return !errors.Is(err, errNoNextButton) },
		OnRetry: func(attempt int, err error) {
			if !errors.Is(err, errNoNextButton) {
				utils.Warnf("翻页失败 (第%d/%d次): %v", attempt+1, p.cfg.MaxRetries, err)
			}
		},
	}

	err := policy.Do(ctx, func(context.Context, int) error {
		return p.clickNext()
	})
	switch {
	case err == nil:
	case errors.Is(err, errNoNextButton):
		utils.Infof("没有可用的下一页按钮, 已到最后一页")
		return ReachedEnd
	default:
		if ctx.Err() == nil {
			utils.Errorf("翻页失败, 已尝试 %d 次: %v", p.cfg.MaxRetries, err)
		}
		return RetriesExhausted
	}

	changed, err := settle(ctx, p.cfg, p.cfg.ClickSettle, func() bool {
		now := p.firstRowText()
		return now != "" && now != before
	})
	if err == nil && !changed {
		utils.Debugf("点击后 %s 内首行未变化", p.cfg.ClickSettle)
	}
	return Advanced
}

func (p *Paginator) clickNext() error {
	for _, selector := range NextPageSelectors {
		buttons, err := p.r.FindAll(selector)
		if err != nil {
			return err
		}
		for i, button := range buttons {
			enabled, err := button.IsEnabled()
			if err != nil {
				return err
			}
			displayed, err := button.IsDisplayed()
			if err != nil {
				return err
			}
			if !enabled || !displayed {
				continue
			}
			utils.Debugf("点击下一页按钮: %s (第%d个)", selector, i+1)
			return p.r.ExecuteScript(ClickScript, button)
		}
	}
	return errNoNextButton
}

// firstRowText 当前表格第一条数据行的文本, 读取失败时为空
func (p *Paginator) firstRowText() string {
	rows, err := firstTableRows(p.r)
	if err != nil {
		return ""
	}
	for _, row := range rows {
		cells, ok, err := dataCells(row)
		if err != nil {
			return ""
		}
		if ok && !strings.HasPrefix(cells[0], HeaderSentinel) {
			return strings.Join(cells[:], "|")
		}
	}
	return ""
}
