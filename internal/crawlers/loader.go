package crawlers

import (
	"context"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/retry"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
)

// Loader 带重试和指数退避的页面加载器
type Loader struct {
	r   Renderer
	cfg *models.CrawlConfig
}

// NewLoader 创建加载器
func NewLoader(r Renderer, cfg *models.CrawlConfig) *Loader {
	return &Loader{r: r, cfg: cfg}
}

// Load 加载url并等待嵌入内容稳定
// 第i次(从0开始)失败后等待 backoff_base*2^i, 最后一次失败后不等待
// 单次失败只记录警告, 全部失败返回false
func (l *Loader) Load(ctx context.Context, url string) bool {
	policy := retry.Policy{
		MaxAttempts: l.cfg.MaxRetries,
		Backoff:     retry.Exponential(l.cfg.BackoffBase),
		OnRetry: func(attempt int, err error) {
			utils.Warnf("页面加载失败 (第%d/%d次): %v", attempt+1, l.cfg.MaxRetries, err)
		},
	}

	err := policy.Do(ctx, func(ctx context.Context, attempt int) error {
		utils.Infof("加载页面 (第%d/%d次): %s", attempt+1, l.cfg.MaxRetries, url)
		return l.r.Navigate(ctx, url)
	})
	if err != nil {
		if ctx.Err() != nil {
			utils.Warnf("页面加载被中断")
			return false
		}
		utils.Errorf("页面加载失败, 已尝试 %d 次: %v", l.cfg.MaxRetries, err)
		return false
	}

	ready, err := settle(ctx, l.cfg, l.cfg.PageLoadSettle, l.embedReady)
	if err != nil {
		utils.Warnf("等待页面稳定被中断: %v", err)
		return false
	}
	if !ready {
		utils.Debugf("等待 %s 后仍未发现带iframe的嵌入块, 继续定位", l.cfg.PageLoadSettle)
	}
	utils.Infof("页面加载完成: %s", url)
	return true
}

// embedReady 至少一个嵌入块已包含iframe
func (l *Loader) embedReady() bool {
	embeds, err := l.r.FindAll(EmbedSelector)
	if err != nil {
		return false
	}
	for _, embed := range embeds {
		if _, ok, err := firstMatch(embed, "iframe"); err == nil && ok {
			return true
		}
	}
	return false
}
