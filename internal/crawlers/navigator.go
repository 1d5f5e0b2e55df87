package crawlers

import (
	"context"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
)

// Navigator 进入选定嵌入块的iframe并停留在其中
type Navigator struct {
	r   Renderer
	cfg *models.CrawlConfig
}

// NewNavigator 创建导航器
func NewNavigator(r Renderer, cfg *models.CrawlConfig) *Navigator {
	return &Navigator{r: r, cfg: cfg}
}

// Enter 切换到embed的第一个iframe并等待表格出现
func (n *Navigator) Enter(ctx context.Context, embed Element) bool {
	iframe, ok, err := firstMatch(embed, "iframe")
	if err != nil {
		utils.Errorf("查找iframe失败: %v", err)
		return false
	}
	if !ok {
		utils.Errorf("嵌入块中没有iframe")
		return false
	}
	if err := n.r.SwitchToFrame(iframe); err != nil {
		utils.Errorf("切换到iframe失败: %v", err)
		return false
	}

	ready, err := settle(ctx, n.cfg, n.cfg.FrameSettle, func() bool {
		tables, err := n.r.FindAll("table")
		return err == nil && len(tables) > 0
	})
	if err != nil {
		utils.Warnf("等待iframe内容被中断: %v", err)
		return false
	}
	if !ready {
		utils.Warnf("等待 %s 后iframe中仍没有表格", n.cfg.FrameSettle)
	}
	utils.Infof("已进入数据表iframe")
	return true
}
