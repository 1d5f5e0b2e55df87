package crawlers

import (
	"context"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
)

// Locator 在多个嵌入块中找出承载数据表的那个
type Locator struct {
	r   Renderer
	cfg *models.CrawlConfig
}

// NewLocator 创建定位器
func NewLocator(r Renderer, cfg *models.CrawlConfig) *Locator {
	return &Locator{r: r, cfg: cfg}
}

// Locate 依次探测每个嵌入块, 返回第一个通过探测的
// 每次探测后都切回顶层文档
func (l *Locator) Locate(ctx context.Context) (Element, bool) {
	embeds, err := l.r.FindAll(EmbedSelector)
	if err != nil {
		utils.Errorf("查找嵌入块失败: %v", err)
		return nil, false
	}
	if len(embeds) == 0 {
		utils.Errorf("页面中没有 %s 嵌入块", EmbedSelector)
		return nil, false
	}
	utils.Infof("发现 %d 个嵌入块, 开始探测", len(embeds))

	for i, embed := range embeds {
		if ctx.Err() != nil {
			return nil, false
		}
		ok, err := l.probe(embed)
		if err != nil {
			utils.Debugf("第%d个嵌入块探测失败: %v", i+1, err)
			continue
		}
		if ok {
			utils.Infof("第%d个嵌入块包含数据表", i+1)
			return embed, true
		}
		utils.Debugf("第%d个嵌入块不包含数据表", i+1)
	}

	utils.Errorf("%d 个嵌入块中没有找到数据表", len(embeds))
	return nil, false
}

// probe 进入嵌入块的第一个iframe, 统计前5行中的有效数据行
func (l *Locator) probe(embed Element) (bool, error) {
	iframe, ok, err := firstMatch(embed, "iframe")
	if err != nil || !ok {
		return false, err
	}

	valid := 0
	err = withFrame(l.r, iframe, func() error {
		rows, err := firstTableRows(l.r)
		if err != nil {
			return err
		}
		if len(rows) > probeRowLimit {
			rows = rows[:probeRowLimit]
		}
		for _, row := range rows {
			if _, ok, err := dataCells(row); err == nil && ok {
				valid++
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return valid >= l.cfg.MinProbeRows, nil
}
