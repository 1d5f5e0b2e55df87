package crawlers

import (
	"context"
	"errors"
)

var (
	// ErrNavigationTimeout 页面导航超时
	ErrNavigationTimeout = errors.New("页面导航超时")
	// ErrRenderer 渲染器操作失败
	ErrRenderer = errors.New("渲染器操作失败")
	// ErrNoEmbed 页面中没有可用的数据嵌入块
	ErrNoEmbed = errors.New("未找到包含数据表的嵌入块")
	// ErrNoFrame 无法进入嵌入块的iframe
	ErrNoFrame = errors.New("无法进入嵌入块iframe")
)

// ClickScript 在目标元素上派发点击
const ClickScript = "() => this.click()"

const (
	// EmbedSelector 可视化嵌入块选择器
	EmbedSelector = ".flourish-embed"
	// HeaderSentinel 表头行首列前缀
	HeaderSentinel = "Tỉnh"
)

// NextPageSelectors 下一页按钮选择器, 按顺序尝试
var NextPageSelectors = []string{
	"button.next",
	"button[aria-label='Next page']",
	"button[title='Next page']",
}

// Element 渲染器中的一个元素句柄
type Element interface {
	FindAll(selector string) ([]Element, error)
	Text() (string, error)
	IsEnabled() (bool, error)
	IsDisplayed() (bool, error)
}

// Renderer 可执行脚本的页面渲染器
// FindAll 在当前活动上下文(顶层文档或已切换的iframe)中查询
type Renderer interface {
	Navigate(ctx context.Context, url string) error
	FindAll(selector string) ([]Element, error)
	SwitchToFrame(frame Element) error
	SwitchToTopLevel() error
	ExecuteScript(script string, target Element) error
	Close() error
}

// Snapshotter 能导出当前活动上下文HTML的渲染器
type Snapshotter interface {
	Snapshot() (string, error)
}

// withFrame 临时切换到frame执行fn, 返回前总是切回顶层文档
func withFrame(r Renderer, frame Element, fn func() error) (err error) {
	if err := r.SwitchToFrame(frame); err != nil {
		return err
	}
	defer func() {
		if restoreErr := r.SwitchToTopLevel(); restoreErr != nil && err == nil {
			err = restoreErr
		}
	}()
	return fn()
}

// firstMatch 返回el下第一个匹配selector的元素
func firstMatch(el Element, selector string) (Element, bool, error) {
	found, err := el.FindAll(selector)
	if err != nil {
		return nil, false, err
	}
	if len(found) == 0 {
		return nil, false, nil
	}
	return found[0], true, nil
}
