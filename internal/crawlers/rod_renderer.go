package crawlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodRendererOptions 浏览器渲染器参数
type RodRendererOptions struct {
	Browser    models.BrowserConfig
	Headers    http.Header
	NavTimeout time.Duration
}

// RodRenderer 基于go-rod的Chrome渲染器
type RodRenderer struct {
	launcher   *launcher.Launcher
	browser    *rod.Browser
	top        *rod.Page
	current    *rod.Page
	navTimeout time.Duration
	closeOnce  sync.Once
}

// NewRodRenderer 启动浏览器并打开一个标签页
// ctx取消后所有浏览器操作立即失败
func NewRodRenderer(ctx context.Context, opts RodRendererOptions) (r *RodRenderer, err error) {
	if err := CheckMemory(opts.Browser.MinFreeMemoryMB); err != nil {
		return nil, err
	}

	l := launcher.New().
		Headless(opts.Browser.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("window-size", fmt.Sprintf("%d,%d", opts.Browser.WindowWidth, opts.Browser.WindowHeight))
	if opts.Browser.Bin != "" {
		l = l.Bin(opts.Browser.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: 启动浏览器失败: %w", ErrRenderer, err)
	}

	r = &RodRenderer{launcher: l, navTimeout: opts.NavTimeout}
	defer func() {
		if err != nil {
			r.Close()
		}
	}()

	r.browser = rod.New().Context(ctx).ControlURL(controlURL)
	if err := r.browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: 连接浏览器失败: %w", ErrRenderer, err)
	}
	utils.Debugf("浏览器已启动: %s", controlURL)

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: 创建标签页失败: %w", ErrRenderer, err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  opts.Browser.WindowWidth,
		Height: opts.Browser.WindowHeight,
	}); err != nil {
		return nil, fmt.Errorf("%w: 设置视口失败: %w", ErrRenderer, err)
	}

	headers := opts.Headers.Clone()
	if ua := headers.Get("User-Agent"); ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			return nil, fmt.Errorf("%w: 设置User-Agent失败: %w", ErrRenderer, err)
		}
		headers.Del("User-Agent")
	}
	if pairs := models.HeaderPairs(headers); len(pairs) > 0 {
		if _, err := page.SetExtraHeaders(pairs); err != nil {
			return nil, fmt.Errorf("%w: 设置请求头失败: %w", ErrRenderer, err)
		}
	}

	r.top = page
	r.current = page
	return r, nil
}

// Navigate 打开URL并等待load事件
func (r *RodRenderer) Navigate(ctx context.Context, url string) error {
	page := r.top.Context(ctx)
	if r.navTimeout > 0 {
		page = page.Timeout(r.navTimeout)
	}

	err := page.Navigate(url)
	if err == nil {
		err = page.WaitLoad()
	}
	r.current = r.top
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w (%s): %w", ErrNavigationTimeout, r.navTimeout, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: 导航失败: %w", ErrRenderer, err)
}

// FindAll 在当前活动上下文中查询元素
func (r *RodRenderer) FindAll(selector string) ([]Element, error) {
	els, err := r.current.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: 查询 %s 失败: %w", ErrRenderer, selector, err)
	}
	return wrapRodElements(els), nil
}

// SwitchToFrame 切换到iframe文档
func (r *RodRenderer) SwitchToFrame(frame Element) error {
	el, ok := frame.(*rodElement)
	if !ok {
		return fmt.Errorf("%w: 非浏览器元素", ErrRenderer)
	}
	fp, err := el.el.Frame()
	if err != nil {
		return fmt.Errorf("%w: 切换iframe失败: %w", ErrRenderer, err)
	}
	r.current = fp
	return nil
}

// SwitchToTopLevel 切回顶层文档
func (r *RodRenderer) SwitchToTopLevel() error {
	r.current = r.top
	return nil
}

// ExecuteScript 以target为this执行脚本
func (r *RodRenderer) ExecuteScript(script string, target Element) error {
	el, ok := target.(*rodElement)
	if !ok {
		return fmt.Errorf("%w: 非浏览器元素", ErrRenderer)
	}
	if _, err := el.el.Eval(script); err != nil {
		return fmt.Errorf("%w: 执行脚本失败: %w", ErrRenderer, err)
	}
	return nil
}

// Snapshot 导出当前活动上下文的HTML
func (r *RodRenderer) Snapshot() (string, error) {
	html, err := r.current.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: 导出HTML失败: %w", ErrRenderer, err)
	}
	return html, nil
}

// Close 关闭浏览器, 可重复调用
func (r *RodRenderer) Close() error {
	var err error
	r.closeOnce.Do(func() {
		if r.browser != nil {
			if closeErr := r.browser.Context(context.Background()).Close(); closeErr != nil {
				err = fmt.Errorf("%w: 关闭浏览器失败: %w", ErrRenderer, closeErr)
			}
		}
		if r.launcher != nil {
			r.launcher.Kill()
			r.launcher.Cleanup()
		}
		utils.Debugf("浏览器已关闭")
	})
	return err
}

type rodElement struct {
	el *rod.Element
}

func wrapRodElements(els rod.Elements) []Element {
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out
}

func (e *rodElement) FindAll(selector string) ([]Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: 查询 %s 失败: %w", ErrRenderer, selector, err)
	}
	return wrapRodElements(els), nil
}

func (e *rodElement) Text() (string, error) {
	text, err := e.el.Text()
	if err != nil {
		return "", fmt.Errorf("%w: 读取文本失败: %w", ErrRenderer, err)
	}
	return text, nil
}

func (e *rodElement) IsEnabled() (bool, error) {
	disabled, err := e.el.Disabled()
	if err != nil {
		return false, fmt.Errorf("%w: 读取disabled失败: %w", ErrRenderer, err)
	}
	return !disabled, nil
}

func (e *rodElement) IsDisplayed() (bool, error) {
	visible, err := e.el.Visible()
	if err != nil {
		return false, fmt.Errorf("%w: 读取可见性失败: %w", ErrRenderer, err)
	}
	return visible, nil
}
