package crawlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ReplayFrameName 回放时合成的iframe名称
const ReplayFrameName = "table"

// replayTopHTML 回放时合成的顶层文档
const replayTopHTML = `<html><body><div class="flourish-embed"><iframe name="` + ReplayFrameName + `"></iframe></div></body></html>`

// snapshotPattern 快照文件名格式
const snapshotPattern = "page_%04d.html"

// SnapshotRenderer 基于已保存HTML的离线渲染器
// iframe按name(其次src)对应一组页面HTML, 在其中点击元素时切换到下一页
type SnapshotRenderer struct {
	top    *goquery.Document
	frames map[string]*frameHistory
	active *frameHistory
	closed bool
}

type frameHistory struct {
	pages  []*goquery.Document
	cursor int
}

func (f *frameHistory) doc() *goquery.Document {
	return f.pages[f.cursor]
}

// NewSnapshotRenderer 由顶层HTML和各iframe的分页HTML创建渲染器
func NewSnapshotRenderer(topHTML string, frames map[string][]string) (*SnapshotRenderer, error) {
	top, err := parseDocument(topHTML)
	if err != nil {
		return nil, fmt.Errorf("解析顶层HTML失败: %w", err)
	}

	r := &SnapshotRenderer{top: top, frames: make(map[string]*frameHistory, len(frames))}
	for name, pages := range frames {
		if len(pages) == 0 {
			continue
		}
		history := &frameHistory{pages: make([]*goquery.Document, 0, len(pages))}
		for i, page := range pages {
			doc, err := parseDocument(page)
			if err != nil {
				return nil, fmt.Errorf("解析iframe %s 第%d页失败: %w", name, i+1, err)
			}
			history.pages = append(history.pages, doc)
		}
		r.frames[name] = history
	}
	return r, nil
}

// LoadSnapshotDir 加载快照目录, 用于离线回放
// 最后一页的下一页按钮标记为disabled
func LoadSnapshotDir(dir string) (*SnapshotRenderer, error) {
	files, err := filepath.Glob(filepath.Join(dir, "page_*.html"))
	if err != nil {
		return nil, fmt.Errorf("查找快照失败: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("目录中没有快照文件: %s", dir)
	}
	sort.Strings(files)

	pages := make([]string, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("读取快照失败 [%s]: %w", file, err)
		}
		pages = append(pages, string(data))
	}

	r, err := NewSnapshotRenderer(replayTopHTML, map[string][]string{ReplayFrameName: pages})
	if err != nil {
		return nil, err
	}
	last := r.frames[ReplayFrameName].pages[len(pages)-1]
	for _, selector := range NextPageSelectors {
		last.Find(selector).SetAttr("disabled", "disabled")
	}
	return r, nil
}

// SaveSnapshot 保存第page页的HTML
func SaveSnapshot(dir string, page int, content string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("创建快照目录失败: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf(snapshotPattern, page))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("写入快照失败: %w", err)
	}
	return path, nil
}

func parseDocument(content string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root), nil
}

func (r *SnapshotRenderer) current() *goquery.Document {
	if r.active != nil {
		return r.active.doc()
	}
	return r.top
}

// Navigate 回到顶层文档并重置所有iframe到第一页
func (r *SnapshotRenderer) Navigate(ctx context.Context, _ string) error {
	if r.closed {
		return fmt.Errorf("%w: 渲染器已关闭", ErrRenderer)
	}
	r.active = nil
	for _, f := range r.frames {
		f.cursor = 0
	}
	return ctx.Err()
}

// FindAll 在当前活动文档中查询
func (r *SnapshotRenderer) FindAll(selector string) ([]Element, error) {
	if r.closed {
		return nil, fmt.Errorf("%w: 渲染器已关闭", ErrRenderer)
	}
	return wrapSelection(r.current().Find(selector), r.active), nil
}

// SwitchToFrame 切换到iframe对应的文档
func (r *SnapshotRenderer) SwitchToFrame(frame Element) error {
	el, ok := frame.(*snapshotElement)
	if !ok || !el.sel.Is("iframe") {
		return fmt.Errorf("%w: 目标不是iframe", ErrRenderer)
	}
	key, _ := el.sel.Attr("name")
	if key == "" {
		key, _ = el.sel.Attr("src")
	}
	history, ok := r.frames[key]
	if !ok {
		return fmt.Errorf("%w: iframe %q 没有快照", ErrRenderer, key)
	}
	r.active = history
	return nil
}

// SwitchToTopLevel 切回顶层文档
func (r *SnapshotRenderer) SwitchToTopLevel() error {
	r.active = nil
	return nil
}

// ExecuteScript 仅支持 ClickScript
// 点击iframe内可用的元素时该iframe前进一页, 已是最后一页时无变化
func (r *SnapshotRenderer) ExecuteScript(script string, target Element) error {
	if script != ClickScript {
		return fmt.Errorf("%w: 不支持的脚本: %s", ErrRenderer, script)
	}
	el, ok := target.(*snapshotElement)
	if !ok {
		return fmt.Errorf("%w: 非快照元素", ErrRenderer)
	}
	if enabled, _ := el.IsEnabled(); !enabled || el.frame == nil {
		return nil
	}
	if el.frame.cursor < len(el.frame.pages)-1 {
		el.frame.cursor++
	}
	return nil
}

// Snapshot 导出当前活动文档
func (r *SnapshotRenderer) Snapshot() (string, error) {
	return r.current().Html()
}

// Close 标记关闭
func (r *SnapshotRenderer) Close() error {
	r.closed = true
	return nil
}

type snapshotElement struct {
	sel   *goquery.Selection
	frame *frameHistory
}

func wrapSelection(sel *goquery.Selection, frame *frameHistory) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &snapshotElement{sel: s, frame: frame})
	})
	return out
}

func (e *snapshotElement) FindAll(selector string) ([]Element, error) {
	return wrapSelection(e.sel.Find(selector), e.frame), nil
}

func (e *snapshotElement) Text() (string, error) {
	return e.sel.Text(), nil
}

func (e *snapshotElement) IsEnabled() (bool, error) {
	if _, disabled := e.sel.Attr("disabled"); disabled {
		return false, nil
	}
	if v, _ := e.sel.Attr("aria-disabled"); v == "true" {
		return false, nil
	}
	return true, nil
}

func (e *snapshotElement) IsDisplayed() (bool, error) {
	hidden := false
	check := func(s *goquery.Selection) {
		if _, ok := s.Attr("hidden"); ok {
			hidden = true
			return
		}
		style, _ := s.Attr("style")
		style = strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			hidden = true
		}
	}
	check(e.sel)
	e.sel.Parents().Each(func(_ int, s *goquery.Selection) { check(s) })
	return !hidden, nil
}
