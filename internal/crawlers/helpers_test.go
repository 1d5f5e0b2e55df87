package crawlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/stretchr/testify/require"
)

// testConfig 所有等待时长为0的配置
func testConfig() *models.CrawlConfig {
	return &models.CrawlConfig{
		URL:           "https://vnexpress.net/tra-cuu.html",
		OutputCSV:     "out.csv",
		MaxRetries:    5,
		MaxPages:      350,
		MaxEmptyPages: 5,
		MinProbeRows:  1,
		SettleMode:    models.SettlePoll,
		PollInterval:  time.Millisecond,
	}
}

// pageHTML 生成一页iframe内容, nextAttrs为下一页按钮的属性, 为"-"时不生成按钮
func pageHTML(rows [][]string, nextAttrs string) string {
	var b strings.Builder
	b.WriteString("<html><body><table><tr><th>Tỉnh</th><th>Phường, xã mới</th><th>Trước sáp nhập</th></tr>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	if nextAttrs != "-" {
		fmt.Fprintf(&b, `<button class="next" %s>Next</button>`, nextAttrs)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// topHTML 生成包含若干嵌入块的顶层文档, 每个名称对应一个iframe
func topHTML(frameNames ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><article>`)
	for _, name := range frameNames {
		if name == "" {
			b.WriteString(`<div class="flourish-embed"></div>`)
			continue
		}
		fmt.Fprintf(&b, `<div class="flourish-embed"><iframe name="%s"></iframe></div>`, name)
	}
	b.WriteString(`</article></body></html>`)
	return b.String()
}

func newSnapshot(t *testing.T, top string, frames map[string][]string) *SnapshotRenderer {
	t.Helper()
	r, err := NewSnapshotRenderer(top, frames)
	require.NoError(t, err)
	return r
}

// recordingRenderer 包装渲染器, 记录调用并按需注入错误
type recordingRenderer struct {
	Renderer

	navigateFailures int
	navigateCalls    int
	scriptFailures   int
	scriptCalls      int
	topLevelSwitches int
	closeCalls       int
	findErr          error
	panicOnFind      string
}

var errInjected = errors.New("injected failure")

func (r *recordingRenderer) Navigate(ctx context.Context, url string) error {
	r.navigateCalls++
	if r.navigateCalls <= r.navigateFailures {
		return fmt.Errorf("%w: %w", ErrNavigationTimeout, errInjected)
	}
	return r.Renderer.Navigate(ctx, url)
}

func (r *recordingRenderer) FindAll(selector string) ([]Element, error) {
	if r.panicOnFind != "" && selector == r.panicOnFind {
		panic("renderer crashed")
	}
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.Renderer.FindAll(selector)
}

func (r *recordingRenderer) ExecuteScript(script string, target Element) error {
	r.scriptCalls++
	if r.scriptCalls <= r.scriptFailures {
		return errInjected
	}
	return r.Renderer.ExecuteScript(script, target)
}

func (r *recordingRenderer) SwitchToTopLevel() error {
	r.topLevelSwitches++
	return r.Renderer.SwitchToTopLevel()
}

func (r *recordingRenderer) Close() error {
	r.closeCalls++
	return r.Renderer.Close()
}
