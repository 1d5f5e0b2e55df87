package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RecoveryAshes/unitcrawl/internal/utils"
	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
)

// EmbedInfo 静态HTML中发现的嵌入块
type EmbedInfo struct {
	Index     int    `json:"index"`
	DataSrc   string `json:"data_src"`
	HasIframe bool   `json:"has_iframe"`
}

// PreflightReport 静态预检结果
type PreflightReport struct {
	URL        string      `json:"url"`
	StatusCode int         `json:"status_code"`
	Title      string      `json:"title"`
	BodySize   int         `json:"body_size"`
	Embeds     []EmbedInfo `json:"embeds"`
}

// StaticInspector 不执行脚本的静态页面检查器(使用Colly)
// 嵌入块的iframe通常由脚本插入, 静态结果只作参考
type StaticInspector struct {
	headers http.Header
	timeout time.Duration
}

// NewStaticInspector 创建静态检查器
func NewStaticInspector(headers http.Header, timeout time.Duration) *StaticInspector {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &StaticInspector{headers: headers, timeout: timeout}
}

// Inspect 抓取页面并列出其中的嵌入块
func (si *StaticInspector) Inspect(ctx context.Context, targetURL string) (*PreflightReport, error) {
	c := colly.NewCollector(colly.AllowURLRevisit())
	c.SetRequestTimeout(si.timeout)

	report := &PreflightReport{URL: targetURL, Embeds: make([]EmbedInfo, 0)}
	var visitErr error

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		for name, values := range si.headers {
			if len(values) > 0 {
				r.Headers.Set(name, values[0])
			}
		}
		utils.Debugf("预检访问: %s", r.URL.String())
	})

	// 先于OnHTML执行, 在这里解压响应体
	c.OnResponse(func(r *colly.Response) {
		report.StatusCode = r.StatusCode
		if encoding := r.Headers.Get("Content-Encoding"); encoding != "" {
			body, err := decompressResponse(encoding, r.Body)
			if err != nil {
				utils.Warnf("解压响应失败 [%s] (编码=%s): %v", r.Request.URL, encoding, err)
			} else {
				r.Body = body
			}
		}
		report.BodySize = len(r.Body)
	})

	c.OnHTML("title", func(e *colly.HTMLElement) {
		if report.Title == "" {
			report.Title = strings.TrimSpace(e.Text)
		}
	})

	c.OnHTML(EmbedSelector, func(e *colly.HTMLElement) {
		report.Embeds = append(report.Embeds, EmbedInfo{
			Index:     len(report.Embeds),
			DataSrc:   e.Attr("data-src"),
			HasIframe: e.DOM.Find("iframe").Length() > 0,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		report.StatusCode = r.StatusCode
		visitErr = err
	})

	if err := c.Visit(targetURL); err != nil && visitErr == nil {
		visitErr = err
	}
	if visitErr != nil {
		return report, fmt.Errorf("预检访问失败 [%s]: %w", targetURL, visitErr)
	}

	utils.Infof("预检完成: 状态码 %d, 发现 %d 个嵌入块", report.StatusCode, len(report.Embeds))
	return report, nil
}

// decompressResponse 根据Content-Encoding头部解压响应体
// 支持 gzip, deflate, br (Brotli); gzip已被上游解压时原样返回
func decompressResponse(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip":
		if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
			return body, nil
		}
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip读取失败: %w", err)
		}
		return decompressed, nil

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "", "identity":
		return body, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}
