package models

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ValidateURL 检查文章地址
// 只接受带主机名的 http/https 地址, 认证信息应通过 -H 传入而不是写在URL里
func ValidateURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return fmt.Errorf("文章URL不能为空")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("无法解析文章URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("文章URL必须使用http或https, 当前为 %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("文章URL缺少主机名: %s", rawURL)
	}
	if u.User != nil {
		return fmt.Errorf("文章URL不能包含用户名或密码, 请改用 -H 传入认证头")
	}
	return nil
}

// NewRunID 每次爬取一个, 写入日志和 crawl_report.json
func NewRunID() string {
	return uuid.NewString()
}
