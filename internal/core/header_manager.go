package core

import (
	"net/http"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/utils"
)

// HeaderManager 合并请求头, 优先级 默认 < 配置 < 命令行
type HeaderManager struct {
	defaults http.Header
	config   http.Header
	cli      http.Header
}

// NewHeaderManager 创建头部管理器
func NewHeaderManager(userAgent string, configHeaders map[string]string, cliHeaders []string) (*HeaderManager, error) {
	hm := &HeaderManager{
		defaults: make(http.Header),
		config:   make(http.Header),
		cli:      make(http.Header),
	}
	if userAgent != "" {
		hm.defaults.Set("User-Agent", userAgent)
	}
	for name, value := range configHeaders {
		hm.config.Set(name, value)
	}
	if len(cliHeaders) > 0 {
		parsed, err := models.CliHeaders(cliHeaders).Parse()
		if err != nil {
			return nil, err
		}
		hm.cli = parsed
	}
	return hm, nil
}

// Validate 依次验证默认、配置和命令行头部
func (hm *HeaderManager) Validate() error {
	for _, h := range []http.Header{hm.defaults, hm.config, hm.cli} {
		if err := utils.ValidateHeaders(h); err != nil {
			return err
		}
	}
	return nil
}

// GetMergedHeaders 浏览器使用的请求头
func (hm *HeaderManager) GetMergedHeaders() http.Header {
	result := make(http.Header)
	for _, h := range []http.Header{hm.defaults, hm.config, hm.cli} {
		for name, values := range h {
			result[name] = values
		}
	}
	return result
}

// GetHTTPHeaders 静态请求使用的请求头, 补充 Accept 和 Accept-Encoding
func (hm *HeaderManager) GetHTTPHeaders() http.Header {
	result := http.Header{
		"Accept":          {"text/html,application/xhtml+xml,*/*;q=0.8"},
		"Accept-Encoding": {"gzip, deflate, br"},
	}
	for name, values := range hm.GetMergedHeaders() {
		result[name] = values
	}
	return result
}

// GetSafeHeaders 脱敏后的头部, 用于日志
func (hm *HeaderManager) GetSafeHeaders() map[string]string {
	return utils.RedactHeaders(hm.GetMergedHeaders())
}
