package core

import (
	"errors"
	"testing"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
)

func TestHeaderManager_GetMergedHeaders(t *testing.T) {
	t.Run("默认User-Agent", func(t *testing.T) {
		hm, err := NewHeaderManager(DefaultUserAgent, nil, nil)
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}
		if ua := hm.GetMergedHeaders().Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("期望默认User-Agent, 实际='%s'", ua)
		}
	})

	t.Run("配置覆盖默认, 命令行覆盖配置", func(t *testing.T) {
		hm, err := NewHeaderManager(DefaultUserAgent,
			map[string]string{"user-agent": "ConfigBot/1.0", "accept-language": "vi-VN"},
			[]string{"User-Agent: CliBot/2.0"})
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}

		headers := hm.GetMergedHeaders()
		if ua := headers.Get("User-Agent"); ua != "CliBot/2.0" {
			t.Errorf("期望User-Agent='CliBot/2.0', 实际='%s'", ua)
		}
		if lang := headers.Get("Accept-Language"); lang != "vi-VN" {
			t.Errorf("期望Accept-Language='vi-VN', 实际='%s'", lang)
		}
	})

	t.Run("命令行格式错误", func(t *testing.T) {
		if _, err := NewHeaderManager("", nil, []string{"no-colon"}); err == nil {
			t.Error("期望返回格式错误")
		}
	})
}

func TestHeaderManager_Validate(t *testing.T) {
	hm, err := NewHeaderManager(DefaultUserAgent, map[string]string{"Host": "example.com"}, nil)
	if err != nil {
		t.Fatalf("创建HeaderManager失败: %v", err)
	}

	err = hm.Validate()
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("期望 *models.ValidationError, 实际 %v", err)
	}
	if verr.HeaderName != "Host" {
		t.Errorf("期望 HeaderName='Host', 实际='%s'", verr.HeaderName)
	}
}

func TestHeaderManager_GetHTTPHeaders(t *testing.T) {
	hm, err := NewHeaderManager(DefaultUserAgent, nil, []string{"Accept: text/html"})
	if err != nil {
		t.Fatalf("创建HeaderManager失败: %v", err)
	}

	headers := hm.GetHTTPHeaders()
	if got := headers.Get("Accept-Encoding"); got != "gzip, deflate, br" {
		t.Errorf("期望补充Accept-Encoding, 实际='%s'", got)
	}
	if got := headers.Get("Accept"); got != "text/html" {
		t.Errorf("命令行Accept应覆盖默认值, 实际='%s'", got)
	}
	if headers.Get("User-Agent") == "" {
		t.Error("期望包含User-Agent")
	}
}

func TestHeaderManager_GetSafeHeaders(t *testing.T) {
	hm, err := NewHeaderManager("", nil, []string{
		"Authorization: Bearer secret-token-12345",
		"Cookie: session=abcdef123456",
		"X-Custom: visible",
	})
	if err != nil {
		t.Fatalf("创建HeaderManager失败: %v", err)
	}

	safe := hm.GetSafeHeaders()
	if safe["Authorization"] != "Bearer ***" {
		t.Errorf("Authorization未脱敏: %s", safe["Authorization"])
	}
	if safe["Cookie"] != "sess***3456" {
		t.Errorf("Cookie未脱敏: %s", safe["Cookie"])
	}
	if safe["X-Custom"] != "visible" {
		t.Errorf("普通头部不应脱敏: %s", safe["X-Custom"])
	}
}
