// Package retry 提供有上限的重试策略, 供页面加载和翻页共用
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMaxRetriesReached 所有尝试均失败
var ErrMaxRetriesReached = errors.New("已达最大重试次数")

// Policy 重试策略
type Policy struct {
	// MaxAttempts 最大尝试次数, 小于1时按1处理
	MaxAttempts int

	// Backoff 第attempt次(从0开始)失败后的等待时长
	Backoff func(attempt int) time.Duration

	// Retryable 返回false时立即放弃, 为nil时所有错误都重试
	Retryable func(err error) bool

	// Sleep 可替换的等待函数, 为nil时使用 Sleep
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry 每次失败后回调, 用于记录日志
	OnRetry func(attempt int, err error)
}

// Exponential 指数退避: base, 2*base, 4*base ...
func Exponential(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base << uint(attempt)
	}
}

// Constant 固定间隔
func Constant(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration { return d }
}

// Sleep 可被ctx取消的等待
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do 按策略执行op, 直到成功、不可重试、ctx取消或次数耗尽
// 最后一次失败后不再等待
func (p Policy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}
		if p.Backoff != nil {
			if err := sleep(ctx, p.Backoff(attempt)); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("%w (%d次): %w", ErrMaxRetriesReached, attempts, lastErr)
}
