package crawlers

import (
	"errors"
	"fmt"

	"github.com/RecoveryAshes/unitcrawl/internal/utils"
	"github.com/shirou/gopsutil/v3/mem"
)

// ErrInsufficientMemory 可用内存不足以启动浏览器
var ErrInsufficientMemory = errors.New("可用内存不足")

// MemoryStatus 系统内存状态
type MemoryStatus struct {
	TotalMB     uint64
	AvailableMB uint64
	Pressure    string // normal, warning, critical, emergency
}

// virtualMemory 可在测试中替换
var virtualMemory = mem.VirtualMemory

// GetMemoryStatus 读取系统内存状态
func GetMemoryStatus() (MemoryStatus, error) {
	vm, err := virtualMemory()
	if err != nil {
		return MemoryStatus{}, fmt.Errorf("获取系统内存失败: %w", err)
	}

	status := MemoryStatus{
		TotalMB:     vm.Total / (1024 * 1024),
		AvailableMB: vm.Available / (1024 * 1024),
	}
	switch {
	case status.AvailableMB < 200:
		status.Pressure = "emergency"
	case status.AvailableMB < 300:
		status.Pressure = "critical"
	case status.AvailableMB < 500:
		status.Pressure = "warning"
	default:
		status.Pressure = "normal"
	}
	return status, nil
}

// CheckMemory 启动浏览器前检查可用内存, minFreeMB<=0 时跳过
// 读取失败只记录警告
func CheckMemory(minFreeMB int) error {
	if minFreeMB <= 0 {
		return nil
	}
	status, err := GetMemoryStatus()
	if err != nil {
		utils.Warnf("%v, 跳过内存检查", err)
		return nil
	}
	utils.Debugf("系统内存: 总计 %dMB, 可用 %dMB (%s)", status.TotalMB, status.AvailableMB, status.Pressure)
	if status.AvailableMB < uint64(minFreeMB) {
		return fmt.Errorf("%w: 当前 %dMB, 至少需要 %dMB", ErrInsufficientMemory, status.AvailableMB, minFreeMB)
	}
	return nil
}
