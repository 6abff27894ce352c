package schedule

import (
	"fmt"
	"time"
)

// Scheduler 计算按墙上时间对齐的唤醒时刻
type Scheduler struct {
	// Boundary 对齐周期, 如 1h 表示每个整点
	Boundary time.Duration
	// Offset 相对本地零点的偏移, 如 15m 表示 xx:15
	Offset time.Duration
	// Settle 边界之后再等一段时间, 等数据源生成收盘K线
	Settle   time.Duration
	Location *time.Location
}

func New(boundary, offset, settle time.Duration, loc *time.Location) (Scheduler, error) {
	if boundary <= 0 {
		return Scheduler{}, fmt.Errorf("poll boundary must be positive, got %s", boundary)
	}
	if boundary > 24*time.Hour || (24*time.Hour)%boundary != 0 {
		return Scheduler{}, fmt.Errorf("poll boundary %s must divide 24h", boundary)
	}
	if offset < 0 || offset >= boundary {
		return Scheduler{}, fmt.Errorf("poll offset %s must be within [0, %s)", offset, boundary)
	}
	if settle < 0 {
		return Scheduler{}, fmt.Errorf("settle delay must not be negative, got %s", settle)
	}
	if loc == nil {
		loc = time.Local
	}
	return Scheduler{Boundary: boundary, Offset: offset, Settle: settle, Location: loc}, nil
}

// NextBoundary 严格晚于 now 的下一个对齐时刻
func (s Scheduler) NextBoundary(now time.Time) time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).Add(s.Offset)
	if dayStart.After(local) {
		dayStart = dayStart.Add(-s.Boundary)
	}
	steps := local.Sub(dayStart)/s.Boundary + 1
	return dayStart.Add(steps * s.Boundary)
}

// NextWake 下一个对齐时刻加上 Settle
func (s Scheduler) NextWake(now time.Time) time.Time {
	return s.NextBoundary(now).Add(s.Settle)
}
