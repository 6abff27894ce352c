package entity

import (
	"time"
)

// SignalRecord 已发送的信号, DedupKey 形如 instrument/strategy/unix/kind
type SignalRecord struct {
	Id         int64     `gorm:"primaryKey;autoIncrement"`
	DedupKey   string    `gorm:"uniqueIndex"`
	Instrument string    `gorm:"index:monitor_idx"`
	Strategy   string    `gorm:"index:monitor_idx"`
	Kind       string    `gorm:"index"`
	CandleTime time.Time `gorm:"index"`
	Close      string
	Value      string
	Message    string
	Delivered  int       // 投递成功的通道数
	CreatedAt  time.Time `gorm:"index"`
}
