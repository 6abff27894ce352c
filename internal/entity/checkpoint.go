package entity

import (
	"time"
)

// MonitorCheckpoint 每个 (instrument, strategy) 最后处理到的K线
type MonitorCheckpoint struct {
	Id                 int64  `gorm:"primaryKey"`
	Instrument         string `gorm:"uniqueIndex:checkpoint_idx"`
	Strategy           string `gorm:"uniqueIndex:checkpoint_idx"`
	LastCandleTime     time.Time
	LastSignalKind     string
	LastSignalCandleAt time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
