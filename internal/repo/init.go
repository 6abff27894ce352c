package repo

import (
	"github.com/gopinath0332-del/zerodha-alog/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&entity.SignalRecord{}, &entity.MonitorCheckpoint{})
}
