package repo

import (
	"context"
	"errors"

	"github.com/gopinath0332-del/zerodha-alog/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCheckpointNotFound = errors.New("checkpoint not found")

type CheckpointRepo interface {
	Save(ctx context.Context, cp entity.MonitorCheckpoint) error
	Find(ctx context.Context, instrument, strategy string) (entity.MonitorCheckpoint, error)
}

type checkpointRepo struct {
	db *gorm.DB
}

func NewCheckpointRepo(db *gorm.DB) CheckpointRepo {
	return &checkpointRepo{
		db: db,
	}
}

func (repo *checkpointRepo) Save(ctx context.Context, cp entity.MonitorCheckpoint) error {
	return repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "instrument"}, {Name: "strategy"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_candle_time", "last_signal_kind", "last_signal_candle_at", "updated_at"}),
	}).Create(&cp).Error
}

func (repo *checkpointRepo) Find(ctx context.Context, instrument, strategy string) (entity.MonitorCheckpoint, error) {
	var cp entity.MonitorCheckpoint
	err := repo.db.WithContext(ctx).Where("instrument = ? AND strategy = ?", instrument, strategy).First(&cp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.MonitorCheckpoint{}, ErrCheckpointNotFound
	}
	if err != nil {
		return entity.MonitorCheckpoint{}, err
	}
	return cp, nil
}
