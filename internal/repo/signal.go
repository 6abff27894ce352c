package repo

import (
	"context"

	"github.com/gopinath0332-del/zerodha-alog/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SignalRepo interface {
	// Create 重复的 DedupKey 会被忽略
	Create(ctx context.Context, record entity.SignalRecord) (int64, error)
	// RecentKeys 按 CandleTime 倒序返回最近 limit 条去重键
	RecentKeys(ctx context.Context, instrument, strategy string, limit int) ([]string, error)
	FindRecent(ctx context.Context, instrument, strategy string, limit int) ([]entity.SignalRecord, error)
}

type signalRepo struct {
	db *gorm.DB
}

func NewSignalRepo(db *gorm.DB) SignalRepo {
	return &signalRepo{
		db: db,
	}
}

func (r *signalRepo) Create(ctx context.Context, record entity.SignalRecord) (int64, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "dedup_key"}}, DoNothing: true}).
		Create(&record).Error
	if err != nil {
		return 0, err
	}
	return record.Id, nil
}

func (r *signalRepo) RecentKeys(ctx context.Context, instrument, strategy string, limit int) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&entity.SignalRecord{}).
		Where("instrument = ? AND strategy = ?", instrument, strategy).
		Order("candle_time DESC, id DESC").
		Limit(limit).
		Pluck("dedup_key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *signalRepo) FindRecent(ctx context.Context, instrument, strategy string, limit int) ([]entity.SignalRecord, error) {
	var records []entity.SignalRecord
	err := r.db.WithContext(ctx).
		Where("instrument = ? AND strategy = ?", instrument, strategy).
		Order("candle_time DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
