package repo

import (
	"context"
	"testing"
	"time"

	"github.com/gopinath0332-del/zerodha-alog/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, InitTables(db))
	return db
}

func TestSignalRepo(t *testing.T) {
	ctx := context.Background()
	r := NewSignalRepo(newTestDB(t))
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	records := []entity.SignalRecord{
		{DedupKey: "MCX:GOLDPETAL/rsi/1/overbought", Instrument: "MCX:GOLDPETAL", Strategy: "rsi", Kind: "overbought", CandleTime: base},
		{DedupKey: "MCX:GOLDPETAL/rsi/2/oversold", Instrument: "MCX:GOLDPETAL", Strategy: "rsi", Kind: "oversold", CandleTime: base.Add(time.Hour)},
		{DedupKey: "MCX:GOLDPETAL/donchian/1/bullish_breakout", Instrument: "MCX:GOLDPETAL", Strategy: "donchian", Kind: "bullish_breakout", CandleTime: base},
	}
	for _, rec := range records {
		_, err := r.Create(ctx, rec)
		require.NoError(t, err)
	}

	// duplicate key is ignored
	_, err := r.Create(ctx, records[0])
	require.NoError(t, err)

	keys, err := r.RecentKeys(ctx, "MCX:GOLDPETAL", "rsi", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"MCX:GOLDPETAL/rsi/2/oversold", "MCX:GOLDPETAL/rsi/1/overbought"}, keys)

	keys, err = r.RecentKeys(ctx, "MCX:GOLDPETAL", "rsi", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"MCX:GOLDPETAL/rsi/2/oversold"}, keys)

	found, err := r.FindRecent(ctx, "MCX:GOLDPETAL", "donchian", 5)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "bullish_breakout", found[0].Kind)
}

func TestCheckpointRepo(t *testing.T) {
	ctx := context.Background()
	r := NewCheckpointRepo(newTestDB(t))

	_, err := r.Find(ctx, "MCX:GOLDPETAL", "rsi")
	assert.ErrorIs(t, err, ErrCheckpointNotFound)

	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, r.Save(ctx, entity.MonitorCheckpoint{
		Instrument: "MCX:GOLDPETAL", Strategy: "rsi", LastCandleTime: first,
	}))
	require.NoError(t, r.Save(ctx, entity.MonitorCheckpoint{
		Instrument: "MCX:GOLDPETAL", Strategy: "rsi", LastCandleTime: first.Add(time.Hour), LastSignalKind: "overbought",
		LastSignalCandleAt: first,
	}))

	cp, err := r.Find(ctx, "MCX:GOLDPETAL", "rsi")
	require.NoError(t, err)
	assert.True(t, first.Add(time.Hour).Equal(cp.LastCandleTime))
	assert.Equal(t, "overbought", cp.LastSignalKind)
	assert.True(t, first.Equal(cp.LastSignalCandleAt))

	_, err = r.Find(ctx, "MCX:GOLDPETAL", "donchian")
	assert.ErrorIs(t, err, ErrCheckpointNotFound)
}
