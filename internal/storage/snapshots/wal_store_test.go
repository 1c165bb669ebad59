package snapshots

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/martifolio/internal/domain"
)

func snapshot(value int64) domain.PortfolioSnapshot {
	row := domain.NewSymbolPosition("BTC", "BTCUSDT",
		decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.NewFromInt(100),
		decimal.NewFromInt(value), decimal.Zero)

	var summary domain.PortfolioSummary
	summary = summary.Add(row)

	return domain.NewPortfolioSnapshot(time.Unix(value, 0).UTC(), "USDT", []domain.SymbolPosition{row}, summary, nil)
}

func TestWALStore_SaveAndRead(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Latest()
	require.NoError(t, err)
	assert.False(t, ok)

	first := snapshot(110)
	second := snapshot(120)

	idx, err := store.Save(first)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), idx)

	idx, err = store.Save(second)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), idx)
	assert.Equal(t, uint64(2), store.CurrentIndex())

	records, err := store.SnapshotsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.CycleID, records[0].Snapshot.CycleID)
	assert.True(t, records[1].Snapshot.Summary.TotalValue.Equal(decimal.NewFromInt(120)))

	records, err = store.SnapshotsAfter(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint64(2), records[0].Index)

	latest, ok, err := store.Latest()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.CycleID, latest.Snapshot.CycleID)
	assert.True(t, second.Timestamp.Equal(latest.Snapshot.Timestamp))
}

func TestWALStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewWALStore(dir)
	require.NoError(t, err)
	saved := snapshot(130)
	_, err = store.Save(saved)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewWALStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	latest, ok, err := reopened.Latest()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved.CycleID, latest.Snapshot.CycleID)
	assert.Equal(t, "BTCUSDT", latest.Snapshot.Rows[0].Symbol)
}

func TestWALStore_RequiresCycleID(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Save(domain.PortfolioSnapshot{})
	assert.Error(t, err)
}

func TestWALStore_Nil(t *testing.T) {
	var store *WALStore
	_, err := store.Save(snapshot(1))
	assert.Error(t, err)
	assert.Zero(t, store.CurrentIndex())
}
