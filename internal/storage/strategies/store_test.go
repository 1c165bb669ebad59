package strategies

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/martifolio/internal/domain"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	dir := t.TempDir()
	sqlite, err := NewSQLiteStore(filepath.Join(dir, "strategies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"json":   NewJSONStore(filepath.Join(dir, "strategies.json")),
		"sqlite": sqlite,
	}
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestStore_RoundTripIsExact(t *testing.T) {
	payload := domain.Strategies{
		"BTC": {LowBuy1: d("58000.5"), LowBuy2: d("52000"), HighSell1: d("71000.123456789"), HighSell2: d("80000")},
		"ETH": {LowBuy1: d("0.1"), HighSell2: d("4200.0000001")},
		"SOL": {},
	}

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, payload))

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			require.Len(t, loaded, len(payload))

			for asset, want := range payload {
				got, ok := loaded[asset]
				require.True(t, ok, asset)
				for _, kind := range domain.Levels {
					assert.True(t, want.Threshold(kind).Equal(got.Threshold(kind)),
						"%s %s: want %s got %s", asset, kind, want.Threshold(kind), got.Threshold(kind))
				}
			}
		})
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(context.Background())
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestStore_SaveNormalizesKeys(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, domain.Strategies{" eth ": {LowBuy1: d("1500")}}))

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			strategy, ok := loaded.Lookup("eth")
			require.True(t, ok)
			assert.True(t, strategy.LowBuy1.Equal(d("1500")))
		})
	}
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			err := store.Save(ctx, domain.Strategies{"BTC": {HighSell1: d("-1")}})
			assert.True(t, errors.Is(err, domain.ErrInvalidStrategy))

			_, err = store.Load(ctx)
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestEnsureDefaults(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			seeded, err := EnsureDefaults(ctx, store)
			require.NoError(t, err)
			assert.True(t, seeded)

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"BTC"}, keys(loaded))

			require.NoError(t, Upsert(ctx, store, "eth", domain.Strategy{LowBuy1: d("2000")}))

			seeded, err = EnsureDefaults(ctx, store)
			require.NoError(t, err)
			assert.False(t, seeded)

			loaded, err = store.Load(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"BTC", "ETH"}, keys(loaded))
		})
	}
}

func TestJSONStore_AcceptsNumericThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategies.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"btc": {"low_buy_1": 60000, "high_sell_1": 90000.5}}`), 0o644))

	loaded, err := NewJSONStore(path).Load(context.Background())
	require.NoError(t, err)

	strategy, ok := loaded.Lookup("BTC")
	require.True(t, ok)
	assert.True(t, strategy.LowBuy1.Equal(d("60000")))
	assert.True(t, strategy.HighSell1.Equal(d("90000.5")))
	assert.True(t, strategy.LowBuy2.IsZero())
}

func TestJSONStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategies.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := NewJSONStore(path).Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestJSONStore_DuplicateKeysDifferingInCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategies.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"btc": {"low_buy_1": 1}, "BTC": {"low_buy_1": 2}}`), 0o644))

	_, err := NewJSONStore(path).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidStrategy)
}

func keys(s domain.Strategies) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
