package strategies

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/martifolio/internal/domain"
)

// SQLiteStore keeps one row per asset. Thresholds are stored as decimal text.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open strategies db")
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS strategies (
		asset TEXT PRIMARY KEY,
		low_buy_1 TEXT NOT NULL DEFAULT '0',
		low_buy_2 TEXT NOT NULL DEFAULT '0',
		high_sell_1 TEXT NOT NULL DEFAULT '0',
		high_sell_2 TEXT NOT NULL DEFAULT '0',
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	return errors.Wrap(err, "create strategies table")
}

// Load returns every stored strategy. An empty table yields ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context) (domain.Strategies, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT asset, low_buy_1, low_buy_2, high_sell_1, high_sell_2 FROM strategies`)
	if err != nil {
		return nil, errors.Wrap(err, "query strategies")
	}
	defer rows.Close()

	strategies := domain.Strategies{}
	for rows.Next() {
		var asset string
		var fields [4]string
		if err := rows.Scan(&asset, &fields[0], &fields[1], &fields[2], &fields[3]); err != nil {
			return nil, errors.Wrap(err, "scan strategy")
		}

		var values [4]decimal.Decimal
		for i, field := range fields {
			if values[i], err = decimal.NewFromString(field); err != nil {
				return nil, errors.Wrapf(err, "parse %s threshold of %s", domain.Levels[i], asset)
			}
		}

		strategies[asset] = domain.Strategy{
			LowBuy1:   values[0],
			LowBuy2:   values[1],
			HighSell1: values[2],
			HighSell2: values[3],
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate strategies")
	}

	if len(strategies) == 0 {
		return nil, ErrNotFound
	}
	return strategies, nil
}

// Save replaces the stored payload in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, strategies domain.Strategies) error {
	normalized, err := strategies.Normalize()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin strategies tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM strategies`); err != nil {
		return errors.Wrap(err, "clear strategies")
	}

	for asset, strategy := range normalized {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO strategies (asset, low_buy_1, low_buy_2, high_sell_1, high_sell_2) VALUES (?, ?, ?, ?, ?)`,
			asset,
			strategy.LowBuy1.String(),
			strategy.LowBuy2.String(),
			strategy.HighSell1.String(),
			strategy.HighSell2.String(),
		)
		if err != nil {
			return errors.Wrapf(err, "insert strategy %s", asset)
		}
	}

	return errors.Wrap(tx.Commit(), "commit strategies")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
