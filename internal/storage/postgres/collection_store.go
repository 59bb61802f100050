package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type collectionStore struct {
	db *sql.DB
}

// NewCollectionStore создаёт PostgreSQL-реализацию CollectionStore.
// Порядок заказов хранится в колонке position; позиции заказа лежат в JSONB в том же виде, что и в файле.
func NewCollectionStore(store *Store) domain.AtomicCollectionStore {
	return &collectionStore{db: store.DB()}
}

func (r *collectionStore) Load(ctx context.Context, name domain.Collection) ([]domain.Order, error) {
	if err := checkCollection(name); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, customer, items
		FROM order_collections
		WHERE collection = $1
		ORDER BY position ASC
	`, string(name))
	if err != nil {
		return nil, fmt.Errorf("select %s orders: %w", name, err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			order domain.Order
			raw   []byte
		)
		if err := rows.Scan(&order.ID, &order.Customer, &raw); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		if err := json.Unmarshal(raw, &order.Items); err != nil {
			return nil, fmt.Errorf("%w: order %s items: %v", domain.ErrMalformedData, order.ID, err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *collectionStore) Save(ctx context.Context, name domain.Collection, orders []domain.Order) error {
	return r.SaveAll(ctx, map[domain.Collection][]domain.Order{name: orders})
}

// SaveAll перезаписывает все переданные коллекции в одной транзакции.
func (r *collectionStore) SaveAll(ctx context.Context, collections map[domain.Collection][]domain.Order) (err error) {
	names := make([]domain.Collection, 0, len(collections))
	for name := range collections {
		if err := checkCollection(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	// Стабильный порядок блокировок строк между конкурентными транзакциями.
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, name := range names {
		if err = replaceCollectionTx(ctx, tx, name, collections[name]); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save collections: %w", err)
	}

	return nil
}

func replaceCollectionTx(ctx context.Context, tx *sql.Tx, name domain.Collection, orders []domain.Order) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_collections WHERE collection = $1`, string(name)); err != nil {
		return fmt.Errorf("clear %s orders: %w", name, err)
	}

	for position, order := range orders {
		items := order.Items
		if items == nil {
			items = []domain.Item{}
		}
		raw, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("marshal order %s items: %w", order.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_collections (
				collection, position, order_id, customer, items
			) VALUES ($1,$2,$3,$4,$5)
		`,
			string(name), position, order.ID, order.Customer, string(raw),
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateOrderID, order.ID)
			}
			return fmt.Errorf("insert %s order: %w", name, err)
		}
	}

	return nil
}

func checkCollection(name domain.Collection) error {
	switch name {
	case domain.CollectionPending, domain.CollectionCompleted:
		return nil
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownCollection, name)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.AtomicCollectionStore = (*collectionStore)(nil)
