package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/krobus00/trading-sim/internal/entity"
)

const defaultCommitTimeout = 5 * time.Second

type OrderRepository struct {
	db            *sqlx.DB
	commitTimeout time.Duration
}

func NewOrderRepository(db *sqlx.DB, commitTimeout time.Duration) *OrderRepository {
	if commitTimeout <= 0 {
		commitTimeout = defaultCommitTimeout
	}

	return &OrderRepository{db: db, commitTimeout: commitTimeout}
}

// Create persists the order inside a single transaction. The commit carries
// a bounded timeout; any failure rolls the transaction back so no partial
// state is ever visible.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	txCtx, cancel := context.WithTimeout(ctx, r.commitTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(txCtx, nil)
	if err != nil {
		return err
	}

	queryBuilder := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert(order.TableName()).
		Columns(
			"id",
			"symbol",
			"quantity",
			"price",
			"side",
			"status",
			"metadata",
			"created_at",
		).
		Values(
			order.ID,
			order.Symbol,
			order.Quantity,
			order.Price,
			order.Side,
			order.Status,
			order.Metadata,
			order.CreatedAt,
		)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	_, err = tx.ExecContext(txCtx, query, args...)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	err = tx.Commit()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	return &order, nil
}
