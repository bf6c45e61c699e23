package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/repository"
)

// Line items live in a JSONB column; they never change after creation.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, user_id, products, total_amount, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	o := &entity.Order{}
	var (
		items  []byte
		status string
	)
	if err := row.Scan(&o.ID, &o.UserID, &items, &o.TotalAmount, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	if err := json.Unmarshal(items, &o.Products); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	items, err := json.Marshal(o.Products)
	if err != nil {
		return err
	}
	o.ID = newID()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, products, total_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, o.ID, o.UserID, items, o.TotalAmount, string(o.Status))

	if err := row.Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		o.ID = ""
		return mapErr(err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (r *OrderRepository) List(ctx context.Context) ([]entity.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) ([]entity.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, id, string(status)))
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
