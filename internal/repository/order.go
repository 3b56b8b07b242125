package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-shopping-assistant/backend/internal/assistant"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

// NewOrderRepository создает репозиторий заказов.
func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder сохраняет заказ и его строки в одной транзакции.
func (r *OrderRepository) CreateOrder(ctx context.Context, order assistant.Order) error {
	if len(order.Lines) == 0 {
		return fmt.Errorf("%w: order has no lines", ErrInvalid)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, subtotal, discount, total, budget, client_total, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.Subtotal, order.Discount, order.Total, order.Budget, order.ClientTotal, order.CreatedAt,
	)
	if err != nil {
		return err
	}

	for idx, line := range order.Lines {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_lines (order_id, position, product_id, name, brand, category, price, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			order.ID, idx, line.ProductID, line.Name, line.Brand, line.Category, line.Price, line.Quantity,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
