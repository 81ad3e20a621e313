package sales

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ledger is the inventory side of order creation: reservations decrement
// stock, releases put it back. Implementations must serialize movements on
// the same product so concurrent orders cannot overdraw.
type Ledger interface {
	// Reserve decrements stock by qty and returns the product's unit price
	// at reservation time (the snapshot captured into the order line).
	Reserve(ctx context.Context, productID string, qty int) (unitPriceCents int, err error)

	// Release increments stock by qty. At-most-once semantics per order are
	// the caller's responsibility.
	Release(ctx context.Context, productID string, qty int) error
}

type PgLedger struct{ DB *pgxpool.Pool }

// Reserve locks the product row (FOR UPDATE), so two concurrent reservations
// on the same product run one after the other and each sees current stock.
func (l *PgLedger) Reserve(ctx context.Context, productID string, qty int) (int, error) {
	tx, err := l.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, classify(err)
	}
	defer tx.Rollback(ctx)

	var price, stock int
	err = tx.QueryRow(ctx, `SELECT price_cents, stock FROM products WHERE id=$1 FOR UPDATE`, productID).
		Scan(&price, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, notFoundf("product %s", productID)
	}
	if err != nil {
		return 0, classify(err)
	}
	if stock < qty {
		return 0, &InsufficientStockError{ProductID: productID, Requested: qty, Available: stock}
	}

	if _, err := tx.Exec(ctx, `UPDATE products SET stock = stock - $2, updated_at = now() WHERE id=$1`, productID, qty); err != nil {
		return 0, classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, classify(err)
	}
	return price, nil
}

func (l *PgLedger) Release(ctx context.Context, productID string, qty int) error {
	ct, err := l.DB.Exec(ctx, `UPDATE products SET stock = stock + $2, updated_at = now() WHERE id=$1`, productID, qty)
	if err != nil {
		return classify(err)
	}
	if ct.RowsAffected() == 0 {
		return notFoundf("product %s", productID)
	}
	return nil
}
