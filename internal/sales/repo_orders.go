package sales

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderStore is the entity-store contract the workflow engine runs against.
type OrderStore interface {
	CustomerExists(ctx context.Context, id string) (bool, error)

	// InsertOrder persists the order and its lines as one unit: no partial
	// order is ever observable.
	InsertOrder(ctx context.Context, o Order, lines []OrderLine) error

	GetDetail(ctx context.Context, orderID string) (*OrderDetail, error)
	ListDetails(ctx context.Context) ([]OrderDetail, error)

	// TransitionStatus locks the order row, restores stock for every line
	// when releaseStock is set and the order is not already cancelled, and
	// writes the new status — all in one transaction. Returns the previous
	// status.
	TransitionStatus(ctx context.Context, orderID string, next Status, releaseStock bool) (Status, error)
}

type OrderRepo struct{ DB *pgxpool.Pool }

var _ OrderStore = (*OrderRepo)(nil)

func (r *OrderRepo) CustomerExists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id=$1)`, id).Scan(&ok)
	if err != nil {
		return false, classify(err)
	}
	return ok, nil
}

func (r *OrderRepo) InsertOrder(ctx context.Context, o Order, lines []OrderLine) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, customer_id, status, total_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		o.ID, o.CustomerID, o.Status, o.TotalCents, o.CreatedAt,
	)
	if err != nil {
		return classify(err)
	}
	for _, ln := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines(id, order_id, line_no, product_id, qty, unit_price_cents, subtotal_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ln.ID, ln.OrderID, ln.LineNo, ln.ProductID, ln.Qty, ln.UnitPriceCents, ln.SubtotalCents,
		)
		if err != nil {
			return classify(err)
		}
	}
	return classify(tx.Commit(ctx))
}

func (r *OrderRepo) GetDetail(ctx context.Context, orderID string) (*OrderDetail, error) {
	var d OrderDetail
	row := r.DB.QueryRow(ctx, `
		SELECT o.id, o.customer_id, o.status, o.total_cents, o.created_at, o.updated_at,
		       c.id, c.name, c.email, COALESCE(c.phone,''), COALESCE(c.address,''), COALESCE(c.cpf,''), c.created_at, c.updated_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1`, orderID)
	err := row.Scan(
		&d.ID, &d.CustomerID, &d.Status, &d.TotalCents, &d.CreatedAt, &d.UpdatedAt,
		&d.Customer.ID, &d.Customer.Name, &d.Customer.Email, &d.Customer.Phone,
		&d.Customer.Address, &d.Customer.CPF, &d.Customer.CreatedAt, &d.Customer.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFoundf("order %s", orderID)
	}
	if err != nil {
		return nil, classify(err)
	}

	byOrder, err := r.linesFor(ctx, []string{orderID})
	if err != nil {
		return nil, err
	}
	d.Lines = byOrder[orderID]
	return &d, nil
}

func (r *OrderRepo) ListDetails(ctx context.Context) ([]OrderDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.customer_id, o.status, o.total_cents, o.created_at, o.updated_at,
		       c.id, c.name, c.email, COALESCE(c.phone,''), COALESCE(c.address,''), COALESCE(c.cpf,''), c.created_at, c.updated_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []OrderDetail{}
	ids := []string{}
	for rows.Next() {
		var d OrderDetail
		err := rows.Scan(
			&d.ID, &d.CustomerID, &d.Status, &d.TotalCents, &d.CreatedAt, &d.UpdatedAt,
			&d.Customer.ID, &d.Customer.Name, &d.Customer.Email, &d.Customer.Phone,
			&d.Customer.Address, &d.Customer.CPF, &d.Customer.CreatedAt, &d.Customer.UpdatedAt,
		)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	if len(out) == 0 {
		return out, nil
	}

	byOrder, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = byOrder[out[i].ID]
	}
	return out, nil
}

func (r *OrderRepo) linesFor(ctx context.Context, orderIDs []string) (map[string][]LineDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT l.id, l.order_id, l.line_no, l.product_id, l.qty, l.unit_price_cents, l.subtotal_cents,
		       p.id, p.name, COALESCE(p.description,''), p.price_cents, p.stock, COALESCE(p.category,''), p.created_at, p.updated_at
		FROM order_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.order_id = ANY($1::uuid[])
		ORDER BY l.order_id, l.line_no`, orderIDs)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	byOrder := map[string][]LineDetail{}
	for rows.Next() {
		var ld LineDetail
		err := rows.Scan(
			&ld.ID, &ld.OrderID, &ld.LineNo, &ld.ProductID, &ld.Qty, &ld.UnitPriceCents, &ld.SubtotalCents,
			&ld.Product.ID, &ld.Product.Name, &ld.Product.Description, &ld.Product.PriceCents,
			&ld.Product.Stock, &ld.Product.Category, &ld.Product.CreatedAt, &ld.Product.UpdatedAt,
		)
		if err != nil {
			return nil, classify(err)
		}
		byOrder[ld.OrderID] = append(byOrder[ld.OrderID], ld)
	}
	return byOrder, classify(rows.Err())
}

func (r *OrderRepo) TransitionStatus(ctx context.Context, orderID string, next Status, releaseStock bool) (Status, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", classify(err)
	}
	defer tx.Rollback(ctx)

	var prev Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", notFoundf("order %s", orderID)
	}
	if err != nil {
		return "", classify(err)
	}

	// Stock goes back at most once: a second cancel sees prev == Cancelled
	// and skips the restore.
	if releaseStock && prev != StatusCancelled {
		rows, err := tx.Query(ctx, `SELECT product_id, qty FROM order_lines WHERE order_id=$1`, orderID)
		if err != nil {
			return "", classify(err)
		}
		var lines []LineQty
		for rows.Next() {
			var lq LineQty
			if err := rows.Scan(&lq.ProductID, &lq.Qty); err != nil {
				rows.Close()
				return "", classify(err)
			}
			lines = append(lines, lq)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return "", classify(err)
		}
		for _, lq := range lines {
			if _, err := tx.Exec(ctx, `UPDATE products SET stock = stock + $2, updated_at = now() WHERE id=$1`, lq.ProductID, lq.Qty); err != nil {
				return "", classify(err)
			}
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, orderID, next); err != nil {
		return "", classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", classify(err)
	}
	return prev, nil
}
