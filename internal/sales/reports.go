package sales

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MonthRevenue struct {
	Month      string `json:"month"` // YYYY-MM
	TotalCents int64  `json:"total_cents"`
}

type RevenueReport struct {
	Year            int            `json:"year"`
	Months          []MonthRevenue `json:"months"`
	GrandTotalCents int64          `json:"grand_total_cents"`
}

type ProductSales struct {
	Product      Product `json:"product"`
	UnitsSold    int64   `json:"units_sold"`
	RevenueCents int64   `json:"revenue_cents"`
}

type CustomerSpend struct {
	Customer   Customer `json:"customer"`
	OrderCount int64    `json:"order_count"`
	SpentCents int64    `json:"spent_cents"`
}

// ReportsRepo aggregates over settled orders only (Paid, Delivered).
type ReportsRepo struct{ DB *pgxpool.Pool }

func (r *ReportsRepo) MonthlyRevenue(ctx context.Context, year int) (*RevenueReport, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT to_char(created_at, 'YYYY-MM') AS month, SUM(total_cents)
		FROM orders
		WHERE status IN ('Paid', 'Delivered')
		  AND created_at >= make_date($1, 1, 1)
		  AND created_at <  make_date($1 + 1, 1, 1)
		GROUP BY 1
		ORDER BY 1`, year)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	rep := RevenueReport{Year: year, Months: []MonthRevenue{}}
	for rows.Next() {
		var m MonthRevenue
		if err := rows.Scan(&m.Month, &m.TotalCents); err != nil {
			return nil, classify(err)
		}
		rep.Months = append(rep.Months, m)
		rep.GrandTotalCents += m.TotalCents
	}
	return &rep, classify(rows.Err())
}

func (r *ReportsRepo) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.id, p.name, COALESCE(p.description,''), p.price_cents, p.stock, COALESCE(p.category,''), p.created_at, p.updated_at,
		       SUM(l.qty) AS units, SUM(l.subtotal_cents) AS revenue
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		JOIN products p ON p.id = l.product_id
		WHERE o.status IN ('Paid', 'Delivered')
		GROUP BY p.id
		ORDER BY units DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []ProductSales{}
	for rows.Next() {
		var ps ProductSales
		err := rows.Scan(
			&ps.Product.ID, &ps.Product.Name, &ps.Product.Description, &ps.Product.PriceCents,
			&ps.Product.Stock, &ps.Product.Category, &ps.Product.CreatedAt, &ps.Product.UpdatedAt,
			&ps.UnitsSold, &ps.RevenueCents,
		)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, ps)
	}
	return out, classify(rows.Err())
}

func (r *ReportsRepo) TopCustomers(ctx context.Context, limit int) ([]CustomerSpend, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.id, c.name, c.email, COALESCE(c.phone,''), COALESCE(c.address,''), COALESCE(c.cpf,''), c.created_at, c.updated_at,
		       COUNT(o.id) AS orders, SUM(o.total_cents) AS spent
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.status IN ('Paid', 'Delivered')
		GROUP BY c.id
		ORDER BY spent DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []CustomerSpend{}
	for rows.Next() {
		var cs CustomerSpend
		err := rows.Scan(
			&cs.Customer.ID, &cs.Customer.Name, &cs.Customer.Email, &cs.Customer.Phone,
			&cs.Customer.Address, &cs.Customer.CPF, &cs.Customer.CreatedAt, &cs.Customer.UpdatedAt,
			&cs.OrderCount, &cs.SpentCents,
		)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, cs)
	}
	return out, classify(rows.Err())
}
