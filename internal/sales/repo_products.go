package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepo struct{ DB *pgxpool.Pool }

const productCols = `id, name, COALESCE(description,''), price_cents, stock, COALESCE(category,''), created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepo) Create(ctx context.Context, in ProductInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  *in.PriceCents,
		Stock:       in.Stock,
		Category:    in.Category,
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, description, price_cents, stock, category)
		VALUES ($1, $2, NULLIF($3,''), $4, $5, NULLIF($6,''))
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.PriceCents, p.Stock, p.Category,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*Product, error) {
	var p Product
	row := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id)
	if err := scanProduct(row, &p); err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY name`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, classify(err)
		}
		out = append(out, p)
	}
	return out, classify(rows.Err())
}

// Update applies a partial patch. Direct stock edits go through here as well;
// order-driven stock movement is the ledger's job (see ledger.go).
func (r *ProductRepo) Update(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.PriceCents != nil {
		p.PriceCents = *patch.PriceCents
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	err = r.DB.QueryRow(ctx, `
		UPDATE products
		SET name=$2, description=NULLIF($3,''), price_cents=$4, stock=$5, category=NULLIF($6,''), updated_at=now()
		WHERE id=$1
		RETURNING updated_at`,
		p.ID, p.Name, p.Description, p.PriceCents, p.Stock, p.Category,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return invalidf("product %s is referenced by order lines", id)
		}
		return classify(err)
	}
	if ct.RowsAffected() == 0 {
		return notFoundf("product %s", id)
	}
	return nil
}
