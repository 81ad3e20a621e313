package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepo struct{ DB *pgxpool.Pool }

const customerCols = `id, name, email, COALESCE(phone,''), COALESCE(address,''), COALESCE(cpf,''), created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }, c *Customer) error {
	return row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CPF, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepo) Create(ctx context.Context, in CustomerInput) (*Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c := Customer{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		CPF:     in.CPF,
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO customers(id, name, email, phone, address, cpf)
		VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''))
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.CPF,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func (r *CustomerRepo) Get(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	row := r.DB.QueryRow(ctx, `SELECT `+customerCols+` FROM customers WHERE id=$1`, id)
	if err := scanCustomer(row, &c); err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func (r *CustomerRepo) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+customerCols+` FROM customers ORDER BY name`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []Customer{}
	for rows.Next() {
		var c Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, classify(err)
		}
		out = append(out, c)
	}
	return out, classify(rows.Err())
}

// Update applies a partial patch: only fields present in the request change.
func (r *CustomerRepo) Update(ctx context.Context, id string, p CustomerPatch) (*Customer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.CPF != nil {
		c.CPF = *p.CPF
	}
	err = r.DB.QueryRow(ctx, `
		UPDATE customers
		SET name=$2, email=$3, phone=NULLIF($4,''), address=NULLIF($5,''), cpf=NULLIF($6,''), updated_at=now()
		WHERE id=$1
		RETURNING updated_at`,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.CPF,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCustomerHasOrders
		}
		return classify(err)
	}
	if ct.RowsAffected() == 0 {
		return notFoundf("customer %s", id)
	}
	return nil
}
