package sales

import "time"

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CPF       string    `json:"cpf,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int       `json:"price_cents"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Status     Status    `json:"status"`
	TotalCents int       `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"order_id"`
	LineNo         int    `json:"line_no"`
	ProductID      string `json:"product_id"`
	Qty            int    `json:"qty"`
	UnitPriceCents int    `json:"unit_price_cents"` // snapshot at reservation time
	SubtotalCents  int    `json:"subtotal_cents"`
}

// OrderDetail is the composed read model: order + customer + lines with
// their products, assembled in one store call.
type OrderDetail struct {
	Order
	Customer Customer     `json:"customer"`
	Lines    []LineDetail `json:"lines"`
}

type LineDetail struct {
	OrderLine
	Product Product `json:"product"`
}

type LineInput struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type LineQty struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}
