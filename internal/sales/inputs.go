package sales

import "net/mail"

type CustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	CPF     string `json:"cpf"`
}

func (in CustomerInput) Validate() error {
	if in.Name == "" || in.Email == "" {
		return invalidf("name and email are required")
	}
	if !validEmail(in.Email) {
		return invalidf("invalid email: %s", in.Email)
	}
	return nil
}

// Patch types use pointers so absent fields stay untouched on update.

type CustomerPatch struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	CPF     *string `json:"cpf"`
}

func (p CustomerPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return invalidf("name cannot be empty")
	}
	if p.Email != nil && !validEmail(*p.Email) {
		return invalidf("invalid email: %s", *p.Email)
	}
	return nil
}

type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  *int   `json:"price_cents"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
}

func (in ProductInput) Validate() error {
	if in.Name == "" || in.PriceCents == nil {
		return invalidf("name and price_cents are required")
	}
	if *in.PriceCents < 0 {
		return invalidf("price_cents cannot be negative")
	}
	if in.Stock < 0 {
		return invalidf("stock cannot be negative")
	}
	return nil
}

type ProductPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int    `json:"price_cents"`
	Stock       *int    `json:"stock"`
	Category    *string `json:"category"`
}

func (p ProductPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return invalidf("name cannot be empty")
	}
	if p.PriceCents != nil && *p.PriceCents < 0 {
		return invalidf("price_cents cannot be negative")
	}
	if p.Stock != nil && *p.Stock < 0 {
		return invalidf("stock cannot be negative")
	}
	return nil
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}
