package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(i int) *int       { return &i }
func strp(s string) *string { return &s }

func TestCustomerInputValidate(t *testing.T) {
	ok := CustomerInput{Name: "Ana", Email: "ana@example.com"}
	assert.NoError(t, ok.Validate())

	assert.ErrorIs(t, CustomerInput{Email: "ana@example.com"}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, CustomerInput{Name: "Ana"}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, CustomerInput{Name: "Ana", Email: "not-an-email"}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, CustomerInput{Name: "Ana", Email: "Ana <ana@example.com>"}.Validate(), ErrInvalidRequest)
}

func TestCustomerPatchValidate(t *testing.T) {
	assert.NoError(t, CustomerPatch{}.Validate())
	assert.NoError(t, CustomerPatch{Phone: strp("")}.Validate(), "optional fields may be cleared")
	assert.ErrorIs(t, CustomerPatch{Name: strp("")}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, CustomerPatch{Email: strp("nope")}.Validate(), ErrInvalidRequest)
}

func TestProductInputValidate(t *testing.T) {
	assert.NoError(t, ProductInput{Name: "Keyboard", PriceCents: intp(0)}.Validate())
	assert.ErrorIs(t, ProductInput{PriceCents: intp(100)}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, ProductInput{Name: "Keyboard"}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, ProductInput{Name: "Keyboard", PriceCents: intp(-1)}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, ProductInput{Name: "Keyboard", PriceCents: intp(100), Stock: -3}.Validate(), ErrInvalidRequest)
}

func TestProductPatchValidate(t *testing.T) {
	assert.NoError(t, ProductPatch{Stock: intp(0)}.Validate())
	assert.ErrorIs(t, ProductPatch{PriceCents: intp(-5)}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, ProductPatch{Stock: intp(-1)}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, ProductPatch{Name: strp("")}.Validate(), ErrInvalidRequest)
}
