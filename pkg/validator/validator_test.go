package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemRequest struct {
	ProductID        string `json:"product_id" validate:"required,max=255"`
	ProductVariantID string `json:"product_variant_id" validate:"required,max=255"`
	Quantity         int    `json:"quantity" validate:"gte=1,lte=1000"`
	Note             string `validate:"omitempty,min=2"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(itemRequest{ProductID: "prod_A", ProductVariantID: "var_1", Quantity: 2})
	assert.NoError(t, err)
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := Validate(itemRequest{Quantity: 1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["product_id"])
	assert.Equal(t, "is required", fields["product_variant_id"])
	assert.NotContains(t, fields, "ProductID")
}

func TestValidate_FallsBackToStructFieldName(t *testing.T) {
	err := Validate(itemRequest{ProductID: "p", ProductVariantID: "v", Quantity: 1, Note: "x"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be at least 2 characters", valErr.Fields()["Note"])
}

func TestValidate_QuantityBounds(t *testing.T) {
	for _, q := range []int{0, -3, 1001} {
		err := Validate(itemRequest{ProductID: "p", ProductVariantID: "v", Quantity: q})
		require.Error(t, err, "quantity %d", q)

		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Contains(t, valErr.Fields(), "quantity")
	}
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(itemRequest{ProductVariantID: "v", Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, "field 'product_id' is required", err.Error())
}

func TestDecodeAndValidate(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id":"p","product_variant_id":"v","quantity":3}`))
	var dst itemRequest
	require.NoError(t, DecodeAndValidate(req, &dst))
	assert.Equal(t, 3, dst.Quantity)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	var dst itemRequest
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
