package cart

import (
	"errors"
	"fmt"
)

var (
	ErrZeroQuantity   = errors.New("cart: zero or negative quantity must not reach the gateway")
	ErrMissingProduct = errors.New("cart: product is required")
)

type OutOfStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: product=%s requested=%d available=%d", e.ProductID, e.Requested, e.Available)
}
