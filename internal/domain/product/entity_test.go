// internal/domain/product/entity_test.go
package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	p := Product{Price: 100, DiscountPercent: 10}
	assert.InDelta(t, 90.0, p.EffectivePrice(), 1e-9)

	p = Product{Price: 49.99}
	assert.InDelta(t, 49.99, p.EffectivePrice(), 1e-9)

	p = Product{Price: 100, DiscountPercent: 100}
	assert.InDelta(t, 0.0, p.EffectivePrice(), 1e-9)
}
