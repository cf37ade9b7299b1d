package riskrule

import (
	"fmt"

	"github.com/joripage/matchengine/pkg/oms/model"
)

// MaxQtyRule caps the size of any single order. Zero means no limit.
type MaxQtyRule struct {
	MaxQty int64
}

func (r *MaxQtyRule) Check(order *model.AddOrder) error {
	if r.MaxQty > 0 && order.Quantity > r.MaxQty {
		return fmt.Errorf("quantity %d exceeds max %d", order.Quantity, r.MaxQty)
	}
	return nil
}
