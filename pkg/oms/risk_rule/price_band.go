package riskrule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/joripage/matchengine/pkg/oms/model"
)

type priceBand struct {
	Floor decimal.Decimal `json:"floor"`
	Ceil  decimal.Decimal `json:"ceil"`
}

// PriceBandRule rejects orders priced outside the per-symbol band.
// Symbols without a configured band pass unchecked.
type PriceBandRule struct {
	bands map[string]priceBand
}

func NewPriceBandRuleFromFile(path string) (*PriceBandRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var bands map[string]priceBand
	if err := json.Unmarshal(data, &bands); err != nil {
		return nil, err
	}
	return &PriceBandRule{bands: bands}, nil
}

func (r *PriceBandRule) Check(order *model.AddOrder) error {
	band, ok := r.bands[order.Symbol]
	if !ok {
		return nil
	}
	if order.Price.LessThan(band.Floor) || order.Price.GreaterThan(band.Ceil) {
		return fmt.Errorf("price %s outside band [%s, %s]", order.Price, band.Floor, band.Ceil)
	}
	return nil
}
