package riskrule

import "github.com/joripage/matchengine/pkg/oms/model"

// RiskRule is a pre-trade check applied before a request reaches the book.
type RiskRule interface {
	Check(order *model.AddOrder) error
}
