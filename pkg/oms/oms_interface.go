package oms

import (
	"context"

	"github.com/joripage/matchengine/pkg/oms/model"
)

type IOMS interface {
	AddOrder(ctx context.Context, addOrder *model.AddOrder) error
	CancelOrder(ctx context.Context, cancelOrder *model.CancelOrder) error
	ModifyOrder(ctx context.Context, modifyOrder *model.ModifyOrder) error
}
