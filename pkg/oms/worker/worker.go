package worker

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/joripage/matchengine/pkg/kafkautil"
	"github.com/joripage/matchengine/pkg/oms/model"
	"github.com/joripage/matchengine/pkg/oms/repo"
)

// Worker drains the order event topic into the audit database.
type Worker struct {
	orderEvent repo.IOrderEvent
}

func NewWorker(r repo.IRepo) *Worker {
	return &Worker{
		orderEvent: r.OrderEvent(),
	}
}

func (w *Worker) StartConsumer(ctx context.Context, cg *kafkautil.ConsumerGroup) error {
	return cg.Run(ctx, w.handleBatch)
}

func (w *Worker) handleBatch(ctx context.Context, msgs []kafkautil.Message) error {
	events := make([]*model.OrderEvent, 0, len(msgs))
	for _, msg := range msgs {
		var ev model.OrderEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			zap.S().Warnf("skip malformed order event at %s/%d/%d: %v",
				msg.Topic, msg.Partition, msg.Offset, err)
			continue
		}
		events = append(events, &ev)
	}

	_, err := w.orderEvent.BulkCreate(ctx, events)
	return err
}
