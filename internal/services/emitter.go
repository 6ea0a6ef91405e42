package services

import (
	"context"

	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/realtime/bus"
)

// Emitter is the outbound side of the realtime layer. Implementations are
// fire-and-forget: a delivery failure never fails the mutation that produced
// the event.
type Emitter interface {
	Emit(ctx context.Context, msg realtime.Message)
}

type HubEmitter struct{ Hub *realtime.Hub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.Message) {
	e.Hub.Broadcast(msg)
}

type BusEmitter struct{ Bus bus.Bus }

func (e *BusEmitter) Emit(ctx context.Context, msg realtime.Message) {
	_ = e.Bus.Publish(ctx, msg)
}

type NopEmitter struct{}

func (NopEmitter) Emit(ctx context.Context, msg realtime.Message) {}
