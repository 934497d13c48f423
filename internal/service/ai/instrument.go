package ai

import (
	"context"
	"time"

	"github.com/zhouzirui/pirate-chat/internal/metrics"
	"github.com/zhouzirui/pirate-chat/internal/model/chat"
)

type instrumented struct {
	next Generator
}

// Instrument records call counts and latency of every Generate call.
func Instrument(gen Generator) Generator {
	if _, ok := gen.(*instrumented); ok {
		return gen
	}
	return &instrumented{next: gen}
}

func (i *instrumented) Generate(ctx context.Context, history []chat.Message, maxNewTokens int) (string, error) {
	start := time.Now()
	reply, err := i.next.Generate(ctx, history, maxNewTokens)
	metrics.ObserveGeneration(i.next.Name(), time.Since(start), err)
	return reply, err
}

func (i *instrumented) Name() string {
	return i.next.Name()
}
