// Package service holds the business operations behind the HTTP handlers.
package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/artshop/internal/events"
	"github.com/Skotchmaster/artshop/internal/images"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

const publishTimeout = 5 * time.Second

// publish is best effort: a failed notification never fails the request.
func publish(ctx context.Context, p events.Publisher, topic, key string, ev events.Event) {
	if p == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := p.Publish(pctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}

func saveImage(ctx context.Context, store images.Store, up images.Upload, maxSize int64) (string, error) {
	if err := images.CheckUpload(up, maxSize); err != nil {
		return "", err
	}
	return store.Save(ctx, up)
}
