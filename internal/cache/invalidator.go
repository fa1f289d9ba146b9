package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brightpath/internal/observability"

	"github.com/redis/go-redis/v9"
)

// StalePage is the payload published when a public page must be regenerated.
type StalePage struct {
	Kind     string    `json:"kind"`
	TargetID string    `json:"target_id"`
	MarkedAt time.Time `json:"marked_at"`
}

// PageInvalidator drops cached public pages and tells page renderers to rebuild them.
type PageInvalidator struct {
	rdb *redis.Client
}

// NewPageInvalidator returns an invalidator bound to rdb. A nil client makes every call a no-op.
func NewPageInvalidator(rdb *redis.Client) *PageInvalidator {
	return &PageInvalidator{rdb: rdb}
}

// MarkPostStale removes the cached page of postID and publishes a stale notice.
func (p *PageInvalidator) MarkPostStale(ctx context.Context, postID string) (err error) {
	if p == nil || p.rdb == nil {
		return nil
	}
	defer func() {
		observability.PageInvalidations.WithLabelValues(observability.Result(err)).Inc()
	}()

	payload, err := json.Marshal(StalePage{Kind: "post", TargetID: postID, MarkedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode stale page: %w", err)
	}

	pipe := p.rdb.Pipeline()
	pipe.Del(ctx, PostPageKey(postID))
	pipe.Publish(ctx, StalePagesChannel, payload)
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mark post %s stale: %w", postID, err)
	}
	return nil
}
