package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BannedUsersKey is the Redis set of user ids barred from engagement writes.
const BannedUsersKey = "moderation:banned_users"

// BanList answers whether a caller may like or comment.
type BanList struct {
	rdb *redis.Client
}

// NewBanList returns a ban list bound to rdb. A nil client bans nobody.
func NewBanList(rdb *redis.Client) *BanList {
	return &BanList{rdb: rdb}
}

func (b *BanList) IsBanned(ctx context.Context, userID uuid.UUID) (bool, error) {
	if b == nil || b.rdb == nil {
		return false, nil
	}
	banned, err := b.rdb.SIsMember(ctx, BannedUsersKey, userID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check ban for %s: %w", userID, err)
	}
	return banned, nil
}

func (b *BanList) Ban(ctx context.Context, userID uuid.UUID) error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.SAdd(ctx, BannedUsersKey, userID.String()).Err()
}

func (b *BanList) Unban(ctx context.Context, userID uuid.UUID) error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.SRem(ctx, BannedUsersKey, userID.String()).Err()
}
