package middleware

import (
	"context"
	"fmt"

	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/router"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
	"github.com/bitcoinblocks/backend/pkg/xredis"
)

// RateLimit enforces a fixed window of maxRequests per window duration for
// the given scope, counted per user. Unauthenticated requests pass through;
// routes behind Authenticate never see them.
func RateLimit(redisClient xredis.Client, scope string) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		userID := xcontext.RequestUserID(ctx)
		if userID == "" {
			return nil, nil
		}

		cfg := xcontext.Configs(ctx).Game
		key := fmt.Sprintf("ratelimit:%s:%s", scope, userID)

		count, err := redisClient.Incr(ctx, key)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase rate limit counter: %v", err)
			return nil, errorx.Unknown
		}

		if count == 1 {
			if err := redisClient.Expire(ctx, key, cfg.ChatRateWindow); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot set rate limit expiration: %v", err)
				return nil, errorx.Unknown
			}
		}

		if count > int64(cfg.ChatRateLimit) {
			return nil, errorx.New(errorx.TooManyRequests, "You sent too many requests, slow down")
		}

		return nil, nil
	}
}
