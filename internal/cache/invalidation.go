package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeDelete deletes cache keys, logging instead of propagating failures.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidatePaymentCache drops the cached payment record after a write.
// Single records are the only cached payment view; list reads always hit
// the database.
func InvalidatePaymentCache(ctx context.Context, cm *CacheManager, paymentID uint) {
	SafeDelete(ctx, cm.Payment, fmt.Sprintf("id:%d", paymentID))
}

// InvalidateUserCache drops the cached user after a role change.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, username string) {
	SafeDelete(ctx, cm.User, "username:"+username)
}
