package domain

import (
	"context"
	"encoding/json"

	"github.com/bitcoinblocks/backend/internal/common"
	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/pubsub"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

// requireGlobalAdmin rejects the request unless the authenticated user holds
// a global admin role.
func requireGlobalAdmin(ctx context.Context, roleVerifier *common.GlobalRoleVerifier) error {
	if err := roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return nil
}

// publishEvent pushes an event onto the notification topic. Failures are
// logged but never fail the request; the periodic client refetch covers any
// lost event.
func publishEvent(ctx context.Context, publisher pubsub.Publisher, channel string, ev event.Event) {
	b, err := json.Marshal(event.New(ev, event.Metadata{Channel: channel}))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", ev.Op(), err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.NotificationTopic
	err = publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(channel), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish event %s: %v", ev.Op(), err)
	}
}
