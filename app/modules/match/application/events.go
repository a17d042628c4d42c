package matchservice

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/High-Desert-Practical/match-sync/internal/attr"
)

// Topics published by the match service.
const (
	TopicMatchImported     = "match.imported"
	TopicRankingsRefreshed = "rankings.refreshed"
)

// publishEvent publishes a JSON payload to the event bus. Publishing is
// best-effort: a failed publish is logged and never fails the operation
// that triggered it.
func (s *MatchService) publishEvent(ctx context.Context, topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to marshal event payload",
			attr.String("topic", topic),
			attr.Error(err),
		)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if cid := attr.CorrelationIDFromContext(ctx); cid != "" {
		msg.Metadata.Set("correlation_id", cid)
	}
	if err := s.bus.Publish(topic, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event",
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}
