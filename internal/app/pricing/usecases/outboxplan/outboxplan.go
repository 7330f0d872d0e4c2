// Package outboxplan adds domain events to a commit plan as outbox rows.
package outboxplan

import (
	"fmt"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// Add enriches each event and adds its outbox insert to plan. Each event is
// sequenced by its position in the plan so relays keep write order.
func Add(plan *committer.CommitPlan, outbox contracts.OutboxRepository, events ...domain.DomainEvent) error {
	for _, event := range events {
		enriched, err := outbox.EnrichEvent(event)
		if err != nil {
			return fmt.Errorf("failed to serialize %s event: %w", event.EventType(), err)
		}
		enriched.Sequence = int64(plan.Count())
		plan.Add(outbox.InsertMut(enriched))
	}
	return nil
}
