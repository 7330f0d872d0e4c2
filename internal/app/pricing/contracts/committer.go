package contracts

import (
	"context"

	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// Committer applies a commit plan atomically.
type Committer interface {
	Apply(ctx context.Context, plan *committer.CommitPlan) error
}
