// Package committer applies collected Spanner mutations atomically.
//
// Write paths follow one shape: load aggregates, call domain methods, ask
// repositories for mutations (they never write), add outbox events for the
// same change, then apply the whole plan in a single commit.
//
//	plan := committer.NewPlan()
//	plan.Add(offerRepo.UpsertMut(offer))
//	for _, ev := range offer.DomainEvents() {
//	    plan.Add(outboxRepo.InsertMut(ev))
//	}
//	return c.Apply(ctx, plan)
package committer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"
)

// ErrVersionConflict is returned when a guarded row changed since it was read.
var ErrVersionConflict = errors.New("optimistic lock conflict: row was modified concurrently")

// CommitPlan collects mutations from multiple repositories for one commit.
type CommitPlan struct {
	mutations []*spanner.Mutation
	guards    []VersionGuard
}

// VersionGuard asserts a row's version column still holds Expected at commit time.
type VersionGuard struct {
	Table    string
	Key      spanner.Key
	Column   string
	Expected int64
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan. Nil mutations are ignored.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Guard adds an optimistic version check. Plans with guards commit in a
// read-write transaction.
func (cp *CommitPlan) Guard(g VersionGuard) {
	cp.guards = append(cp.guards, g)
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// Guards returns the version checks attached to the plan.
func (cp *CommitPlan) Guards() []VersionGuard {
	return cp.guards
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Committer applies CommitPlans against a Spanner client.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply commits the plan atomically. Plans without guards use a blind write;
// guarded plans verify every guard inside a read-write transaction first.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if len(plan.guards) == 0 {
		if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
			return fmt.Errorf("failed to apply commit plan: %w", err)
		}
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		for _, g := range plan.guards {
			if err := checkGuard(ctx, txn, g); err != nil {
				return err
			}
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("failed to apply guarded commit plan: %w", err)
	}
	return nil
}

func checkGuard(ctx context.Context, txn *spanner.ReadWriteTransaction, g VersionGuard) error {
	row, err := txn.ReadRow(ctx, g.Table, g.Key, []string{g.Column})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return fmt.Errorf("%w: %s %v no longer exists", ErrVersionConflict, g.Table, g.Key)
		}
		return fmt.Errorf("failed to read %s version: %w", g.Table, err)
	}
	var current int64
	if err := row.Column(0, &current); err != nil {
		return fmt.Errorf("failed to parse %s version: %w", g.Table, err)
	}
	if current != g.Expected {
		return fmt.Errorf("%w: %s %v expected version %d, got %d", ErrVersionConflict, g.Table, g.Key, g.Expected, current)
	}
	return nil
}
