package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"curator/internal/client"
	"curator/internal/logging"
	"curator/internal/types"
)

type BindingAPI interface {
	AddBindings(ctx context.Context, groupID int64, promptIDs []int64) (*client.BindingChange, error)
	RemoveBindings(ctx context.Context, groupID int64, promptIDs []int64) error
}

// Coordinator wraps multi-step binding mutations whose effect is visible in
// more than one cached view. Readers observe either the pre-mutation state or
// the fully-applied optimistic state, never a half-applied one.
type Coordinator struct {
	cache *Cache
	api   BindingAPI
	log   logging.Logger
}

func NewCoordinator(c *Cache, api BindingAPI, log logging.Logger) *Coordinator {
	if log == nil {
		log = logging.Nop()
	}
	return &Coordinator{cache: c, api: api, log: log}
}

type MoveResult struct {
	Added   int
	Skipped int
}

// MoveBinding moves one prompt binding from group fromID to group toID:
// cancel in-flight refetches for both details, snapshot them, apply the
// optimistic transform, then issue remove-from-A and add-to-B strictly in
// sequence. Any failure restores both snapshots verbatim; if the remove
// succeeded but the add failed, a compensating re-add to the source group is
// attempted first so client and hub do not silently diverge. Both groups'
// dependent views are invalidated regardless of outcome.
func (c *Coordinator) MoveBinding(ctx context.Context, fromID, toID, promptID int64) (*MoveResult, error) {
	if fromID == toID {
		return nil, errors.New("source and target group are the same")
	}

	fromKey := GroupKey(fromID)
	toKey := GroupKey(toID)
	txn := c.cache.Begin(fromKey, toKey)
	defer c.invalidateDependents(fromID, toID)

	c.applyOptimisticMove(txn, fromKey, toKey, promptID)

	if err := c.api.RemoveBindings(ctx, fromID, []int64{promptID}); err != nil {
		txn.Restore()
		return nil, fmt.Errorf("remove binding: %w", err)
	}

	change, err := c.api.AddBindings(ctx, toID, []int64{promptID})
	if err != nil {
		c.compensateRemove(fromID, promptID)
		txn.Restore()
		return nil, fmt.Errorf("add binding: %w", err)
	}

	return &MoveResult{Added: change.Added, Skipped: change.Skipped}, nil
}

func (c *Coordinator) applyOptimisticMove(txn *Txn, fromKey, toKey Key, promptID int64) {
	var moved *types.PromptBinding
	if value, ok := txn.Snapshot(fromKey); ok {
		if from, ok := value.(*types.Group); ok {
			next := types.CloneGroup(from)
			kept := next.Bindings[:0]
			for _, binding := range next.Bindings {
				if binding != nil && binding.PromptID == promptID {
					moved = binding
					continue
				}
				kept = append(kept, binding)
			}
			next.Bindings = kept
			txn.Put(fromKey, next)
		}
	}
	if value, ok := txn.Snapshot(toKey); ok {
		if to, ok := value.(*types.Group); ok && !to.HasPrompt(promptID) {
			next := types.CloneGroup(to)
			appended := &types.PromptBinding{PromptID: promptID, AddedAt: time.Now().UTC()}
			if moved != nil {
				binding := *moved
				binding.AddedAt = appended.AddedAt
				appended = &binding
			}
			next.Bindings = append(next.Bindings, appended)
			txn.Put(toKey, next)
		}
	}
}

// compensateRemove re-adds the prompt to the source group after a failed
// add-to-target, closing the window where the hub holds neither binding.
// Best effort: a failure here is logged and surfaced by the invalidation
// refetch instead.
func (c *Coordinator) compensateRemove(fromID, promptID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
	defer cancel()
	if _, err := c.api.AddBindings(ctx, fromID, []int64{promptID}); err != nil {
		c.log.Error("compensating re-add failed",
			logging.F("group", fromID),
			logging.F("prompt", promptID),
			logging.F("err", err))
	}
}

func (c *Coordinator) invalidateDependents(groupIDs ...int64) {
	var keys []Key
	for _, id := range groupIDs {
		keys = append(keys, GroupDependents(id)...)
	}
	c.cache.Invalidate(keys...)
}
