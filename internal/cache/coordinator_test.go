package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"curator/internal/client"
	"curator/internal/logging"
	"curator/internal/types"
)

type fakeBindingAPI struct {
	removeErr  error
	addErr     error
	addCalls   [][2]int64 // groupID, promptID
	removeOrds []int64
	calls      []string
}

func (f *fakeBindingAPI) AddBindings(ctx context.Context, groupID int64, promptIDs []int64) (*client.BindingChange, error) {
	f.calls = append(f.calls, "add")
	f.addCalls = append(f.addCalls, [2]int64{groupID, promptIDs[0]})
	if f.addErr != nil && groupID != 1 { // compensating re-add to source succeeds
		return nil, f.addErr
	}
	return &client.BindingChange{Added: len(promptIDs)}, nil
}

func (f *fakeBindingAPI) RemoveBindings(ctx context.Context, groupID int64, promptIDs []int64) error {
	f.calls = append(f.calls, "remove")
	f.removeOrds = append(f.removeOrds, groupID)
	return f.removeErr
}

func groupFixture(id int64, title string, promptIDs ...int64) *types.Group {
	g := &types.Group{ID: id, Title: title}
	for i, pid := range promptIDs {
		g.Bindings = append(g.Bindings, &types.PromptBinding{
			ID:       int64(100*int(id) + i),
			PromptID: pid,
			AddedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return g
}

func seedMove(t *testing.T, api BindingAPI) (*Cache, *Coordinator) {
	t.Helper()
	c := New()
	c.Put(GroupKey(1), groupFixture(1, "source", 10, 11))
	c.Put(GroupKey(2), groupFixture(2, "target", 20))
	c.Put(GroupsKey(), []*types.Group{{ID: 1, Title: "source"}, {ID: 2, Title: "target"}})
	return c, NewCoordinator(c, api, logging.Nop())
}

func cachedGroup(t *testing.T, c *Cache, id int64) *types.Group {
	t.Helper()
	value, ok := c.Get(GroupKey(id))
	if !ok {
		t.Fatalf("expected group %d cached", id)
	}
	group, ok := value.(*types.Group)
	if !ok {
		t.Fatalf("unexpected cached type %T", value)
	}
	return group
}

func TestMoveBindingAppliesOptimisticStateAndSequencesCalls(t *testing.T) {
	api := &fakeBindingAPI{}
	c, coord := seedMove(t, api)

	result, err := coord.MoveBinding(context.Background(), 1, 2, 10)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if result.Added != 1 {
		t.Fatalf("expected one added binding, got %+v", result)
	}
	if len(api.calls) != 2 || api.calls[0] != "remove" || api.calls[1] != "add" {
		t.Fatalf("expected remove before add, got %v", api.calls)
	}

	source := cachedGroup(t, c, 1)
	if len(source.Bindings) != 1 || source.Bindings[0].PromptID != 11 {
		t.Fatalf("expected prompt 10 removed from source, got %+v", source.Bindings)
	}
	target := cachedGroup(t, c, 2)
	if len(target.Bindings) != 2 || target.Bindings[1].PromptID != 10 {
		t.Fatalf("expected prompt 10 appended to target, got %+v", target.Bindings)
	}
	for _, key := range []Key{GroupKey(1), GroupKey(2), GroupsKey()} {
		if !c.IsStale(key) {
			t.Fatalf("expected %s invalidated after move", key)
		}
	}
}

func TestMoveBindingRollsBackOnRemoveFailure(t *testing.T) {
	api := &fakeBindingAPI{removeErr: errors.New("remove failed")}
	c, coord := seedMove(t, api)

	if _, err := coord.MoveBinding(context.Background(), 1, 2, 10); err == nil {
		t.Fatalf("expected move to fail")
	}
	source := cachedGroup(t, c, 1)
	if len(source.Bindings) != 2 || source.Bindings[0].PromptID != 10 {
		t.Fatalf("expected source restored verbatim, got %+v", source.Bindings)
	}
	target := cachedGroup(t, c, 2)
	if len(target.Bindings) != 1 || target.Bindings[0].PromptID != 20 {
		t.Fatalf("expected target restored verbatim, got %+v", target.Bindings)
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected no add after failed remove, got %v", api.calls)
	}
	if !c.IsStale(GroupKey(1)) || !c.IsStale(GroupKey(2)) {
		t.Fatalf("expected both groups invalidated even on failure")
	}
}

func TestMoveBindingCompensatesWhenAddFails(t *testing.T) {
	api := &fakeBindingAPI{addErr: errors.New("add failed")}
	c, coord := seedMove(t, api)

	if _, err := coord.MoveBinding(context.Background(), 1, 2, 10); err == nil {
		t.Fatalf("expected move to fail")
	}
	// First add targets group 2 and fails, then the compensating re-add
	// targets the source group.
	if len(api.addCalls) != 2 {
		t.Fatalf("expected failed add plus compensating re-add, got %v", api.addCalls)
	}
	if api.addCalls[0][0] != 2 || api.addCalls[1][0] != 1 {
		t.Fatalf("unexpected add ordering %v", api.addCalls)
	}
	source := cachedGroup(t, c, 1)
	if len(source.Bindings) != 2 {
		t.Fatalf("expected source snapshot restored, got %+v", source.Bindings)
	}
}

func TestMoveBindingRejectsSameGroup(t *testing.T) {
	_, coord := seedMove(t, &fakeBindingAPI{})
	if _, err := coord.MoveBinding(context.Background(), 3, 3, 10); err == nil {
		t.Fatalf("expected same-group move to be rejected")
	}
}

func TestTxnRestoreDeletesEntriesAbsentAtBegin(t *testing.T) {
	c := New()
	txn := c.Begin(GroupKey(9))
	txn.Put(GroupKey(9), groupFixture(9, "ghost"))
	if _, ok := c.Get(GroupKey(9)); !ok {
		t.Fatalf("expected optimistic value visible")
	}
	txn.Restore()
	if _, ok := c.Get(GroupKey(9)); ok {
		t.Fatalf("expected restore to delete entry absent at begin")
	}
}

func TestBeginCancelsInflightRefetches(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	c.TrackInflight(GroupKey(1), cancel)
	c.Begin(GroupKey(1))
	select {
	case <-ctx.Done():
	default:
		t.Fatalf("expected in-flight refetch context to be cancelled")
	}
}
