package schedule

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"spotly/models"
)

// memSlotRepo is an in-memory SlotRepository with the same contract as the
// Mongo implementation, including conditional SetAvailability.
type memSlotRepo struct {
	mu    sync.Mutex
	slots map[string]models.Slot
}

func newMemSlotRepo() *memSlotRepo {
	return &memSlotRepo{slots: make(map[string]models.Slot)}
}

func (r *memSlotRepo) FetchByParkingAndDay(_ context.Context, spaceID, day string) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Slot
	for _, s := range r.slots {
		if s.SpaceID == spaceID && s.Day == day {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r *memSlotRepo) FetchBySpace(_ context.Context, spaceID string) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Slot
	for _, s := range r.slots {
		if s.SpaceID == spaceID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

func (r *memSlotRepo) FetchByID(_ context.Context, id string) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &s, nil
}

func (r *memSlotRepo) Insert(_ context.Context, slot models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.ID] = slot
	return nil
}

func (r *memSlotRepo) Update(_ context.Context, slot models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slot.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	r.slots[slot.ID] = slot
	return nil
}

func (r *memSlotRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.slots, id)
	return nil
}

func (r *memSlotRepo) SetAvailability(_ context.Context, id string, expected, next bool, at time.Time) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok || s.Available != expected {
		return nil, mongo.ErrNoDocuments
	}
	s.Available = next
	s.UpdatedAt = at
	r.slots[id] = s
	return &s, nil
}

func (r *memSlotRepo) EnsureIndexes() error { return nil }

type memSpaceRepo struct {
	spaces map[string]models.Space
}

func (r *memSpaceRepo) FetchByID(_ context.Context, id string) (*models.Space, error) {
	s, ok := r.spaces[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &s, nil
}

const testSpace = "space-1"

var testNow = time.Date(2025, 3, 1, 8, 0, 0, 0, time.Local)

func newTestService() (*DefaultSchedulingService, *memSlotRepo) {
	repo := newMemSlotRepo()
	spaces := &memSpaceRepo{spaces: map[string]models.Space{
		testSpace: {ID: testSpace, OwnerID: "owner-1", HourlyRate: 10.00, Currency: "EUR"},
	}}
	svc := NewDefaultSchedulingService(repo, spaces, nil)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func TestCreateAndListRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Available)

	listed, err := svc.ListSlots(ctx, testSpace, "2025-03-10", false)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, 9*3600, listed[0].Start)
	assert.Equal(t, 10*3600, listed[0].End)
	assert.True(t, listed[0].Available)
}

func TestCreateSlotInvalidInterval(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 10*3600, 10*3600)
	assert.Equal(t, CodeInvalidInterval, CodeOf(err))

	_, err = svc.CreateSlot(ctx, testSpace, "2025-03-10", 11*3600, 10*3600)
	assert.Equal(t, CodeInvalidInterval, CodeOf(err))
}

func TestCreateSlotPastDate(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.CreateSlot(ctx, testSpace, "2025-02-28", 9*3600, 10*3600)
	assert.Equal(t, CodePastDate, CodeOf(err))
	assert.Empty(t, repo.slots)

	// Today is not in the past.
	_, err = svc.CreateSlot(ctx, testSpace, "2025-03-01", 9*3600, 10*3600)
	assert.NoError(t, err)
}

func TestCreateSlotConflictListsAllOverlapping(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	a, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600)
	require.NoError(t, err)
	b, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 10*3600, 11*3600)
	require.NoError(t, err)

	_, err = svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600+1800, 10*3600+1800)
	require.Equal(t, CodeConflict, CodeOf(err))

	conflicting := ConflictingSlots(err)
	require.Len(t, conflicting, 2)
	assert.Equal(t, a.ID, conflicting[0].ID)
	assert.Equal(t, b.ID, conflicting[1].ID)

	// The rejected create left nothing behind.
	assert.Len(t, repo.slots, 2)
}

func TestCreateSlotTouchingEndpointsAllowed(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600)
	require.NoError(t, err)
	_, err = svc.CreateSlot(ctx, testSpace, "2025-03-10", 10*3600, 11*3600)
	assert.NoError(t, err)
}

func TestUpdateSlotExcludesSelf(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600)
	require.NoError(t, err)

	// Widening within its own prior window must not self-conflict.
	updated, err := svc.UpdateSlot(ctx, created.ID, "2025-03-10", 9*3600, 10*3600+1800)
	require.NoError(t, err)
	assert.Equal(t, 10*3600+1800, updated.End)
	assert.True(t, updated.Available)
}

func TestUpdateSlotConflict(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	a, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600)
	require.NoError(t, err)
	b, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 11*3600, 12*3600)
	require.NoError(t, err)

	_, err = svc.UpdateSlot(ctx, b.ID, "2025-03-10", 9*3600+1800, 10*3600+1800)
	require.Equal(t, CodeConflict, CodeOf(err))
	conflicting := ConflictingSlots(err)
	require.Len(t, conflicting, 1)
	assert.Equal(t, a.ID, conflicting[0].ID)

	// Rejected update leaves the slot completely unchanged.
	stored := repo.slots[b.ID]
	assert.Equal(t, 11*3600, stored.Start)
	assert.Equal(t, 12*3600, stored.End)
}

func TestUpdateReservedSlotRejected(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600)
	require.NoError(t, err)
	_, _, err = svc.ReserveSlot(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.UpdateSlot(ctx, created.ID, "2025-03-10", 9*3600, 11*3600)
	assert.Equal(t, CodeSlotReserved, CodeOf(err))

	stored := repo.slots[created.ID]
	assert.Equal(t, 10*3600, stored.End)
	assert.False(t, stored.Available)
}

func TestUpdateSlotNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdateSlot(context.Background(), "missing", "2025-03-10", 9*3600, 10*3600)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestDeleteSlot(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSlot(ctx, created.ID))
	assert.Empty(t, repo.slots)

	assert.Equal(t, CodeNotFound, CodeOf(svc.DeleteSlot(ctx, created.ID)))
}

func TestDeleteReservedSlotRejected(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600)
	require.NoError(t, err)
	_, _, err = svc.ReserveSlot(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, CodeSlotReserved, CodeOf(svc.DeleteSlot(ctx, created.ID)))
	assert.Len(t, repo.slots, 1)
}

func TestReserveSlotQuotesCeilingPrice(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// [09:00, 10:31) at 10.00/hour bills as 2 hours.
	created, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600+31*60)
	require.NoError(t, err)

	reserved, price, err := svc.ReserveSlot(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, reserved.Available)
	assert.InDelta(t, 20.00, price, 1e-9)
}

func TestReserveTwiceFails(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600)
	require.NoError(t, err)

	_, _, err = svc.ReserveSlot(ctx, created.ID)
	require.NoError(t, err)

	_, _, err = svc.ReserveSlot(ctx, created.ID)
	assert.Equal(t, CodeSlotUnavailable, CodeOf(err))
	assert.False(t, repo.slots[created.ID].Available, "slot must remain reserved")
}

func TestReserveSlotNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.ReserveSlot(context.Background(), "missing")
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestReleaseSlotCycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600)
	require.NoError(t, err)
	_, _, err = svc.ReserveSlot(ctx, created.ID)
	require.NoError(t, err)

	released, err := svc.ReleaseSlot(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, released.Available)

	// Double release signals the anomaly instead of silently succeeding.
	_, err = svc.ReleaseSlot(ctx, created.ID)
	assert.Equal(t, CodeSlotAlreadyAvailable, CodeOf(err))

	// The slot is reservable again.
	_, _, err = svc.ReserveSlot(ctx, created.ID)
	assert.NoError(t, err)
}

func TestListSlotsOrderingAndFilter(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	late, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 14*3600, 15*3600)
	require.NoError(t, err)
	early, err := svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600)
	require.NoError(t, err)
	_, _, err = svc.ReserveSlot(ctx, late.ID)
	require.NoError(t, err)

	all, err := svc.ListSlots(ctx, testSpace, "2025-03-10", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ID, all[0].ID, "slots must be ordered by start time")

	available, err := svc.ListSlots(ctx, testSpace, "2025-03-10", true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, early.ID, available[0].ID)

	none, err := svc.ListSlots(ctx, "space-empty", "2025-03-10", false)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestConcurrentCreateRace(t *testing.T) {
	for i := 0; i < 25; i++ {
		svc, repo := newTestService()
		ctx := context.Background()

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, errs[n] = svc.CreateSlot(ctx, testSpace, "2025-03-10", 9*3600, 10*3600+n*60)
			}(j)
		}
		wg.Wait()

		var conflicts, successes int
		for _, err := range errs {
			switch {
			case err == nil:
				successes++
			case CodeOf(err) == CodeConflict:
				conflicts++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, successes, "exactly one racing create must win")
		assert.Equal(t, 1, conflicts, "the losing create must see the conflict")
		assert.Len(t, repo.slots, 1, "stored state must never contain overlapping slots")
	}
}
