package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"spotly/models"
	"spotly/services/schedule"
)

// fakeScheduler stands in for the scheduling engine; it hands out one slot
// and records the releases the reservation flow asks for.
type fakeScheduler struct {
	slot       models.Slot
	price      float64
	reserveErr error
	releaseErr error
	released   []string
}

func (f *fakeScheduler) ReserveSlot(_ context.Context, id string) (*models.Slot, float64, error) {
	if f.reserveErr != nil {
		return nil, 0, f.reserveErr
	}
	s := f.slot
	s.ID = id
	s.Available = false
	return &s, f.price, nil
}

func (f *fakeScheduler) ReleaseSlot(_ context.Context, id string) (*models.Slot, error) {
	f.released = append(f.released, id)
	if f.releaseErr != nil {
		return nil, f.releaseErr
	}
	s := f.slot
	s.ID = id
	s.Available = true
	return &s, nil
}

func (f *fakeScheduler) CreateSlot(context.Context, string, string, int, int) (*models.Slot, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeScheduler) UpdateSlot(context.Context, string, string, int, int) (*models.Slot, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeScheduler) DeleteSlot(context.Context, string) error {
	return errors.New("not implemented")
}

func (f *fakeScheduler) ListSlots(context.Context, string, string, bool) ([]models.Slot, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeScheduler) GetSlot(context.Context, string) (*models.Slot, error) {
	return nil, errors.New("not implemented")
}

type memReservationRepo struct {
	mu        sync.Mutex
	records   map[string]models.Reservation
	insertErr error
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{records: make(map[string]models.Reservation)}
}

func (r *memReservationRepo) Insert(_ context.Context, res models.Reservation) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[res.ID] = res
	return nil
}

func (r *memReservationRepo) FetchByID(_ context.Context, id string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.records[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &res, nil
}

func (r *memReservationRepo) FetchByUser(_ context.Context, userID string) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reservation
	for _, res := range r.records {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memReservationRepo) SetStatus(_ context.Context, id, expected, next string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.records[id]
	if !ok || res.Status != expected {
		return mongo.ErrNoDocuments
	}
	res.Status = next
	res.UpdatedAt = at
	r.records[id] = res
	return nil
}

func (r *memReservationRepo) EnsureIndexes() error { return nil }

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

func newTestService() (*DefaultReservationService, *memReservationRepo, *fakeScheduler) {
	repo := newMemReservationRepo()
	scheduler := &fakeScheduler{
		slot: models.Slot{
			SpaceID: "space-1",
			Day:     "2025-03-10",
			Start:   9 * 3600,
			End:     10*3600 + 31*60,
		},
		price: 20.00,
	}
	spaces := &memSpaceRepo{spaces: map[string]models.Space{
		"space-1": {ID: "space-1", OwnerID: "owner-1", HourlyRate: 10.00, Currency: "EUR"},
	}}
	svc := NewDefaultReservationService(repo, spaces, scheduler)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.Local) }
	return svc, repo, scheduler
}

func TestReserveCreatesPricedRecord(t *testing.T) {
	svc, repo, _ := newTestService()

	res, err := svc.Reserve(context.Background(), "user-1", "slot-1")
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "slot-1", res.SlotID)
	assert.Equal(t, "space-1", res.SpaceID)
	assert.Equal(t, "user-1", res.UserID)
	assert.InDelta(t, 20.00, res.Price, 1e-9)
	assert.Equal(t, "EUR", res.Currency)
	assert.Equal(t, models.ReservationActive, res.Status)

	stored, err := repo.FetchByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, *res, *stored)
}

func TestReservePropagatesSchedulingErrors(t *testing.T) {
	svc, repo, scheduler := newTestService()
	scheduler.reserveErr = &schedule.ScheduleError{Code: schedule.CodeSlotUnavailable, Message: "slot is already reserved"}

	_, err := svc.Reserve(context.Background(), "user-1", "slot-1")
	assert.Equal(t, schedule.CodeSlotUnavailable, schedule.CodeOf(err))
	assert.Empty(t, repo.records)
	assert.Empty(t, scheduler.released, "nothing to roll back when the binding failed")
}

func TestReserveRollsBackBindingWhenInsertFails(t *testing.T) {
	svc, repo, scheduler := newTestService()
	repo.insertErr = errors.New("write concern failure")

	_, err := svc.Reserve(context.Background(), "user-1", "slot-1")
	require.Error(t, err)
	assert.Equal(t, []string{"slot-1"}, scheduler.released, "the slot must be released again")
}

func TestCancelReleasesSlot(t *testing.T) {
	svc, _, scheduler := newTestService()
	ctx := context.Background()

	res, err := svc.Reserve(ctx, "user-1", "slot-1")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, "user-1", res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationCancelled, cancelled.Status)
	assert.Equal(t, []string{"slot-1"}, scheduler.released)
}

func TestCancelTwiceFails(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Reserve(ctx, "user-1", "slot-1")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, "user-1", res.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, "user-1", res.ID)
	assert.ErrorIs(t, err, ErrReservationCancelled)
}

func TestCancelRequiresOwnership(t *testing.T) {
	svc, _, scheduler := newTestService()
	ctx := context.Background()

	res, err := svc.Reserve(ctx, "user-1", "slot-1")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, "user-2", res.ID)
	assert.ErrorIs(t, err, ErrNotReservationOwner)
	assert.Empty(t, scheduler.released)
}

func TestCancelNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Cancel(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestListByUser(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Reserve(ctx, "user-1", "slot-1")
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, "user-1", "slot-2")
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, "user-2", "slot-3")
	require.NoError(t, err)

	mine, err := svc.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
