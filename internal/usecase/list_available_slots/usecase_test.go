package list_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/ptr"
)

type fakeSlotRepo struct {
	slots     []*domain.AvailabilitySlot
	err       error
	gotFilter domain.SlotFilter
	gotNow    time.Time
}

func (f *fakeSlotRepo) ListAvailable(_ context.Context, filter domain.SlotFilter, now time.Time) ([]*domain.AvailabilitySlot, error) {
	f.gotFilter = filter
	f.gotNow = now
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestExecute_MapsSlots(t *testing.T) {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	repo := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{
		{
			ID:              1,
			TenantID:        1,
			StaffID:         10,
			LocationID:      100,
			CategoryCode:    "B",
			StartTime:       start,
			EndTime:         start.Add(45 * time.Minute),
			DurationMinutes: 45,
			IsAvailable:     true,
		},
	}}
	uc := NewUseCase(repo, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID: 1,
		From:     time.Now().Add(time.Hour),
		To:       time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, int64(1), resp.Slots[0].ID)
	assert.Equal(t, "B", resp.Slots[0].CategoryCode)
	assert.Equal(t, 45, resp.Slots[0].DurationMinutes)
}

func TestExecute_ClampsFromToNow(t *testing.T) {
	repo := &fakeSlotRepo{}
	uc := NewUseCase(repo, nopLogger{})

	past := time.Now().Add(-24 * time.Hour)
	resp, err := uc.Execute(context.Background(), &Request{
		TenantID: 1,
		From:     past,
		To:       time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	// Прошедшая часть диапазона отрезана
	assert.True(t, repo.gotFilter.From.After(past))
	assert.Equal(t, repo.gotFilter.From, resp.From)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PassesFilters(t *testing.T) {
	repo := &fakeSlotRepo{}
	uc := NewUseCase(repo, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:        1,
		StaffID:         ptr.Ptr(int64(10)),
		LocationID:      ptr.Ptr(int64(100)),
		CategoryCode:    ptr.Ptr("B"),
		DurationMinutes: ptr.Ptr(45),
		From:            time.Now().Add(time.Hour),
		To:              time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), repo.gotFilter.TenantID)
	assert.Equal(t, int64(10), *repo.gotFilter.StaffID)
	assert.Equal(t, int64(100), *repo.gotFilter.LocationID)
	assert.Equal(t, "B", *repo.gotFilter.CategoryCode)
	assert.Equal(t, 45, *repo.gotFilter.DurationMinutes)
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &fakeSlotRepo{err: errors.New("db down")}
	uc := NewUseCase(repo, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		TenantID: 1,
		From:     time.Now().Add(time.Hour),
		To:       time.Now().Add(48 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeSlotRepo{}, nopLogger{})

	from := time.Now().Add(time.Hour)
	to := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero tenant", req: &Request{From: from, To: to}},
		{name: "missing range", req: &Request{TenantID: 1}},
		{name: "inverted range", req: &Request{TenantID: 1, From: to, To: from}},
		{name: "duration too small", req: &Request{TenantID: 1, From: from, To: to, DurationMinutes: ptr.Ptr(5)}},
		{name: "duration too large", req: &Request{TenantID: 1, From: from, To: to, DurationMinutes: ptr.Ptr(500)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
