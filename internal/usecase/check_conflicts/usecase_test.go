package check_conflicts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) ListByStaffInRange(context.Context, int64, time.Time, time.Time) ([]*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.appointments, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var day = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func at(hours, minutes int) time.Time {
	return day.Add(time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute)
}

func TestExecute_CountsOverlappingActive(t *testing.T) {
	repo := &fakeAppointmentRepo{appointments: []*domain.Appointment{
		{ID: 1, StartTime: at(10, 0), EndTime: at(11, 0), Status: domain.StatusScheduled},
		{ID: 2, StartTime: at(10, 30), EndTime: at(11, 30), Status: domain.StatusScheduled},
		{ID: 3, StartTime: at(10, 0), EndTime: at(11, 0), Status: domain.StatusCancelledByCustomer},
	}}
	uc := NewUseCase(repo, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:      1,
		StaffID:       10,
		ProposedStart: at(10, 45),
		ProposedEnd:   at(11, 45),
	})
	require.NoError(t, err)

	assert.True(t, resp.HasConflict)
	// Отмененная запись не считается
	assert.Equal(t, 2, resp.ConflictCount)
}

func TestExecute_AdjacentWindowsDoNotConflict(t *testing.T) {
	repo := &fakeAppointmentRepo{appointments: []*domain.Appointment{
		{ID: 1, StartTime: at(10, 0), EndTime: at(11, 0), Status: domain.StatusScheduled},
	}}
	uc := NewUseCase(repo, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:      1,
		StaffID:       10,
		ProposedStart: at(11, 0),
		ProposedEnd:   at(12, 0),
	})
	require.NoError(t, err)

	assert.False(t, resp.HasConflict)
	assert.Equal(t, 0, resp.ConflictCount)
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &fakeAppointmentRepo{err: errors.New("db down")}
	uc := NewUseCase(repo, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:      1,
		StaffID:       10,
		ProposedStart: at(10, 0),
		ProposedEnd:   at(11, 0),
	})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeAppointmentRepo{}, nopLogger{})

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero tenant", req: &Request{StaffID: 10, ProposedStart: at(10, 0), ProposedEnd: at(11, 0)}},
		{name: "zero staff", req: &Request{TenantID: 1, ProposedStart: at(10, 0), ProposedEnd: at(11, 0)}},
		{name: "missing window", req: &Request{TenantID: 1, StaffID: 10}},
		{name: "inverted window", req: &Request{TenantID: 1, StaffID: 10, ProposedStart: at(11, 0), ProposedEnd: at(10, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
