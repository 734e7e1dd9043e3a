package check_slot_conflicts

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

type fakeResolver struct {
	minutes int
	err     error
	calls   []string
}

func (f *fakeResolver) Resolve(_ context.Context, from, to string, _ time.Time) (int, error) {
	f.calls = append(f.calls, from+"->"+to)
	if f.err != nil {
		return 0, f.err
	}
	return f.minutes, nil
}

type fakeItinerary struct {
	appointments []domain.ItineraryAppointment
	err          error
	calls        int
	gotTenantID  int64
	gotCustomer  int64
	gotFrom      time.Time
	gotTo        time.Time
}

func (f *fakeItinerary) ListItineraryByCustomer(_ context.Context, tenantID, customerID int64, from, to time.Time) ([]domain.ItineraryAppointment, error) {
	f.calls++
	f.gotTenantID = tenantID
	f.gotCustomer = customerID
	f.gotFrom = from
	f.gotTo = to
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

// Запись клиента 10:00-11:00 в точке с индексом 8001
func precedingAppointment() domain.ItineraryAppointment {
	return domain.ItineraryAppointment{
		AppointmentID: 500,
		StartTime:     at(10, 0),
		EndTime:       at(11, 0),
		LocationID:    1,
		PostalCode:    ptr.Ptr("8001"),
	}
}

func TestExecute_DirectOverlapRejected(t *testing.T) {
	resolver := &fakeResolver{minutes: 40}
	uc := NewUseCase(&fakeItinerary{}, resolver, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ExistingAppointments: []domain.ItineraryAppointment{precedingAppointment()},
		ProposedSlots: []ProposedSlot{
			{SlotID: 1, StartTime: at(10, 30), EndTime: at(11, 15)},
		},
		ProposedPostalCode: "8400",
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	result := resp.Results[0]
	assert.True(t, result.HasConflict)
	require.NotNil(t, result.Reason)
	assert.Equal(t, ReasonDirectConflict, *result.Reason)
	// Прямое пересечение не требует обращения к времени в пути
	assert.Empty(t, resolver.calls)
}

func TestExecute_TravelConflictWithEarliestStart(t *testing.T) {
	// Дорога 8001 -> 8400 занимает 40 минут; запись заканчивается в 11:00,
	// значит раньше 11:40 слот в 8400 начаться не может
	resolver := &fakeResolver{minutes: 40}
	uc := NewUseCase(&fakeItinerary{}, resolver, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ExistingAppointments: []domain.ItineraryAppointment{precedingAppointment()},
		ProposedSlots: []ProposedSlot{
			{SlotID: 1, StartTime: at(11, 20), EndTime: at(12, 5)},
			{SlotID: 2, StartTime: at(11, 45), EndTime: at(12, 30)},
		},
		ProposedPostalCode: "8400",
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)

	first := resp.Results[0]
	assert.True(t, first.HasConflict)
	require.NotNil(t, first.Reason)
	assert.Equal(t, ReasonTravelConflict, *first.Reason)
	require.NotNil(t, first.EarliestStart)
	assert.Equal(t, at(11, 40), *first.EarliestStart)

	second := resp.Results[1]
	assert.False(t, second.HasConflict)
	assert.Nil(t, second.Reason)
}

func TestExecute_SucceedingAppointmentTravelConflict(t *testing.T) {
	// Следующая запись начинается в 13:00 в 8001; слот в 8400 заканчивается
	// в 12:30, дорога 40 минут - приезд в 13:10, опоздание
	resolver := &fakeResolver{minutes: 40}
	uc := NewUseCase(&fakeItinerary{}, resolver, nopLogger{})

	succeeding := domain.ItineraryAppointment{
		AppointmentID: 501,
		StartTime:     at(13, 0),
		EndTime:       at(14, 0),
		PostalCode:    ptr.Ptr("8001"),
	}

	resp, err := uc.Execute(context.Background(), &Request{
		ExistingAppointments: []domain.ItineraryAppointment{succeeding},
		ProposedSlots: []ProposedSlot{
			{SlotID: 1, StartTime: at(11, 45), EndTime: at(12, 30)},
		},
		ProposedPostalCode: "8400",
	})
	require.NoError(t, err)

	result := resp.Results[0]
	assert.True(t, result.HasConflict)
	require.NotNil(t, result.Reason)
	assert.Equal(t, ReasonTravelConflict, *result.Reason)
	// Направление запроса: от слота к следующей записи
	assert.Equal(t, []string{"8400->8001"}, resolver.calls)
}

func TestExecute_SamePostalCodeSkipsTravelCheck(t *testing.T) {
	resolver := &fakeResolver{minutes: 40}
	uc := NewUseCase(&fakeItinerary{}, resolver, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ExistingAppointments: []domain.ItineraryAppointment{precedingAppointment()},
		ProposedSlots: []ProposedSlot{
			{SlotID: 1, StartTime: at(11, 0), EndTime: at(11, 45)},
		},
		ProposedPostalCode: "8001",
	})
	require.NoError(t, err)

	assert.False(t, resp.Results[0].HasConflict)
	assert.Empty(t, resolver.calls)
}

func TestExecute_ResolverFailureDegradesToNoConstraint(t *testing.T) {
	// Недоступный провайдер не отклоняет слот
	resolver := &fakeResolver{err: errors.New("routing down")}
	uc := NewUseCase(&fakeItinerary{}, resolver, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ExistingAppointments: []domain.ItineraryAppointment{precedingAppointment()},
		ProposedSlots: []ProposedSlot{
			{SlotID: 1, StartTime: at(11, 5), EndTime: at(11, 50)},
		},
		ProposedPostalCode: "8400",
	})
	require.NoError(t, err)

	assert.False(t, resp.Results[0].HasConflict)
}

func TestExecute_MissingPostalCodeSkipsTravelCheck(t *testing.T) {
	resolver := &fakeResolver{minutes: 40}
	uc := NewUseCase(&fakeItinerary{}, resolver, nopLogger{})

	appt := precedingAppointment()
	appt.PostalCode = nil

	resp, err := uc.Execute(context.Background(), &Request{
		ExistingAppointments: []domain.ItineraryAppointment{appt},
		ProposedSlots: []ProposedSlot{
			{SlotID: 1, StartTime: at(11, 5), EndTime: at(11, 50)},
		},
		ProposedPostalCode: "8400",
	})
	require.NoError(t, err)

	assert.False(t, resp.Results[0].HasConflict)
	assert.Empty(t, resolver.calls)
}

func TestExecute_ItineraryFetchedByCustomerID(t *testing.T) {
	// Записи не переданы явно - расписание выбирается из хранилища
	itinerary := &fakeItinerary{
		appointments: []domain.ItineraryAppointment{precedingAppointment()},
	}
	resolver := &fakeResolver{minutes: 40}
	uc := NewUseCase(itinerary, resolver, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:   1,
		CustomerID: 77,
		ProposedSlots: []ProposedSlot{
			{SlotID: 1, StartTime: at(10, 30), EndTime: at(11, 15)},
		},
		ProposedPostalCode: "8400",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, itinerary.calls)
	assert.Equal(t, int64(1), itinerary.gotTenantID)
	assert.Equal(t, int64(77), itinerary.gotCustomer)
	// Окно выборки накрывает кандидатов с запасом в обе стороны
	assert.False(t, itinerary.gotFrom.After(at(10, 30).Add(-12*time.Hour)))
	assert.False(t, itinerary.gotTo.Before(at(11, 15).Add(12*time.Hour)))

	result := resp.Results[0]
	assert.True(t, result.HasConflict)
	require.NotNil(t, result.Reason)
	assert.Equal(t, ReasonDirectConflict, *result.Reason)
}

func TestExecute_ExplicitAppointmentsSkipItineraryFetch(t *testing.T) {
	itinerary := &fakeItinerary{}
	uc := NewUseCase(itinerary, &fakeResolver{minutes: 40}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:             1,
		CustomerID:           77,
		ExistingAppointments: []domain.ItineraryAppointment{precedingAppointment()},
		ProposedSlots: []ProposedSlot{
			{SlotID: 1, StartTime: at(12, 0), EndTime: at(12, 45)},
		},
		ProposedPostalCode: "8001",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, itinerary.calls)
}

func TestExecute_ItineraryFetchFailureReturnsError(t *testing.T) {
	// В отличие от времени в пути, недоступное расписание клиента
	// не деградирует: без него проверка бессмысленна
	itinerary := &fakeItinerary{err: errors.New("db down")}
	uc := NewUseCase(itinerary, &fakeResolver{minutes: 40}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:   1,
		CustomerID: 77,
		ProposedSlots: []ProposedSlot{
			{SlotID: 1, StartTime: at(10, 30), EndTime: at(11, 15)},
		},
		ProposedPostalCode: "8400",
	})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeItinerary{}, &fakeResolver{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ProposedPostalCode: "8400"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		ProposedSlots: []ProposedSlot{
			{SlotID: 1, StartTime: at(12, 0), EndTime: at(11, 0)},
		},
		ProposedPostalCode: "8400",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// customerId без tenantId
	_, err = uc.Execute(context.Background(), &Request{
		CustomerID: 77,
		ProposedSlots: []ProposedSlot{
			{SlotID: 1, StartTime: at(11, 0), EndTime: at(12, 0)},
		},
		ProposedPostalCode: "8400",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
