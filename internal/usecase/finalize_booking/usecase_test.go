package finalize_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	apptRepo "github.com/Kilchi555/driving-team-app-sub004/internal/infra/storage/appointment"
	"github.com/Kilchi555/driving-team-app-sub004/internal/integrations/pricing"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/ptr"
)

var now = time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSlotRepo struct {
	slot       *domain.AvailabilitySlot
	getErr     error
	linked     int
	linkErr    error
	linkCalled bool
}

func (f *fakeSlotRepo) GetByID(context.Context, int64) (*domain.AvailabilitySlot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.slot, nil
}

func (f *fakeSlotRepo) LinkAppointment(_ context.Context, _, _ int64, _, _ time.Time, _ int64) (int, error) {
	f.linkCalled = true
	if f.linkErr != nil {
		return 0, f.linkErr
	}
	return f.linked, nil
}

type fakeApptRepo struct {
	byPayment    map[string]*domain.Appointment
	nextID       int64
	createErr    error
	missFirstGet bool
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{byPayment: make(map[string]*domain.Appointment), nextID: 1000}
}

func (f *fakeApptRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byPayment[appt.PaymentID]; ok {
		return nil, apptRepo.ErrDuplicatePayment
	}
	created := *appt
	created.ID = f.nextID
	f.nextID++
	f.byPayment[appt.PaymentID] = &created
	return &created, nil
}

func (f *fakeApptRepo) GetByPaymentID(_ context.Context, paymentID string) (*domain.Appointment, error) {
	if f.missFirstGet {
		f.missFirstGet = false
		return nil, apptRepo.ErrAppointmentNotFound
	}
	appt, ok := f.byPayment[paymentID]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

type fakePricing struct {
	quote *pricing.Quote
	err   error
}

func (f *fakePricing) GetQuoteWithGracefulDegradation(context.Context, *pricing.QuoteRequest) (*pricing.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	outcomes   map[string]int
	linkAlerts int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{outcomes: make(map[string]int)}
}

func (f *fakeMetrics) IncFinalization(outcome string) { f.outcomes[outcome]++ }
func (f *fakeMetrics) IncSlotLinkAlert()              { f.linkAlerts++ }

func reservedSlot() *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:                7,
		TenantID:          1,
		StaffID:           10,
		LocationID:        100,
		CategoryCode:      "B",
		StartTime:         now.Add(24 * time.Hour),
		EndTime:           now.Add(24*time.Hour + 45*time.Minute),
		DurationMinutes:   45,
		IsAvailable:       false,
		ReservedBySession: ptr.Ptr("sess-1"),
		ReservedUntil:     ptr.Ptr(now.Add(10 * time.Minute)),
	}
}

func validRequest() *Request {
	return &Request{
		PaymentID:       "pay-1",
		SlotID:          7,
		SessionID:       "sess-1",
		TenantID:        1,
		CustomerID:      55,
		AppointmentType: "lesson",
	}
}

func newUC(slots *fakeSlotRepo, appts *fakeApptRepo, price *fakePricing, metrics *fakeMetrics) *UseCase {
	return NewUseCase(slots, appts, price, fakeTxManager{}, metrics, fixedTime{now: now}, nopLogger{})
}

func TestExecute_CreatesAppointment(t *testing.T) {
	slots := &fakeSlotRepo{slot: reservedSlot(), linked: 1}
	appts := newFakeApptRepo()
	metrics := newFakeMetrics()
	uc := newUC(slots, appts, &fakePricing{quote: &pricing.Quote{AmountRappen: 9500, Currency: "CHF"}}, metrics)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, resp.AlreadyExists)
	assert.Equal(t, int64(1000), resp.AppointmentID)
	assert.Equal(t, int64(10), resp.StaffID)
	assert.Equal(t, int64(9500), resp.PriceRappen)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	assert.True(t, slots.linkCalled)
	assert.Equal(t, 1, metrics.outcomes["created"])

	created := appts.byPayment["pay-1"]
	require.NotNil(t, created)
	assert.Equal(t, reservedSlot().StartTime, created.StartTime)
	assert.Equal(t, int64(55), created.CustomerID)
}

func TestExecute_DuplicateEventReturnsExisting(t *testing.T) {
	slots := &fakeSlotRepo{slot: reservedSlot(), linked: 1}
	appts := newFakeApptRepo()
	metrics := newFakeMetrics()
	uc := newUC(slots, appts, &fakePricing{quote: &pricing.Quote{AmountRappen: 9500}}, metrics)

	first, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.AppointmentID, second.AppointmentID)
	assert.Equal(t, 1, metrics.outcomes["created"])
	assert.Equal(t, 1, metrics.outcomes["duplicate"])
	// Вторая доставка не создала новую запись
	assert.Len(t, appts.byPayment, 1)
}

func TestExecute_ExpiredReservation(t *testing.T) {
	slot := reservedSlot()
	slot.ReservedUntil = ptr.Ptr(now.Add(-time.Minute))
	slots := &fakeSlotRepo{slot: slot}
	metrics := newFakeMetrics()
	uc := newUC(slots, newFakeApptRepo(), &fakePricing{quote: &pricing.Quote{}}, metrics)

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrReservationExpired)
	assert.False(t, slots.linkCalled)
	assert.Equal(t, 1, metrics.outcomes["expired"])
}

func TestExecute_ReservationHeldByOtherSession(t *testing.T) {
	slot := reservedSlot()
	slot.ReservedBySession = ptr.Ptr("sess-other")
	slots := &fakeSlotRepo{slot: slot}
	uc := newUC(slots, newFakeApptRepo(), &fakePricing{quote: &pricing.Quote{}}, newFakeMetrics())

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrReservationExpired)
}

func TestExecute_ConsumedSlotRejected(t *testing.T) {
	slot := reservedSlot()
	slot.AppointmentID = ptr.Ptr(int64(2000))
	slots := &fakeSlotRepo{slot: slot}
	uc := newUC(slots, newFakeApptRepo(), &fakePricing{quote: &pricing.Quote{}}, newFakeMetrics())

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrReservationExpired)
}

func TestExecute_PricingDegradationStoresZeroPrice(t *testing.T) {
	slots := &fakeSlotRepo{slot: reservedSlot(), linked: 1}
	appts := newFakeApptRepo()
	uc := newUC(slots, appts, &fakePricing{err: pricing.ErrServiceDegraded}, newFakeMetrics())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Недоступный pricing не блокирует финализацию
	assert.Equal(t, int64(0), resp.PriceRappen)
	assert.Equal(t, int64(0), appts.byPayment["pay-1"].PriceRappen)
}

func TestExecute_NoSlotsLinkedRollsBack(t *testing.T) {
	slots := &fakeSlotRepo{slot: reservedSlot(), linked: 0}
	metrics := newFakeMetrics()
	uc := newUC(slots, newFakeApptRepo(), &fakePricing{quote: &pricing.Quote{}}, metrics)

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotLinkMismatch)
	assert.Equal(t, 1, metrics.linkAlerts)
	assert.Equal(t, 1, metrics.outcomes["failed"])
}

func TestExecute_ConcurrentDuplicateInsideTransaction(t *testing.T) {
	// Конкурент вставил запись между быстрой проверкой и транзакцией:
	// Create вернет ErrDuplicatePayment, ответ берется из существующей записи
	slots := &fakeSlotRepo{slot: reservedSlot(), linked: 1}
	appts := newFakeApptRepo()
	appts.missFirstGet = true
	appts.byPayment["pay-1"] = &domain.Appointment{
		ID:        3000,
		PaymentID: "pay-1",
		Status:    domain.StatusScheduled,
	}
	metrics := newFakeMetrics()
	uc := newUC(slots, appts, &fakePricing{quote: &pricing.Quote{}}, metrics)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, resp.AlreadyExists)
	assert.Equal(t, int64(3000), resp.AppointmentID)
	assert.Equal(t, 1, metrics.outcomes["duplicate"])
}

func TestExecute_Validation(t *testing.T) {
	uc := newUC(&fakeSlotRepo{}, newFakeApptRepo(), &fakePricing{}, newFakeMetrics())

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "empty payment id", mutate: func(r *Request) { r.PaymentID = "" }},
		{name: "zero slot id", mutate: func(r *Request) { r.SlotID = 0 }},
		{name: "empty session id", mutate: func(r *Request) { r.SessionID = "" }},
		{name: "zero customer id", mutate: func(r *Request) { r.CustomerID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
