package sweep_reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSlotRepo struct {
	released  int
	purged    int
	err       error
	purgeErr  error
	gotNow    time.Time
	gotBefore time.Time
}

func (f *fakeSlotRepo) ReleaseExpired(_ context.Context, now time.Time) (int, error) {
	f.gotNow = now
	if f.err != nil {
		return 0, f.err
	}
	return f.released, nil
}

func (f *fakeSlotRepo) PurgeFinished(_ context.Context, before time.Time) (int, error) {
	f.gotBefore = before
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	return f.purged, nil
}

type fakeMetrics struct{ swept int }

func (f *fakeMetrics) AddSweptReservations(n int) { f.swept += n }

func TestExecute_ReleasesExpired(t *testing.T) {
	repo := &fakeSlotRepo{released: 3}
	metrics := &fakeMetrics{}
	uc := NewUseCase(repo, metrics, fixedTime{now: now}, nopLogger{})

	released, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, released)
	assert.Equal(t, now, repo.gotNow)
	assert.Equal(t, 3, metrics.swept)
}

func TestExecute_PurgesFinishedBeyondRetention(t *testing.T) {
	repo := &fakeSlotRepo{purged: 7}
	uc := NewUseCase(repo, &fakeMetrics{}, fixedTime{now: now}, nopLogger{})

	_, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, now.Add(-slotRetention), repo.gotBefore)
}

func TestExecute_PurgeFailureDoesNotFailRun(t *testing.T) {
	// Резервации сняты - прогон считается успешным даже без чистки
	repo := &fakeSlotRepo{released: 2, purgeErr: errors.New("db down")}
	metrics := &fakeMetrics{}
	uc := NewUseCase(repo, metrics, fixedTime{now: now}, nopLogger{})

	released, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, released)
	assert.Equal(t, 2, metrics.swept)
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &fakeSlotRepo{err: errors.New("db down")}
	metrics := &fakeMetrics{}
	uc := NewUseCase(repo, metrics, fixedTime{now: now}, nopLogger{})

	_, err := uc.Execute(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, metrics.swept)
}
