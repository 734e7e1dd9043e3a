package generate_availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/types"
)

// Понедельник
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func mustTimeString(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func testBlock(t *testing.T, id, locationID int64, day time.Weekday, start, end string) *domain.WorkingHourBlock {
	t.Helper()
	return &domain.WorkingHourBlock{
		ID:         id,
		StaffID:    10,
		LocationID: locationID,
		DayOfWeek:  day,
		StartTime:  mustTimeString(t, start),
		EndTime:    mustTimeString(t, end),
		Active:     true,
	}
}

func noWarn(t *testing.T) func(int64, int64) {
	return func(blockID, locationID int64) {
		t.Errorf("unexpected skipped location: block=%d location=%d", blockID, locationID)
	}
}

func TestBuildCandidates_SlicesBlockByCategoryDuration(t *testing.T) {
	staff := &domain.StaffMember{ID: 10}
	blocks := []*domain.WorkingHourBlock{
		testBlock(t, 1, 100, time.Monday, "08:00", "10:00"),
	}
	categories := []*domain.LessonCategory{
		{TenantID: 1, Code: "B", DurationMinutes: 45},
	}

	candidates, err := buildCandidates(1, staff, blocks, map[int64]bool{100: true},
		categories, nil, monday, 1, monday, noWarn(t))
	require.NoError(t, err)

	// 08:00-08:45 и 08:45-09:30; следующее окно 09:30-10:15 выходит за блок
	require.Len(t, candidates, 2)
	assert.Equal(t, monday.Add(8*time.Hour), candidates[0].StartTime)
	assert.Equal(t, monday.Add(8*time.Hour+45*time.Minute), candidates[0].EndTime)
	assert.Equal(t, monday.Add(8*time.Hour+45*time.Minute), candidates[1].StartTime)
	assert.Equal(t, "B", candidates[0].CategoryCode)
	assert.Equal(t, 45, candidates[0].DurationMinutes)
	assert.Equal(t, int64(100), candidates[0].LocationID)
	assert.True(t, candidates[0].IsAvailable)
}

func TestBuildCandidates_MultipleCategories(t *testing.T) {
	staff := &domain.StaffMember{ID: 10}
	blocks := []*domain.WorkingHourBlock{
		testBlock(t, 1, 100, time.Monday, "08:00", "11:00"),
	}
	categories := []*domain.LessonCategory{
		{TenantID: 1, Code: "B", DurationMinutes: 45},
		{TenantID: 1, Code: "A", DurationMinutes: 90},
	}

	candidates, err := buildCandidates(1, staff, blocks, map[int64]bool{100: true},
		categories, nil, monday, 1, monday, noWarn(t))
	require.NoError(t, err)

	// 45 мин: 4 окна (08:00, 08:45, 09:30, 10:15); 90 мин: 2 окна (08:00, 09:30)
	byCategory := map[string]int{}
	for _, c := range candidates {
		byCategory[c.CategoryCode]++
	}
	assert.Equal(t, 4, byCategory["B"])
	assert.Equal(t, 2, byCategory["A"])
}

func TestBuildCandidates_OverlappingBlocksProduceUniqueWindows(t *testing.T) {
	staff := &domain.StaffMember{ID: 10}
	blocks := []*domain.WorkingHourBlock{
		testBlock(t, 1, 100, time.Monday, "08:00", "12:00"),
		testBlock(t, 2, 100, time.Monday, "10:00", "14:00"),
	}
	categories := []*domain.LessonCategory{
		{TenantID: 1, Code: "B", DurationMinutes: 60},
	}

	candidates, err := buildCandidates(1, staff, blocks, map[int64]bool{100: true},
		categories, nil, monday, 1, monday, noWarn(t))
	require.NoError(t, err)

	// Окна 10:00-11:00 и 11:00-12:00 лежат в обоих блоках, но в батче
	// каждое окно должно оказаться ровно один раз: 08:00..14:00 почасово
	require.Len(t, candidates, 6)

	starts := map[time.Time]int{}
	for _, c := range candidates {
		starts[c.StartTime]++
	}
	for start, count := range starts {
		assert.Equal(t, 1, count, "window at %s emitted more than once", start)
	}
	assert.Contains(t, starts, monday.Add(10*time.Hour))
	assert.Contains(t, starts, monday.Add(13*time.Hour))
}

func TestBuildCandidates_LeadTimeFiltersEarlyWindows(t *testing.T) {
	staff := &domain.StaffMember{ID: 10, MinimumBookingLeadTimeHours: 24}
	blocks := []*domain.WorkingHourBlock{
		testBlock(t, 1, 100, time.Monday, "08:00", "10:00"),
		testBlock(t, 2, 100, time.Tuesday, "08:00", "10:00"),
	}
	categories := []*domain.LessonCategory{
		{TenantID: 1, Code: "B", DurationMinutes: 60},
	}

	minStart := monday.Add(24 * time.Hour)
	candidates, err := buildCandidates(1, staff, blocks, map[int64]bool{100: true},
		categories, nil, monday, 2, minStart, noWarn(t))
	require.NoError(t, err)

	// Окна понедельника раньше minStart, остаются только вторничные
	require.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.False(t, c.StartTime.Before(minStart))
	}
}

func TestBuildCandidates_SkipsAppointmentOverlap(t *testing.T) {
	staff := &domain.StaffMember{ID: 10}
	blocks := []*domain.WorkingHourBlock{
		testBlock(t, 1, 100, time.Monday, "08:00", "11:00"),
	}
	categories := []*domain.LessonCategory{
		{TenantID: 1, Code: "B", DurationMinutes: 60},
	}
	appointments := []*domain.Appointment{
		{
			ID:        500,
			StartTime: monday.Add(9 * time.Hour),
			EndTime:   monday.Add(10 * time.Hour),
			Status:    domain.StatusScheduled,
		},
	}

	candidates, err := buildCandidates(1, staff, blocks, map[int64]bool{100: true},
		categories, appointments, monday, 1, monday, noWarn(t))
	require.NoError(t, err)

	// 09:00-10:00 занято записью, остаются 08:00 и 10:00
	require.Len(t, candidates, 2)
	assert.Equal(t, monday.Add(8*time.Hour), candidates[0].StartTime)
	assert.Equal(t, monday.Add(10*time.Hour), candidates[1].StartTime)
}

func TestBuildCandidates_CancelledAppointmentDoesNotBlock(t *testing.T) {
	staff := &domain.StaffMember{ID: 10}
	blocks := []*domain.WorkingHourBlock{
		testBlock(t, 1, 100, time.Monday, "09:00", "10:00"),
	}
	categories := []*domain.LessonCategory{
		{TenantID: 1, Code: "B", DurationMinutes: 60},
	}
	appointments := []*domain.Appointment{
		{
			ID:        500,
			StartTime: monday.Add(9 * time.Hour),
			EndTime:   monday.Add(10 * time.Hour),
			Status:    domain.StatusCancelledByCustomer,
		},
	}

	candidates, err := buildCandidates(1, staff, blocks, map[int64]bool{100: true},
		categories, appointments, monday, 1, monday, noWarn(t))
	require.NoError(t, err)

	// Отмененная запись не занимает время инструктора
	assert.Len(t, candidates, 1)
}

func TestBuildCandidates_SkipsUnassignedLocation(t *testing.T) {
	staff := &domain.StaffMember{ID: 10}
	blocks := []*domain.WorkingHourBlock{
		testBlock(t, 1, 100, time.Monday, "08:00", "10:00"),
		testBlock(t, 2, 999, time.Monday, "10:00", "12:00"),
	}
	categories := []*domain.LessonCategory{
		{TenantID: 1, Code: "B", DurationMinutes: 60},
	}

	var skippedBlock, skippedLocation int64
	candidates, err := buildCandidates(1, staff, blocks, map[int64]bool{100: true},
		categories, nil, monday, 1, monday,
		func(blockID, locationID int64) {
			skippedBlock = blockID
			skippedLocation = locationID
		})
	require.NoError(t, err)

	assert.Len(t, candidates, 2)
	assert.Equal(t, int64(2), skippedBlock)
	assert.Equal(t, int64(999), skippedLocation)
	for _, c := range candidates {
		assert.Equal(t, int64(100), c.LocationID)
	}
}
