package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
)

func setupCalendarTest(t *testing.T) *CalendarService {
	t.Helper()
	return NewCalendarService(newTestStore(t), testLogger())
}

func eventAt(hour, durationHours int) (time.Time, time.Time) {
	start := time.Date(2026, 3, 2, hour, 0, 0, 0, time.UTC)
	return start, start.Add(time.Duration(durationHours) * time.Hour)
}

func mustCreateEvent(t *testing.T, svc *CalendarService, ownerID, title string, start, end time.Time) *domain.CalendarEvent {
	t.Helper()

	event, err := svc.CreateEvent(context.Background(), ownerID, CreateEventRequest{
		Title:     title,
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)
	return event
}

func TestCalendarService_Create_Defaults(t *testing.T) {
	svc := setupCalendarTest(t)

	start, end := eventAt(9, 1)
	event := mustCreateEvent(t, svc, "user-1", "Standup", start, end)

	assert.Equal(t, domain.EventTypeEvent, event.Type)
	assert.Equal(t, "#3788d8", event.Color)
}

func TestCalendarService_Create_RejectsInvertedRange(t *testing.T) {
	svc := setupCalendarTest(t)

	start, end := eventAt(9, 1)
	_, err := svc.CreateEvent(context.Background(), "user-1", CreateEventRequest{
		Title:     "backwards",
		StartDate: end,
		EndDate:   start,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestCalendarService_List_RangeFiltersOnStart(t *testing.T) {
	svc := setupCalendarTest(t)
	ctx := context.Background()

	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC)
	}
	mustCreateEvent(t, svc, "user-1", "before", day(1), day(1).Add(time.Hour))
	mustCreateEvent(t, svc, "user-1", "inside", day(5), day(5).Add(time.Hour))
	// Starts inside the range but ends after it; still listed because
	// only the start is checked.
	mustCreateEvent(t, svc, "user-1", "straddles", day(9), day(12))
	mustCreateEvent(t, svc, "user-1", "after", day(20), day(20).Add(time.Hour))

	events, err := svc.ListEvents(ctx, "user-1", EventRange{Start: day(3), End: day(10)})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "inside", events[0].Title)
	assert.Equal(t, "straddles", events[1].Title)
}

func TestCalendarService_List_SortedByStart(t *testing.T) {
	svc := setupCalendarTest(t)
	ctx := context.Background()

	s2, e2 := eventAt(14, 1)
	mustCreateEvent(t, svc, "user-1", "afternoon", s2, e2)
	s1, e1 := eventAt(9, 1)
	mustCreateEvent(t, svc, "user-1", "morning", s1, e1)

	events, err := svc.ListEvents(ctx, "user-1", EventRange{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "morning", events[0].Title)
	assert.Equal(t, "afternoon", events[1].Title)
}

func TestCalendarService_Update_Partial(t *testing.T) {
	svc := setupCalendarTest(t)
	start, end := eventAt(9, 1)
	event := mustCreateEvent(t, svc, "user-1", "Standup", start, end)

	location := "Room 4"
	updated, err := svc.UpdateEvent(context.Background(), "user-1", event.ID, UpdateEventRequest{
		Location: &location,
	})
	require.NoError(t, err)
	assert.Equal(t, "Room 4", updated.Location)
	assert.Equal(t, "Standup", updated.Title)
	assert.True(t, updated.StartDate.Equal(start))
}

func TestCalendarService_Update_RejectsInvertedRange(t *testing.T) {
	svc := setupCalendarTest(t)
	start, end := eventAt(9, 1)
	event := mustCreateEvent(t, svc, "user-1", "Standup", start, end)

	newEnd := start.Add(-time.Hour)
	_, err := svc.UpdateEvent(context.Background(), "user-1", event.ID, UpdateEventRequest{
		EndDate: &newEnd,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestCalendarService_Delete_OwnerIsolation(t *testing.T) {
	svc := setupCalendarTest(t)
	start, end := eventAt(9, 1)
	event := mustCreateEvent(t, svc, "user-1", "private", start, end)

	err := svc.DeleteEvent(context.Background(), "user-2", event.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, svc.DeleteEvent(context.Background(), "user-1", event.ID))
	_, err = svc.GetEvent(context.Background(), "user-1", event.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCalendarService_SuggestSlots(t *testing.T) {
	svc := setupCalendarTest(t)
	ctx := context.Background()

	// Busy 10:00-11:00 inside a 09:00-13:00 window.
	busyStart, busyEnd := eventAt(10, 1)
	mustCreateEvent(t, svc, "user-1", "meeting", busyStart, busyEnd)

	windowStart := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)

	slots, err := svc.SuggestSlots(ctx, "user-1", SuggestSlotsRequest{
		StartDate:       windowStart,
		EndDate:         windowEnd,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.True(t, slots[0].Start.Equal(windowStart))
	assert.True(t, slots[0].End.Equal(windowStart.Add(time.Hour)))
	assert.Equal(t, 60.0, slots[0].AvailableDuration)

	assert.True(t, slots[1].Start.Equal(busyEnd))
	assert.Equal(t, 120.0, slots[1].AvailableDuration)
}

func TestCalendarService_SuggestSlots_DefaultDuration(t *testing.T) {
	svc := setupCalendarTest(t)

	windowStart := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	windowEnd := windowStart.Add(time.Hour)

	slots, err := svc.SuggestSlots(context.Background(), "user-1", SuggestSlotsRequest{
		StartDate: windowStart,
		EndDate:   windowEnd,
	})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	// The default duration is thirty minutes.
	assert.True(t, slots[0].End.Equal(windowStart.Add(30*time.Minute)))
}

func TestCalendarService_SuggestSlots_IgnoresOtherOwners(t *testing.T) {
	svc := setupCalendarTest(t)

	busyStart, busyEnd := eventAt(9, 4)
	mustCreateEvent(t, svc, "user-2", "someone else's day", busyStart, busyEnd)

	slots, err := svc.SuggestSlots(context.Background(), "user-1", SuggestSlotsRequest{
		StartDate:       busyStart,
		EndDate:         busyEnd,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 240.0, slots[0].AvailableDuration)
}
