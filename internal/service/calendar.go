package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
	"github.com/daydeskapp/daydesk-server/internal/id"
	"github.com/daydeskapp/daydesk-server/internal/schedule"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

// defaultEventColor is applied to events created without one.
const defaultEventColor = "#3788d8"

// defaultSlotDuration is assumed when a slot suggestion request names
// no duration.
const defaultSlotDuration = 30 * time.Minute

// CalendarService manages owner-scoped calendar events and free-slot
// suggestions built on them.
type CalendarService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCalendarService creates a new calendar service.
func NewCalendarService(store *store.Store, logger *slog.Logger) *CalendarService {
	return &CalendarService{
		store:  store,
		logger: logger,
	}
}

// CreateEventRequest contains new event data.
type CreateEventRequest struct {
	Title             string    `json:"title" validate:"required,min=1,max=200"`
	Description       string    `json:"description" validate:"max=2000"`
	StartDate         time.Time `json:"startDate" validate:"required"`
	EndDate           time.Time `json:"endDate" validate:"required"`
	AllDay            bool      `json:"allDay"`
	Type              string    `json:"type" validate:"omitempty,oneof=meeting deadline personal focus event"`
	Color             string    `json:"color" validate:"omitempty,hexcolor"`
	Location          string    `json:"location" validate:"max=200"`
	LinkedDocumentIDs []string  `json:"linkedDocumentIds" validate:"omitempty,dive,required"`
	LinkedTaskIDs     []string  `json:"linkedTaskIds" validate:"omitempty,dive,required"`
}

// UpdateEventRequest contains partial event updates. Nil fields are
// left untouched.
type UpdateEventRequest struct {
	Title             *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description       *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	AllDay            *bool      `json:"allDay,omitempty"`
	Type              *string    `json:"type,omitempty" validate:"omitempty,oneof=meeting deadline personal focus event"`
	Color             *string    `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Location          *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	LinkedDocumentIDs []string   `json:"linkedDocumentIds,omitempty" validate:"omitempty,dive,required"`
	LinkedTaskIDs     []string   `json:"linkedTaskIds,omitempty" validate:"omitempty,dive,required"`
}

// SuggestSlotsRequest asks for free slots of the given duration inside
// a window. DurationMinutes defaults to 30.
type SuggestSlotsRequest struct {
	StartDate       time.Time `json:"startDate" validate:"required"`
	EndDate         time.Time `json:"endDate" validate:"required"`
	DurationMinutes int       `json:"duration" validate:"omitempty,min=1,max=1440"`
}

// EventRange bounds an event listing. Zero times mean unbounded.
type EventRange struct {
	Start time.Time
	End   time.Time
}

// ListEvents returns the owner's events whose start falls inside the
// range, ordered by start time.
func (s *CalendarService) ListEvents(ctx context.Context, ownerID string, rng EventRange) ([]*domain.CalendarEvent, error) {
	events := make([]*domain.CalendarEvent, 0)
	for event, err := range s.store.Events.ListScoped(ctx, "owner", ownerID) {
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		if !rng.Start.IsZero() && event.StartDate.Before(rng.Start) {
			continue
		}
		if !rng.End.IsZero() && event.StartDate.After(rng.End) {
			continue
		}
		events = append(events, event)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})
	return events, nil
}

// GetEvent returns one of the owner's events.
func (s *CalendarService) GetEvent(ctx context.Context, ownerID, eventID string) (*domain.CalendarEvent, error) {
	event, err := s.store.Events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("event not found")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, domainerrors.Forbidden("you do not have access to this event")
	}
	return event, nil
}

// CreateEvent creates an event for the owner.
func (s *CalendarService) CreateEvent(ctx context.Context, ownerID string, req CreateEventRequest) (*domain.CalendarEvent, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, domainerrors.Validation("endDate must not be before startDate")
	}

	eventType := domain.EventType(req.Type)
	if eventType == "" {
		eventType = domain.EventTypeEvent
	}
	color := req.Color
	if color == "" {
		color = defaultEventColor
	}

	eventID, err := id.Generate("event")
	if err != nil {
		return nil, fmt.Errorf("generate event ID: %w", err)
	}

	event := &domain.CalendarEvent{
		Record: domain.Record{
			ID: eventID,
		},
		Title:             req.Title,
		Description:       req.Description,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		AllDay:            req.AllDay,
		Type:              eventType,
		Color:             color,
		Location:          req.Location,
		LinkedDocumentIDs: req.LinkedDocumentIDs,
		LinkedTaskIDs:     req.LinkedTaskIDs,
		OwnerID:           ownerID,
	}
	event.InitTimestamps()

	if err := s.store.Events.Create(ctx, event.ID, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("Event created",
		"event_id", event.ID,
		"owner_id", ownerID,
		"type", event.Type,
	)
	return event, nil
}

// UpdateEvent applies partial updates to one of the owner's events.
func (s *CalendarService) UpdateEvent(ctx context.Context, ownerID, eventID string, req UpdateEventRequest) (*domain.CalendarEvent, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	event, err := s.GetEvent(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}
	if req.Type != nil {
		event.Type = domain.EventType(*req.Type)
	}
	if req.Color != nil {
		event.Color = *req.Color
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.LinkedDocumentIDs != nil {
		event.LinkedDocumentIDs = req.LinkedDocumentIDs
	}
	if req.LinkedTaskIDs != nil {
		event.LinkedTaskIDs = req.LinkedTaskIDs
	}

	if event.EndDate.Before(event.StartDate) {
		return nil, domainerrors.Validation("endDate must not be before startDate")
	}
	event.Touch()

	if err := s.store.Events.Update(ctx, eventID, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes one of the owner's events.
func (s *CalendarService) DeleteEvent(ctx context.Context, ownerID, eventID string) error {
	if _, err := s.GetEvent(ctx, ownerID, eventID); err != nil {
		return err
	}
	if err := s.store.Events.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info("Event deleted", "event_id", eventID, "owner_id", ownerID)
	return nil
}

// SuggestSlots proposes free slots inside the requested window, around
// the owner's existing events.
func (s *CalendarService) SuggestSlots(ctx context.Context, ownerID string, req SuggestSlotsRequest) ([]schedule.Slot, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, domainerrors.Validation("endDate must not be before startDate")
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = defaultSlotDuration
	}

	busy := make([]schedule.Interval, 0)
	for event, err := range s.store.Events.ListScoped(ctx, "owner", ownerID) {
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		busy = append(busy, schedule.Interval{
			Start: event.StartDate,
			End:   event.EndDate,
		})
	}

	return schedule.SuggestSlots(busy, req.StartDate, req.EndDate, duration), nil
}
