// Package agenda answers availability questions and books appointments on
// the workshop's Google Calendar.
package agenda

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"autoagenda/internal/schedule"
)

// Appointments may only start inside the fixed working day.
const (
	workdayStartHour = 9
	workdayEndHour   = 18
)

// defaultLocation is stamped on every event the workshop books.
const defaultLocation = "Oficina"

// ErrorKind classifies a failed calendar call once, so callers never
// inspect the remote error shape themselves.
type ErrorKind int

const (
	// KindGeneric is any transport or API failure without special handling.
	KindGeneric ErrorKind = iota
	// KindInviteForbidden means the current credentials may not invite
	// attendees or send notifications.
	KindInviteForbidden
)

// APIError wraps a calendar API failure with its decoded kind.
type APIError struct {
	Kind ErrorKind
	Err  error
}

func (e *APIError) Error() string { return e.Err.Error() }
func (e *APIError) Unwrap() error { return e.Err }

// IsInviteForbidden reports whether err is the attendee-permission failure.
func IsInviteForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindInviteForbidden
}

// decodeError classifies a calendar API failure. A 403 whose structured
// reason is forbiddenForServiceAccounts means the service account may not
// add invitees; everything else stays generic.
func decodeError(err error) *APIError {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusForbidden {
		for _, item := range gerr.Errors {
			if item.Reason == "forbiddenForServiceAccounts" {
				return &APIError{Kind: KindInviteForbidden, Err: err}
			}
		}
	}
	return &APIError{Kind: KindGeneric, Err: err}
}

// CalendarAPI is the slice of the Calendar service the agenda depends on.
type CalendarAPI interface {
	// Busy returns the busy intervals reported for [from, to).
	Busy(ctx context.Context, from, to time.Time) ([]schedule.Interval, error)
	// Insert creates the event, requesting invitee notifications when
	// notify is set.
	Insert(ctx context.Context, event *calendar.Event, notify bool) (*calendar.Event, error)
}

type calendarAPI struct {
	svc        *calendar.Service
	calendarID string
	tzName     string
}

var _ CalendarAPI = (*calendarAPI)(nil)

func (c *calendarAPI) Busy(ctx context.Context, from, to time.Time) ([]schedule.Interval, error) {
	req := &calendar.FreeBusyRequest{
		TimeMin:  from.Format(time.RFC3339),
		TimeMax:  to.Format(time.RFC3339),
		TimeZone: c.tzName,
		Items:    []*calendar.FreeBusyRequestItem{{Id: c.calendarID}},
	}
	resp, err := c.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	cal, ok := resp.Calendars[c.calendarID]
	if !ok {
		return nil, nil
	}
	intervals := make([]schedule.Interval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("parse busy start %q: %w", period.Start, err)
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("parse busy end %q: %w", period.End, err)
		}
		intervals = append(intervals, schedule.Interval{Start: start, End: end})
	}
	return intervals, nil
}

func (c *calendarAPI) Insert(ctx context.Context, event *calendar.Event, notify bool) (*calendar.Event, error) {
	call := c.svc.Events.Insert(c.calendarID, event).Context(ctx)
	if notify {
		call = call.SendUpdates("all")
	}
	return call.Do()
}

// Agenda exposes availability and booking on a single calendar, in a
// single fixed timezone.
type Agenda struct {
	api CalendarAPI
	loc *time.Location
}

// New builds an Agenda over the real calendar.
func New(svc *calendar.Service, calendarID string, loc *time.Location) *Agenda {
	return NewWithAPI(&calendarAPI{svc: svc, calendarID: calendarID, tzName: loc.String()}, loc)
}

// NewWithAPI builds an Agenda over any calendar source; tests inject fakes.
func NewWithAPI(api CalendarAPI, loc *time.Location) *Agenda {
	return &Agenda{api: api, loc: loc}
}

// Availability returns the free slot start times ("HH:MM") on the given
// day (YYYY-MM-DD) for slots of the given duration, inside the 09:00-18:00
// working window. An upstream failure is reported as an error, never as a
// guessed empty or full day.
func (a *Agenda) Availability(ctx context.Context, date string, duration time.Duration) ([]string, error) {
	day, err := time.ParseInLocation("2006-01-02", date, a.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", duration)
	}

	window := schedule.Window{
		Start: time.Date(day.Year(), day.Month(), day.Day(), workdayStartHour, 0, 0, 0, a.loc),
		End:   time.Date(day.Year(), day.Month(), day.Day(), workdayEndHour, 0, 0, 0, a.loc),
	}

	busy, err := a.api.Busy(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("query busy intervals: %w", err)
	}

	var starts []string
	for _, t := range window.FreeSlots(duration, schedule.Normalize(busy)) {
		starts = append(starts, t.In(a.loc).Format("15:04"))
	}
	return starts, nil
}

// EventSpec describes one booking to create.
type EventSpec struct {
	Title        string
	Date         string // YYYY-MM-DD
	StartTime    string // HH:MM
	Duration     time.Duration
	Description  string
	InviteeEmail string
}

// CreatedEvent identifies the event the calendar issued.
type CreatedEvent struct {
	ID    string
	Link  string
	Title string
}

// CreateEvent books the described appointment. When an invitee email is
// present the attendee is added and notifications are requested; a
// permission failure for that case decodes to the invite-forbidden kind
// (see IsInviteForbidden).
func (a *Agenda) CreateEvent(ctx context.Context, spec EventSpec) (CreatedEvent, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", spec.Date+" "+spec.StartTime, a.loc)
	if err != nil {
		return CreatedEvent{}, fmt.Errorf("invalid start %q %q, want YYYY-MM-DD and HH:MM: %w", spec.Date, spec.StartTime, err)
	}
	if spec.Duration <= 0 {
		return CreatedEvent{}, fmt.Errorf("duration must be positive, got %s", spec.Duration)
	}
	end := start.Add(spec.Duration)

	event := &calendar.Event{
		Summary:     spec.Title,
		Location:    defaultLocation,
		Description: spec.Description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: a.loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: a.loc.String(),
		},
		Reminders: &calendar.EventReminders{UseDefault: true},
	}

	notify := false
	if spec.InviteeEmail != "" {
		event.Attendees = []*calendar.EventAttendee{{Email: spec.InviteeEmail}}
		notify = true
	}

	created, err := a.api.Insert(ctx, event, notify)
	if err != nil {
		return CreatedEvent{}, decodeError(err)
	}
	return CreatedEvent{ID: created.Id, Link: created.HtmlLink, Title: created.Summary}, nil
}
