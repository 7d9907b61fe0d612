package assistant_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"autoagenda/internal/agenda"
	"autoagenda/internal/assistant"
	"autoagenda/internal/ledger"
	"autoagenda/internal/schedule"
)

type fakeRowAPI struct {
	readAll func(ctx context.Context) ([][]any, error)
	append  func(ctx context.Context, row []any) error
}

func (f *fakeRowAPI) ReadAll(ctx context.Context) ([][]any, error) { return f.readAll(ctx) }
func (f *fakeRowAPI) Append(ctx context.Context, row []any) error  { return f.append(ctx, row) }

type fakeCalendarAPI struct {
	busy   func(ctx context.Context, from, to time.Time) ([]schedule.Interval, error)
	insert func(ctx context.Context, event *calendar.Event, notify bool) (*calendar.Event, error)
}

func (f *fakeCalendarAPI) Busy(ctx context.Context, from, to time.Time) ([]schedule.Interval, error) {
	return f.busy(ctx, from, to)
}

func (f *fakeCalendarAPI) Insert(ctx context.Context, event *calendar.Event, notify bool) (*calendar.Event, error) {
	return f.insert(ctx, event, notify)
}

var (
	_ ledger.RowAPI      = (*fakeRowAPI)(nil)
	_ agenda.CalendarAPI = (*fakeCalendarAPI)(nil)
)

func toolbox(rows *fakeRowAPI, cal *fakeCalendarAPI) *assistant.Toolbox {
	if rows == nil {
		rows = &fakeRowAPI{}
	}
	if cal == nil {
		cal = &fakeCalendarAPI{}
	}
	led := ledger.NewWithAPI(rows, time.UTC, time.Now)
	return assistant.NewToolbox(led, agenda.NewWithAPI(cal, time.UTC))
}

func ledgerHeader() []any {
	out := make([]any, len(ledger.Columns))
	for i, c := range ledger.Columns {
		out[i] = c
	}
	return out
}

func TestDispatch_UnknownTool(t *testing.T) {
	res := toolbox(nil, nil).Dispatch(context.Background(), "open_garage_door", nil)

	assert.False(t, res.IsSuccess())
	assert.Contains(t, res.Message, "open_garage_door")
}

func TestLookupHistory_RequiresPlate(t *testing.T) {
	res := toolbox(nil, nil).Dispatch(context.Background(), "lookup_service_history", map[string]any{})

	assert.False(t, res.IsSuccess())
}

func TestLookupHistory_EmptyHistoryIsSuccess(t *testing.T) {
	rows := &fakeRowAPI{readAll: func(context.Context) ([][]any, error) {
		return [][]any{ledgerHeader()}, nil
	}}

	res := toolbox(rows, nil).Dispatch(context.Background(), "lookup_service_history", map[string]any{"plate": "ABC1234"})

	assert.True(t, res.IsSuccess())
	assert.Contains(t, res.Message, "No maintenance history")
	assert.Empty(t, res.Payload["history"])
}

func TestLookupHistory_ReturnsEntries(t *testing.T) {
	rows := &fakeRowAPI{readAll: func(context.Context) ([][]any, error) {
		return [][]any{
			ledgerHeader(),
			{"ABC1234", "Maria", "11 9999", "Onix", "2020", "30000", "2025-01-10", "10:00", "Oil change", "", "2025-01-02 09:00:00"},
		}, nil
	}}

	res := toolbox(rows, nil).Dispatch(context.Background(), "lookup_service_history", map[string]any{"plate": "abc1234"})

	require.True(t, res.IsSuccess())
	history, ok := res.Payload["history"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, history, 1)
	assert.Equal(t, "Oil change", history[0]["service"])
	assert.Equal(t, "30000", history[0]["mileage"])
}

func TestLookupHistory_LedgerFailure(t *testing.T) {
	rows := &fakeRowAPI{readAll: func(context.Context) ([][]any, error) {
		return nil, errors.New("sheets API unreachable")
	}}

	res := toolbox(rows, nil).Dispatch(context.Background(), "lookup_service_history", map[string]any{"plate": "ABC1234"})

	assert.False(t, res.IsSuccess())
	assert.Contains(t, res.Message, "maintenance ledger")
}

func TestRecordMaintenance_ListsAllMissingFields(t *testing.T) {
	res := toolbox(nil, nil).Dispatch(context.Background(), "record_maintenance", map[string]any{
		"customer_name": "Maria Silva",
		"plate":         "ABC1234",
	})

	assert.False(t, res.IsSuccess())
	assert.Contains(t, res.Message, "contact")
	assert.Contains(t, res.Message, "service")
	assert.NotContains(t, res.Message, "customer_name")
}

func TestRecordMaintenance_AppendsRow(t *testing.T) {
	var appended []any
	rows := &fakeRowAPI{append: func(_ context.Context, row []any) error {
		appended = row
		return nil
	}}

	res := toolbox(rows, nil).Dispatch(context.Background(), "record_maintenance", map[string]any{
		"customer_name": "Maria Silva",
		"contact":       "11 99999-0000",
		"plate":         "ABC1234",
		"model":         "Onix",
		"year":          "2020",
		"mileage":       "35000",
		"date":          "2025-07-20",
		"time":          "10:00",
		"service":       "Oil change",
	})

	require.True(t, res.IsSuccess())
	assert.Contains(t, res.Message, "Maria Silva")
	assert.Contains(t, res.Message, "ABC1234")
	require.Len(t, appended, len(ledger.Columns))
	assert.Equal(t, "", appended[9], "notes default to empty")
}

func TestCheckAvailability_DefaultsToSixtyMinutes(t *testing.T) {
	var gotFrom, gotTo time.Time
	cal := &fakeCalendarAPI{busy: func(_ context.Context, from, to time.Time) ([]schedule.Interval, error) {
		gotFrom, gotTo = from, to
		return nil, nil
	}}

	res := toolbox(nil, cal).Dispatch(context.Background(), "check_availability", map[string]any{"date": "2025-07-14"})

	require.True(t, res.IsSuccess())
	assert.Equal(t, 9, gotFrom.Hour())
	assert.Equal(t, 18, gotTo.Hour())
	slots, ok := res.Payload["available_slots"].([]string)
	require.True(t, ok)
	assert.Len(t, slots, 9)
	assert.Equal(t, "09:00", slots[0])
}

func TestCheckAvailability_HonorsDurationFromModel(t *testing.T) {
	cal := &fakeCalendarAPI{busy: func(context.Context, time.Time, time.Time) ([]schedule.Interval, error) {
		return nil, nil
	}}

	// The model layer hands numbers over as float64.
	res := toolbox(nil, cal).Dispatch(context.Background(), "check_availability", map[string]any{
		"date":             "2025-07-14",
		"duration_minutes": float64(90),
	})

	require.True(t, res.IsSuccess())
	slots := res.Payload["available_slots"].([]string)
	assert.Equal(t, []string{"09:00", "10:30", "12:00", "13:30", "15:00", "16:30"}, slots)
}

func TestCheckAvailability_NoSlotsIsSuccess(t *testing.T) {
	cal := &fakeCalendarAPI{busy: func(_ context.Context, from, to time.Time) ([]schedule.Interval, error) {
		return []schedule.Interval{{Start: from, End: to}}, nil
	}}

	res := toolbox(nil, cal).Dispatch(context.Background(), "check_availability", map[string]any{"date": "2025-07-14"})

	require.True(t, res.IsSuccess())
	assert.Contains(t, res.Message, "No available times")
	assert.Empty(t, res.Payload["available_slots"])
}

func TestCheckAvailability_UpstreamFailure(t *testing.T) {
	cal := &fakeCalendarAPI{busy: func(context.Context, time.Time, time.Time) ([]schedule.Interval, error) {
		return nil, errors.New("freebusy unavailable")
	}}

	res := toolbox(nil, cal).Dispatch(context.Background(), "check_availability", map[string]any{"date": "2025-07-14"})

	assert.False(t, res.IsSuccess())
	assert.Contains(t, res.Message, "availability")
}

func TestBookEvent_Success(t *testing.T) {
	cal := &fakeCalendarAPI{insert: func(_ context.Context, event *calendar.Event, _ bool) (*calendar.Event, error) {
		return &calendar.Event{Id: "evt-1", HtmlLink: "https://calendar.example/evt-1", Summary: event.Summary}, nil
	}}

	res := toolbox(nil, cal).Dispatch(context.Background(), "book_calendar_event", map[string]any{
		"title":            "Oil change - ABC1234",
		"date":             "2025-07-20",
		"start_time":       "10:00",
		"duration_minutes": float64(60),
	})

	require.True(t, res.IsSuccess())
	assert.Equal(t, "evt-1", res.Payload["event_id"])
	assert.Equal(t, "https://calendar.example/evt-1", res.Payload["event_link"])
}

func TestBookEvent_InviteForbiddenKeepsLedgerValid(t *testing.T) {
	remote := &googleapi.Error{
		Code:   http.StatusForbidden,
		Errors: []googleapi.ErrorItem{{Reason: "forbiddenForServiceAccounts"}},
	}
	cal := &fakeCalendarAPI{insert: func(context.Context, *calendar.Event, bool) (*calendar.Event, error) {
		return nil, remote
	}}

	res := toolbox(nil, cal).Dispatch(context.Background(), "book_calendar_event", map[string]any{
		"title":            "Oil change - ABC1234",
		"date":             "2025-07-20",
		"start_time":       "10:00",
		"duration_minutes": float64(60),
		"invitee_email":    "maria@example.com",
	})

	assert.False(t, res.IsSuccess())
	// The partial-failure contract: the earlier ledger write stands.
	assert.Contains(t, res.Message, "already saved")
	assert.Contains(t, res.Message, "maria@example.com")
}

func TestBookEvent_GenericFailure(t *testing.T) {
	cal := &fakeCalendarAPI{insert: func(context.Context, *calendar.Event, bool) (*calendar.Event, error) {
		return nil, errors.New("backend unavailable")
	}}

	res := toolbox(nil, cal).Dispatch(context.Background(), "book_calendar_event", map[string]any{
		"title":            "Oil change",
		"date":             "2025-07-20",
		"start_time":       "10:00",
		"duration_minutes": float64(60),
	})

	assert.False(t, res.IsSuccess())
	assert.NotContains(t, res.Message, "already saved")
}

func TestBookEvent_RequiresDuration(t *testing.T) {
	res := toolbox(nil, nil).Dispatch(context.Background(), "book_calendar_event", map[string]any{
		"title":      "Oil change",
		"date":       "2025-07-20",
		"start_time": "10:00",
	})

	assert.False(t, res.IsSuccess())
	assert.Contains(t, res.Message, "duration_minutes")
}

func TestResult_ResponseShape(t *testing.T) {
	ok := assistant.Success("done", map[string]any{"event_id": "evt-1"})
	resp := ok.Response()
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "done", resp["message"])
	assert.Equal(t, "evt-1", resp["event_id"])

	bad := assistant.Failure("nope")
	resp = bad.Response()
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "nope", resp["error_message"])
	_, hasMessage := resp["message"]
	assert.False(t, hasMessage)
}

func TestDeclarations_CoverAllTools(t *testing.T) {
	decls := assistant.Declarations()

	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name)
		require.NotNil(t, d.Parameters, "%s must declare parameters", d.Name)
		assert.NotEmpty(t, d.Description)
	}
	assert.ElementsMatch(t, names, []string{
		"lookup_service_history",
		"record_maintenance",
		"check_availability",
		"book_calendar_event",
	})
}
