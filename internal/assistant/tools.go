package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"

	"autoagenda/internal/agenda"
	"autoagenda/internal/ledger"
)

// DefaultSlotMinutes is assumed when the model asks for availability
// without a duration.
const DefaultSlotMinutes = 60

// Tool names as declared to the model.
const (
	toolLookupHistory     = "lookup_service_history"
	toolRecordMaintenance = "record_maintenance"
	toolCheckAvailability = "check_availability"
	toolBookEvent         = "book_calendar_event"
)

// Toolbox binds the four agent tools to the ledger and the agenda.
type Toolbox struct {
	ledger *ledger.Ledger
	agenda *agenda.Agenda
}

// NewToolbox wires the tools to their backing services.
func NewToolbox(l *ledger.Ledger, a *agenda.Agenda) *Toolbox {
	return &Toolbox{ledger: l, agenda: a}
}

// Dispatch runs the named tool against the model-supplied arguments and
// returns the tagged result. An unknown name is an error result, not a
// fault.
func (t *Toolbox) Dispatch(ctx context.Context, name string, args map[string]any) Result {
	switch name {
	case toolLookupHistory:
		return t.lookupHistory(ctx, args)
	case toolRecordMaintenance:
		return t.recordMaintenance(ctx, args)
	case toolCheckAvailability:
		return t.checkAvailability(ctx, args)
	case toolBookEvent:
		return t.bookEvent(ctx, args)
	default:
		return Failure(fmt.Sprintf("unknown tool %q", name))
	}
}

func (t *Toolbox) lookupHistory(ctx context.Context, args map[string]any) Result {
	plate := stringArg(args, "plate")
	if plate == "" {
		return Failure("plate is required")
	}

	entries, err := t.ledger.History(ctx, plate)
	if err != nil {
		return Failure(fmt.Sprintf("could not read the maintenance ledger: %v", err))
	}
	if len(entries) == 0 {
		return Success(
			fmt.Sprintf("No maintenance history found for plate %s.", plate),
			map[string]any{"history": []map[string]any{}},
		)
	}

	rows := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]any{
			"date":    e.Date,
			"mileage": e.Mileage,
			"service": e.Service,
			"notes":   e.Notes,
		})
	}
	return Success(
		fmt.Sprintf("Maintenance history found for plate %s.", plate),
		map[string]any{"history": rows},
	)
}

func (t *Toolbox) recordMaintenance(ctx context.Context, args map[string]any) Result {
	required := []string{
		"customer_name", "contact", "plate", "model",
		"year", "mileage", "date", "time", "service",
	}
	var missing []string
	for _, field := range required {
		if stringArg(args, field) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return Failure("missing required fields: " + strings.Join(missing, ", "))
	}

	rec := ledger.MaintenanceRecord{
		VehiclePlate:  stringArg(args, "plate"),
		CustomerName:  stringArg(args, "customer_name"),
		Contact:       stringArg(args, "contact"),
		VehicleModel:  stringArg(args, "model"),
		VehicleYear:   stringArg(args, "year"),
		Mileage:       stringArg(args, "mileage"),
		ScheduledDate: stringArg(args, "date"),
		ScheduledTime: stringArg(args, "time"),
		Service:       stringArg(args, "service"),
		Notes:         stringArg(args, "notes"),
	}
	if err := t.ledger.Append(ctx, rec); err != nil {
		return Failure(fmt.Sprintf("could not record the booking in the ledger: %v", err))
	}
	return Success(
		fmt.Sprintf("Booking for %s (plate %s) recorded in the ledger.", rec.CustomerName, rec.VehiclePlate),
		nil,
	)
}

func (t *Toolbox) checkAvailability(ctx context.Context, args map[string]any) Result {
	date := stringArg(args, "date")
	if date == "" {
		return Failure("date is required (YYYY-MM-DD)")
	}
	minutes := intArg(args, "duration_minutes", DefaultSlotMinutes)

	slots, err := t.agenda.Availability(ctx, date, time.Duration(minutes)*time.Minute)
	if err != nil {
		return Failure(fmt.Sprintf("could not check calendar availability: %v", err))
	}
	if len(slots) == 0 {
		return Success(
			fmt.Sprintf("No available times on %s for %d minutes between 09:00 and 18:00.", date, minutes),
			map[string]any{"available_slots": []string{}},
		)
	}
	return Success(
		fmt.Sprintf("Available times on %s (%d minutes each).", date, minutes),
		map[string]any{"available_slots": slots},
	)
}

func (t *Toolbox) bookEvent(ctx context.Context, args map[string]any) Result {
	title := stringArg(args, "title")
	date := stringArg(args, "date")
	startTime := stringArg(args, "start_time")
	minutes := intArg(args, "duration_minutes", 0)
	switch {
	case title == "":
		return Failure("title is required")
	case date == "":
		return Failure("date is required (YYYY-MM-DD)")
	case startTime == "":
		return Failure("start_time is required (HH:MM)")
	case minutes <= 0:
		return Failure("duration_minutes is required and must be positive")
	}

	spec := agenda.EventSpec{
		Title:        title,
		Date:         date,
		StartTime:    startTime,
		Duration:     time.Duration(minutes) * time.Minute,
		Description:  stringArg(args, "description"),
		InviteeEmail: stringArg(args, "invitee_email"),
	}

	created, err := t.agenda.CreateEvent(ctx, spec)
	if err != nil {
		if agenda.IsInviteForbidden(err) {
			return Failure(fmt.Sprintf(
				"The calendar refused to invite %s under the current credentials. "+
					"The ledger record from the previous step was already saved and remains valid; "+
					"try booking the event again without an invitee email.",
				spec.InviteeEmail,
			))
		}
		return Failure(fmt.Sprintf("could not create the calendar event: %v", err))
	}
	return Success(
		fmt.Sprintf("Event %q created for %s at %s.", created.Title, date, startTime),
		map[string]any{"event_id": created.ID, "event_link": created.Link},
	)
}

// Declarations returns the function declarations advertised to the model.
func Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        toolLookupHistory,
			Description: "Look up a vehicle's maintenance history in the workshop ledger by license plate. Returns the most recent entries.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"plate": {Type: genai.TypeString, Description: "Vehicle license plate, e.g. ABC1234."},
				},
				Required: []string{"plate"},
			},
		},
		{
			Name:        toolRecordMaintenance,
			Description: "Record a confirmed maintenance booking as a new row in the workshop ledger.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"customer_name": {Type: genai.TypeString, Description: "Customer's full name."},
					"contact":       {Type: genai.TypeString, Description: "Customer contact information (phone or email)."},
					"plate":         {Type: genai.TypeString, Description: "Vehicle license plate."},
					"model":         {Type: genai.TypeString, Description: "Vehicle model."},
					"year":          {Type: genai.TypeString, Description: "Vehicle year."},
					"mileage":       {Type: genai.TypeString, Description: "Current vehicle mileage."},
					"date":          {Type: genai.TypeString, Description: "Scheduled date, YYYY-MM-DD."},
					"time":          {Type: genai.TypeString, Description: "Scheduled time, HH:MM."},
					"service":       {Type: genai.TypeString, Description: "Description of the scheduled service."},
					"notes":         {Type: genai.TypeString, Description: "Optional additional notes."},
				},
				Required: []string{"customer_name", "contact", "plate", "model", "year", "mileage", "date", "time", "service"},
			},
		},
		{
			Name:        toolCheckAvailability,
			Description: "List available appointment start times on a given date within the 09:00-18:00 working day.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date":             {Type: genai.TypeString, Description: "Date to check, YYYY-MM-DD."},
					"duration_minutes": {Type: genai.TypeInteger, Description: "Appointment length in minutes. Defaults to 60."},
				},
				Required: []string{"date"},
			},
		},
		{
			Name:        toolBookEvent,
			Description: "Create the appointment on the workshop calendar. Call it after record_maintenance has succeeded.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":            {Type: genai.TypeString, Description: "Event title."},
					"date":             {Type: genai.TypeString, Description: "Event date, YYYY-MM-DD."},
					"start_time":       {Type: genai.TypeString, Description: "Start time, HH:MM."},
					"duration_minutes": {Type: genai.TypeInteger, Description: "Event length in minutes."},
					"description":      {Type: genai.TypeString, Description: "Optional event description."},
					"invitee_email":    {Type: genai.TypeString, Description: "Optional email to invite and notify."},
				},
				Required: []string{"title", "date", "start_time", "duration_minutes"},
			},
		},
	}
}

func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	return strings.TrimSpace(s)
}

// intArg tolerates the JSON number decoding the model layer produces,
// where integers arrive as float64.
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return fallback
	}
}
