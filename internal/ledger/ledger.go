// Package ledger reads and appends maintenance bookings in the Google
// Sheet that serves as the workshop's customer ledger. The ledger is
// append-only; rows are identified by position and never updated.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/sheets/v4"
)

// Sheet column headers, in the exact positional order Append writes them.
// This order is a contract with the external spreadsheet; the headers keep
// the names the sheet has carried since the workshop set it up.
const (
	colPlate     = "placa_veiculo"
	colCustomer  = "nome_cliente"
	colContact   = "contato"
	colModel     = "modelo_veiculo"
	colYear      = "ano_veiculo"
	colMileage   = "km_atual"
	colDate      = "data_agendamento"
	colTime      = "hora_agendamento"
	colService   = "servico_agendado"
	colNotes     = "observacoes"
	colCreatedAt = "registrado_em"
)

// Columns is the fixed append order of the ledger sheet.
var Columns = []string{
	colPlate,
	colCustomer,
	colContact,
	colModel,
	colYear,
	colMileage,
	colDate,
	colTime,
	colService,
	colNotes,
	colCreatedAt,
}

// readRange spans every ledger column, header row included.
const readRange = "A:K"

// timestampFormat matches the created-at strings already in the sheet.
const timestampFormat = "2006-01-02 15:04:05"

// maxHistoryEntries caps what History returns to the most recent rows.
const maxHistoryEntries = 3

// ErrNoPlateColumn means the sheet is empty or its header row has no
// plate column, so rows cannot be matched to a vehicle.
var ErrNoPlateColumn = errors.New("ledger sheet is empty or has no " + colPlate + " column")

// MaintenanceRecord is one booking to append to the ledger.
type MaintenanceRecord struct {
	VehiclePlate  string
	CustomerName  string
	Contact       string
	VehicleModel  string
	VehicleYear   string
	Mileage       string
	ScheduledDate string // YYYY-MM-DD
	ScheduledTime string // HH:MM
	Service       string
	Notes         string
}

// HistoryEntry is the slice of a ledger row shown when looking up a
// vehicle's service history.
type HistoryEntry struct {
	Date    string `json:"date"`
	Mileage string `json:"mileage"`
	Service string `json:"service"`
	Notes   string `json:"notes"`
}

// RowAPI is the narrow slice of the Sheets API the ledger depends on.
// Tests substitute a fake; production uses the real spreadsheet.
type RowAPI interface {
	ReadAll(ctx context.Context) ([][]any, error)
	Append(ctx context.Context, row []any) error
}

type sheetsAPI struct {
	svc     *sheets.Service
	sheetID string
}

var _ RowAPI = (*sheetsAPI)(nil)

func (s *sheetsAPI) ReadAll(ctx context.Context) ([][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (s *sheetsAPI) Append(ctx context.Context, row []any) error {
	values := &sheets.ValueRange{Values: [][]any{row}}
	_, err := s.svc.Spreadsheets.Values.Append(s.sheetID, readRange, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// Ledger exposes history lookup and row append over one spreadsheet.
type Ledger struct {
	api RowAPI
	loc *time.Location
	now func() time.Time
}

// New builds a Ledger over the real spreadsheet.
func New(svc *sheets.Service, sheetID string, loc *time.Location) *Ledger {
	return NewWithAPI(&sheetsAPI{svc: svc, sheetID: sheetID}, loc, time.Now)
}

// NewWithAPI builds a Ledger over any row source; tests use it to inject
// fakes and a fixed clock.
func NewWithAPI(api RowAPI, loc *time.Location, now func() time.Time) *Ledger {
	return &Ledger{api: api, loc: loc, now: now}
}

// History returns at most the three most recently appended rows whose
// plate matches, oldest of those first. The match is case-insensitive and
// ignores surrounding whitespace. A plate with no rows is not an error;
// the caller gets an empty slice.
func (l *Ledger) History(ctx context.Context, plate string) ([]HistoryEntry, error) {
	rows, err := l.api.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoPlateColumn
	}

	index := columnIndex(rows[0])
	plateCol, ok := index[colPlate]
	if !ok {
		return nil, ErrNoPlateColumn
	}

	want := normalizePlate(plate)
	var matches []HistoryEntry
	for _, row := range rows[1:] {
		if normalizePlate(cell(row, plateCol)) != want {
			continue
		}
		matches = append(matches, HistoryEntry{
			Date:    cellNamed(row, index, colDate, "N/A"),
			Mileage: cellNamed(row, index, colMileage, "N/A"),
			Service: cellNamed(row, index, colService, "N/A"),
			Notes:   cellNamed(row, index, colNotes, ""),
		})
	}

	if len(matches) > maxHistoryEntries {
		matches = matches[len(matches)-maxHistoryEntries:]
	}
	return matches, nil
}

// Append writes exactly one row in the fixed column order. The created-at
// timestamp is taken in the ledger's timezone at call time, not in
// whatever zone the server happens to run in.
func (l *Ledger) Append(ctx context.Context, rec MaintenanceRecord) error {
	row := []any{
		rec.VehiclePlate,
		rec.CustomerName,
		rec.Contact,
		rec.VehicleModel,
		rec.VehicleYear,
		rec.Mileage,
		rec.ScheduledDate,
		rec.ScheduledTime,
		rec.Service,
		rec.Notes,
		l.now().In(l.loc).Format(timestampFormat),
	}
	if err := l.api.Append(ctx, row); err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}
	return nil
}

func normalizePlate(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func columnIndex(header []any) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(fmt.Sprintf("%v", h))] = i
	}
	return index
}

func cell(row []any, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}

func cellNamed(row []any, index map[string]int, name, fallback string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return fallback
	}
	return cell(row, i)
}
