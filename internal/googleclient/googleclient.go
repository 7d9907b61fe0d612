// Package googleclient constructs the shared Sheets and Calendar services
// from a service-account key file. Both clients are built once at process
// start and reused for the process lifetime.
package googleclient

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var scopes = []string{
	calendar.CalendarScope,
	sheets.SpreadsheetsScope,
}

// Services holds the Google API clients the application depends on.
type Services struct {
	Sheets   *sheets.Service
	Calendar *calendar.Service
}

// NewFromServiceAccount reads the key file at keyPath and builds both
// services with calendar and spreadsheet scopes.
func NewFromServiceAccount(ctx context.Context, keyPath string) (*Services, error) {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}
	tokenSource := option.WithTokenSource(conf.TokenSource(ctx))

	sheetsSvc, err := sheets.NewService(ctx, tokenSource)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	calendarSvc, err := calendar.NewService(ctx, tokenSource)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return &Services{Sheets: sheetsSvc, Calendar: calendarSvc}, nil
}
