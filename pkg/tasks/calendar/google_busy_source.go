package calendar

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/timeblock-app/timeblock-backend/pkg/date"
	"golang.org/x/oauth2"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// BusySourceInterface is a read-only source of occupied intervals, e.g. an
// externally synced calendar. The engine never writes to a busy source.
type BusySourceInterface interface {
	BusyTimespans(ctx context.Context, window date.Timespan) ([]date.Timespan, error)
}

// GoogleBusySource reads busy periods from a user's Google Calendar so that
// external appointments count as occupied intervals during allocation
type GoogleBusySource struct {
	Service     *gcalendar.Service
	CalendarIDs []string
}

// NewGoogleBusySource builds a GoogleBusySource from an oauth2 config and a stored token
func NewGoogleBusySource(ctx context.Context, config *oauth2.Config, tokenJSON string, calendarIDs []string) (*GoogleBusySource, error) {
	token := oauth2.Token{}
	err := json.Unmarshal([]byte(tokenJSON), &token)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse stored google token")
	}

	client := config.Client(ctx, &token)

	service, err := gcalendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, errors.Wrap(err, "could not build google calendar service")
	}

	return &GoogleBusySource{Service: service, CalendarIDs: calendarIDs}, nil
}

// BusyTimespans queries the freebusy endpoint for all calendars of interest
func (g *GoogleBusySource) BusyTimespans(_ context.Context, window date.Timespan) ([]date.Timespan, error) {
	items := make([]*gcalendar.FreeBusyRequestItem, 0, len(g.CalendarIDs))
	for _, calendarID := range g.CalendarIDs {
		items = append(items, &gcalendar.FreeBusyRequestItem{Id: calendarID})
	}

	response, err := g.Service.Freebusy.Query(&gcalendar.FreeBusyRequest{
		TimeMin: window.Start.Format(time.RFC3339),
		TimeMax: window.End.Format(time.RFC3339),
		Items:   items}).Do()
	if err != nil {
		return nil, errors.Wrap(err, "freebusy query failed")
	}

	var busy []date.Timespan
	for _, entry := range response.Calendars {
		for _, period := range entry.Busy {
			start, err := time.Parse(time.RFC3339, period.Start)
			if err != nil {
				return nil, err
			}

			end, err := time.Parse(time.RFC3339, period.End)
			if err != nil {
				return nil, err
			}

			busy = append(busy, date.Timespan{Start: start.UTC(), End: end.UTC()})
		}
	}

	return date.MergeTimespans(busy), nil
}
