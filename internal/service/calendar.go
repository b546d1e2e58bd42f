package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/recipeshare/backend/config"
)

// BookingEvent is the booking detail set turned into a calendar event.
type BookingEvent struct {
	Restaurant string
	Recipe     string
	Date       string
	Time       string
	Quantity   int
}

// CalendarService creates Google Calendar events for confirmed bookings
// and handles the OAuth flow that authorizes them.
type CalendarService struct {
	oauth    *oauth2.Config
	token    *oauth2.Token
	location *time.Location
	logger   *zap.Logger
}

// NewCalendarService creates a new CalendarService instance
func NewCalendarService(cfg config.GoogleConfig, logger *zap.Logger) (*CalendarService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("Google OAuth credentials are not configured")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone %q: %w", cfg.Timezone, err)
	}

	svc := &CalendarService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{calendar.CalendarScope},
			Endpoint:     google.Endpoint,
		},
		location: loc,
		logger:   logger,
	}

	if cfg.AccessToken != "" || cfg.RefreshToken != "" {
		svc.token = &oauth2.Token{
			AccessToken:  cfg.AccessToken,
			RefreshToken: cfg.RefreshToken,
		}
	}

	return svc, nil
}

// AuthURL returns the offline-access authorization URL.
func (s *CalendarService) AuthURL() string {
	return s.oauth.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for tokens and keeps them for
// subsequent event insertions.
func (s *CalendarService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	s.token = token
	return token, nil
}

// CreateBookingEvent inserts a one-hour event into the primary calendar.
// Returns the event id and the link to open it.
func (s *CalendarService) CreateBookingEvent(ctx context.Context, booking BookingEvent) (string, string, error) {
	if s.token == nil {
		return "", "", fmt.Errorf("calendar is not authorized")
	}

	start, err := s.resolveStart(booking.Date, booking.Time, time.Now().In(s.location))
	if err != nil {
		return "", "", err
	}
	end := start.Add(time.Hour)

	event := &calendar.Event{
		Summary:     fmt.Sprintf("Order: %s at %s", booking.Recipe, booking.Restaurant),
		Description: fmt.Sprintf("Order of %d portion(s) of %s at %s", booking.Quantity, booking.Recipe, booking.Restaurant),
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: s.location.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: s.location.String(),
		},
	}

	// The token source refreshes the access token when it has expired.
	client, err := calendar.NewService(ctx, option.WithTokenSource(s.oauth.TokenSource(ctx, s.token)))
	if err != nil {
		return "", "", fmt.Errorf("failed to create calendar client: %w", err)
	}

	inserted, err := client.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", "", err
	}

	s.logger.Info("created calendar event",
		zap.String("event_id", inserted.Id),
		zap.String("restaurant", booking.Restaurant),
	)
	return inserted.Id, inserted.HtmlLink, nil
}

var inDaysRe = regexp.MustCompile(`(?i)^in (\d+) days?$`)

// resolveStart combines the booking's date (absolute YYYY-MM-DD or a
// relative word) with its HH:mm time in the calendar's timezone.
func (s *CalendarService) resolveStart(date, clock string, now time.Time) (time.Time, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid booking time %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return time.Time{}, fmt.Errorf("invalid booking time %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return time.Time{}, fmt.Errorf("invalid booking time %q", clock)
	}

	day, err := resolveBookingDate(date, now)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, s.location), nil
}

// resolveBookingDate resolves an absolute YYYY-MM-DD date or a relative
// phrase (today, tomorrow, day after tomorrow, in N days) against now.
func resolveBookingDate(date string, now time.Time) (time.Time, error) {
	if strings.Contains(date, "-") {
		parsed, err := time.ParseInLocation("2006-01-02", date, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid booking date %q", date)
		}
		return parsed, nil
	}

	switch strings.ToLower(strings.TrimSpace(date)) {
	case "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "day after tomorrow":
		return now.AddDate(0, 0, 2), nil
	}

	if m := inDaysRe.FindStringSubmatch(strings.TrimSpace(date)); m != nil {
		days, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, days), nil
	}

	return time.Time{}, fmt.Errorf("unsupported booking date %q", date)
}
