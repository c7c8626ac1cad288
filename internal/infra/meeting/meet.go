// Package meeting creates conferencing links for confirmed bookings.
// Provider "google" inserts a Calendar event with a Meet conference using an
// offline refresh token; anything else falls back to a noop scheduler.
package meeting

import (
	"context"
	"fmt"
	"log/slog"

	"meetslot/internal/pkg/config"
	"meetslot/internal/usecase"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func NewScheduler(cfg config.MeetConfig) usecase.MeetingScheduler {
	switch cfg.Provider {
	case "google":
		if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
			slog.Warn("google meet provider configured without credentials, using noop")
			return &noopScheduler{}
		}
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		}
		return &googleScheduler{
			oauthCfg:     oauthCfg,
			refreshToken: cfg.RefreshToken,
			calendarID:   cfg.CalendarID,
		}
	case "noop":
		return &noopScheduler{}
	default:
		slog.Warn("unknown meet provider, using noop", "provider", cfg.Provider)
		return &noopScheduler{}
	}
}

type googleScheduler struct {
	oauthCfg     *oauth2.Config
	refreshToken string
	calendarID   string
}

func (g *googleScheduler) CreateMeeting(ctx context.Context, m usecase.MeetingDetails) (string, error) {
	client := g.oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: g.refreshToken})
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("failed to create calendar service: %w", err)
	}

	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s: %s with %s", m.EventName, m.HostName, m.InviteeName),
		Description: fmt.Sprintf("Booked via meetslot by %s (%s)", m.InviteeName, m.InviteeEmail),
		Start: &calendar.EventDateTime{
			DateTime: m.StartAtUTC.Format("2006-01-02T15:04:05Z07:00"),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: m.EndAtUTC.Format("2006-01-02T15:04:05Z07:00"),
			TimeZone: "UTC",
		},
		Attendees: []*calendar.EventAttendee{
			{Email: m.InviteeEmail},
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}

	created, err := srv.Events.Insert(g.calendarID, event).ConferenceDataVersion(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}
	if created.HangoutLink != "" {
		return created.HangoutLink, nil
	}
	return created.HtmlLink, nil
}

type noopScheduler struct{}

func (n *noopScheduler) CreateMeeting(_ context.Context, m usecase.MeetingDetails) (string, error) {
	slog.Info("meeting link would be created (noop)", "event", m.EventName, "start", m.StartAtUTC)
	return "", nil
}
