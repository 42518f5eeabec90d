package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
)

var ErrNotConnected = errors.New("google calendar not connected")

const maxPages = 10

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// chamadas por segundo à API (todas as empresas)
	RPS   float64
	Burst int
}

// Client fala com a Google Calendar API usando o token salvo por empresa.
type Client struct {
	oauth   *oauth2.Config
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				calendar.CalendarEventsScope,
				calendar.CalendarReadonlyScope,
				"email",
			},
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		log:     log.With().Str("component", "gcal").Logger(),
	}
}

// AuthURL monta a URL de consentimento. state identifica a empresa.
func (c *Client) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange troca o código do callback pelo token serializado em JSON.
func (c *Client) Exchange(ctx context.Context, code string) ([]byte, error) {
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}
	return json.Marshal(tok)
}

func (c *Client) service(ctx context.Context, tokenJSON []byte) (*calendar.Service, error) {
	if len(tokenJSON) == 0 {
		return nil, ErrNotConnected
	}

	var tok oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	ts := c.oauth.TokenSource(ctx, &tok)
	return calendar.NewService(ctx, option.WithTokenSource(ts))
}

func calendarID(id string) string {
	if id == "" {
		return schedule.PrimaryCalendarID
	}
	return id
}

// ListEvents implementa schedule.EventSource.
func (c *Client) ListEvents(ctx context.Context, q schedule.EventQuery) ([]schedule.CalendarEvent, error) {
	svc, err := c.service(ctx, q.Token)
	if err != nil {
		return nil, err
	}

	calID := calendarID(q.CalendarID)
	call := svc.Events.List(calID).
		TimeMin(q.TimeMin.Format(time.RFC3339)).
		TimeMax(q.TimeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	out := []schedule.CalendarEvent{}
	pages := 0

	err = call.Pages(ctx, func(page *calendar.Events) error {
		pages++
		for _, item := range page.Items {
			if ev, ok := convertEvent(item, calID); ok {
				out = append(out, ev)
			}
		}
		if pages >= maxPages {
			return errStopPaging
		}
		return c.limiter.Wait(ctx)
	})
	if err != nil && !errors.Is(err, errStopPaging) {
		return nil, fmt.Errorf("list events: %w", err)
	}

	c.log.Debug().
		Str("company_id", q.CompanyID).
		Int("events", len(out)).
		Msg("calendar events listed")

	return out, nil
}

var errStopPaging = errors.New("stop paging")

// InsertEvent cria o evento do chamado e devolve o ID do Google.
func (c *Client) InsertEvent(ctx context.Context, q schedule.EventQuery, ev schedule.CalendarEvent) (string, error) {
	svc, err := c.service(ctx, q.Token)
	if err != nil {
		return "", err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	created, err := svc.Events.Insert(calendarID(q.CalendarID), &calendar.Event{
		Summary:     ev.Summary,
		Description: "Criado pelo Chamados Pro",
		Start:       &calendar.EventDateTime{DateTime: ev.Start},
		End:         &calendar.EventDateTime{DateTime: ev.End},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}

	return created.Id, nil
}

// convertEvent ignora eventos cancelados e marcados como "livre".
func convertEvent(item *calendar.Event, calID string) (schedule.CalendarEvent, bool) {
	if item == nil || item.Start == nil || item.End == nil {
		return schedule.CalendarEvent{}, false
	}
	if item.Status == "cancelled" || item.Transparency == "transparent" {
		return schedule.CalendarEvent{}, false
	}

	ev := schedule.CalendarEvent{
		ID:         item.Id,
		Summary:    item.Summary,
		CalendarID: calID,
	}

	if item.Start.Date != "" {
		ev.Start = item.Start.Date
		ev.End = item.End.Date
		ev.AllDay = true
		return ev, true
	}

	ev.Start = item.Start.DateTime
	ev.End = item.End.DateTime
	return ev, ev.Start != "" && ev.End != ""
}
