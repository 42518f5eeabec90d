package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

// ErrNotFound é devolvido quando a API responde 404 numa busca.
var ErrNotFound = errors.New("not found")

// APIError carrega o corpo de erro padrão da API.
type APIError struct {
	Status  int               `json:"-"`
	Code    string            `json:"error_code"`
	Message string            `json:"message"`
	Fields  []string          `json:"fields,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("http %d", e.Status)
}

// Settings é a resposta de GET /api/integration-settings.
type Settings struct {
	models.IntegrationSettings
	WorkingHoursConfig schedule.WorkingHoursConfig `json:"workingHoursConfig"`
	WorkingDaysList    []int                       `json:"workingDaysList"`
}

// SlotsResponse é a resposta de GET /api/tickets/available-slots.
type SlotsResponse struct {
	Slots []schedule.AvailableSlot `json:"slots"`
	Count int                      `json:"count"`
}

// Client fala com a API autenticada de uma empresa.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

func New(baseURL, token string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log.With().Str("component", "apiclient").Logger(),
	}
}

// WithHTTPClient troca o transporte (testes, proxies).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

// ======================================================
// CONSULTAS
// ======================================================

func (c *Client) ListClients(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	if err := c.doGet(ctx, "/api/clients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	if err := c.doGet(ctx, "/api/services", url.Values{"active": {"true"}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NextNumber devolve o próximo "YYYY-NNNN" sugerido pelo servidor.
func (c *Client) NextNumber(ctx context.Context) (string, error) {
	var out string
	if err := c.doGet(ctx, "/api/tickets/next-number", nil, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (c *Client) Settings(ctx context.Context) (*Settings, error) {
	var out Settings
	if err := c.doGet(ctx, "/api/integration-settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Events lista os eventos do Google Agenda. Resposta não-OK vira lista
// vazia; só falha de transporte é erro.
func (c *Client) Events(ctx context.Context, timeMin, timeMax time.Time) ([]schedule.CalendarEvent, error) {
	q := url.Values{
		"timeMin": {timeMin.Format(time.RFC3339)},
		"timeMax": {timeMax.Format(time.RFC3339)},
	}

	var out []schedule.CalendarEvent
	err := c.doGet(ctx, "/api/google-calendar/events", q, &out)

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.log.Debug().Int("status", apiErr.Status).Msg("calendar events unavailable")
		return []schedule.CalendarEvent{}, nil
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []schedule.CalendarEvent{}
	}
	return out, nil
}

func (c *Client) AvailableSlots(ctx context.Context, startDate, endDate, serviceID string) (*SlotsResponse, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}
	if serviceID != "" {
		q.Set("serviceId", serviceID)
	}

	var out SlotsResponse
	if err := c.doGet(ctx, "/api/tickets/available-slots", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchDocument busca cliente por CPF/CNPJ. ErrNotFound quando não existe.
func (c *Client) SearchDocument(ctx context.Context, document string) (*models.Client, error) {
	var out models.Client
	err := c.doGet(ctx, "/api/clients/search/document", url.Values{"document": {document}}, &out)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CalendarAuthURL pede a URL de consentimento do Google.
func (c *Client) CalendarAuthURL(ctx context.Context) (string, error) {
	var out struct {
		AuthURL string `json:"authUrl"`
	}
	if err := c.doGet(ctx, "/api/google-calendar/auth", nil, &out); err != nil {
		return "", err
	}
	if out.AuthURL == "" {
		return "", errors.New("empty authUrl")
	}
	return out.AuthURL, nil
}

// ======================================================
// ESCRITA
// ======================================================

// CreateTicket envia o payload já validado. Em erro, devolve *APIError
// com a mensagem do servidor.
func (c *Client) CreateTicket(ctx context.Context, payload domain.Payload) (*models.Ticket, error) {
	var out models.Ticket
	if err := c.doPost(ctx, "/api/tickets", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateService é o cadastro rápido: só o nome.
func (c *Client) CreateService(ctx context.Context, name string) (*models.Service, error) {
	var out models.Service
	if err := c.doPost(ctx, "/api/services", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ======================================================
// HTTP
// ======================================================

func (c *Client) doGet(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) doPost(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
