package calendarapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config параметры клиента. Передаётся в конструктор явно, клиент не читает окружение.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	AccessToken string // пусто - публичный доступ без Authorization
	UserAgent   string
}

// Client клиент REST API календарей
type Client struct {
	baseURL     string
	accessToken string
	userAgent   string
	httpClient  *http.Client
	log         Logger
}

// NewClient создает новый экземпляр клиента API календарей
func NewClient(cfg Config, log Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		userAgent:   cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Authenticated сообщает, отправляет ли клиент учётные данные
func (c *Client) Authenticated() bool {
	return c.accessToken != ""
}

// List получает полный снимок бронирований по всем квартирам
func (c *Client) List(ctx context.Context) (domain.Snapshot, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/calendars", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var calendars map[string]ApartmentCalendar
	if err := json.NewDecoder(resp.Body).Decode(&calendars); err != nil {
		return nil, fmt.Errorf("%w: failed to decode calendars: %v", ErrInvalidResponse, err)
	}

	return toDomain(calendars), nil
}

// Create создает ручное бронирование
func (c *Client) Create(ctx context.Context, req *CreateBookingRequest) error {
	return c.exec(ctx, http.MethodPost, "/api/calendars/bookings", req)
}

// Update отправляет частичное изменение бронирования
func (c *Client) Update(ctx context.Context, bookingID string, req *UpdateBookingRequest) error {
	return c.exec(ctx, http.MethodPut, "/api/calendars/bookings/"+url.PathEscape(bookingID), req)
}

// Delete удаляет ручное бронирование. Успех - 204 или любой 2xx.
func (c *Client) Delete(ctx context.Context, bookingID string) error {
	return c.exec(ctx, http.MethodDelete, "/api/calendars/bookings/"+url.PathEscape(bookingID), nil)
}

// UpsertExternalNote создает или заменяет заметку к внешнему бронированию
func (c *Client) UpsertExternalNote(ctx context.Context, req *ExternalNoteRequest) error {
	return c.exec(ctx, http.MethodPut, "/api/calendars/external-notes", req)
}

// DeleteExternalNote удаляет заметку, само внешнее бронирование остаётся
func (c *Client) DeleteExternalNote(ctx context.Context, req *ExternalNoteRequest) error {
	return c.exec(ctx, http.MethodDelete, "/api/calendars/external-notes", req)
}

// FetchFeed возвращает сырой iCal внешнего календаря квартиры через прокси сервера
func (c *Client) FetchFeed(ctx context.Context, apartmentKey string) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/ical/"+url.PathEscape(apartmentKey), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read feed body: %v", ErrTransport, err)
	}
	return body, nil
}

// exec выполняет запрос, тело успешного ответа не нужно
func (c *Client) exec(ctx context.Context, method, path string, body interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// send выполняет запрос и переводит статус ответа в ошибку.
// При успехе вызывающий обязан закрыть resp.Body.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request: %v", ErrTransport, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrTransport, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, text/calendar")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	return nil, c.statusError(method, path, resp)
}

func (c *Client) statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var errResp ErrorResponse
	_ = json.Unmarshal(raw, &errResp)
	message := errResp.Message
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}

	switch resp.StatusCode {
	case http.StatusConflict:
		conflict := &ConflictError{Message: message}
		if errResp.Conflict != nil {
			conflict.BookingID = errResp.Conflict.ID
			conflict.StartDate = errResp.Conflict.StartDate
			conflict.EndDate = errResp.Conflict.EndDate
		}
		return conflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	default:
		c.log.Warn("calendarapi: %s %s returned %d: %s", method, path, resp.StatusCode, message)
		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, message)
	}
}
