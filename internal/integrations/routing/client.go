package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент провайдера геокодинга/маршрутизации
// Единственная сетевая точка блокировки ядра - вызывается только при промахе
// кеша времени в пути, ошибки здесь никогда не фатальны для вызывающего
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента маршрутизации
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Resolve возвращает время в пути в минутах между двумя почтовыми индексами
// на момент departure
func (c *Client) Resolve(ctx context.Context, fromPostalCode, toPostalCode string, departure time.Time) (int, error) {
	reqURL := fmt.Sprintf("%s/v1/travel-time?from=%s&to=%s&departure=%s",
		c.baseURL,
		url.QueryEscape(fromPostalCode),
		url.QueryEscape(toPostalCode),
		url.QueryEscape(departure.Format(time.RFC3339)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return 0, ErrRouteNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var route RouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&route); err != nil {
		return 0, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if route.Minutes < 0 {
		return 0, fmt.Errorf("%w: negative travel time %d", ErrInvalidResponse, route.Minutes)
	}

	return route.Minutes, nil
}
