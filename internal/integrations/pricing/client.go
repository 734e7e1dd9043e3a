package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент pricing-сервиса
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента pricing-сервиса
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetQuote запрашивает цену урока для клиента
func (c *Client) GetQuote(ctx context.Context, req *QuoteRequest) (*Quote, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/internal/quotes", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrQuoteNotFound
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	// Парсим ответ
	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &quote, nil
}

// GetQuoteWithGracefulDegradation запрашивает цену с graceful degradation
// При недоступности pricing-сервиса возвращает ErrServiceDegraded - финализация
// продолжается с нулевой ценой, сверку выполняет платежный слой
func (c *Client) GetQuoteWithGracefulDegradation(ctx context.Context, req *QuoteRequest) (*Quote, error) {
	quote, err := c.GetQuote(ctx, req)
	if err != nil {
		// Отсутствие прайса - бизнес-ошибка, пробрасываем ее дальше
		if errors.Is(err, ErrQuoteNotFound) {
			c.log.Warn("No price found for tenant=%d, customer=%d, category=%s",
				req.TenantID, req.CustomerID, req.CategoryCode)
			return nil, err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout, ошибки парсинга)
		// применяем graceful degradation
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("PricingService unavailable, applying graceful degradation for customer=%d: %v",
			req.CustomerID, err)
		return nil, fmt.Errorf("%w: customer=%d, error=%v", ErrServiceDegraded, req.CustomerID, err)
	}

	return quote, nil
}
