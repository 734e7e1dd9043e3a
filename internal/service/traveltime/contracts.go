package traveltime

import (
	"context"
	"time"
)

// Cache интерфейс key-value кеша с TTL
// Продакшен-реализация - RedisCache, в тестах подменяется фейком
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// RoutingClient интерфейс провайдера маршрутизации
type RoutingClient interface {
	Resolve(ctx context.Context, fromPostalCode, toPostalCode string, departure time.Time) (int, error)
}

// Metrics интерфейс метрик обращений к кешу
type Metrics interface {
	IncTravelCacheRequest(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// noopMetrics заглушка метрик, когда сбор отключен
type noopMetrics struct{}

func (noopMetrics) IncTravelCacheRequest(string) {}
