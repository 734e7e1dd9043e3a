package traveltime

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Kilchi555/driving-team-app-sub004/internal/domain"
	"github.com/Kilchi555/driving-team-app-sub004/pkg/types"
)

// PeakWindow настраиваемое пиковое окно времени суток
type PeakWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// Contains возвращает true, если время суток t попадает в окно [Start, End)
func (w PeakWindow) Contains(t types.TimeString) bool {
	return !t.IsBefore(w.Start) && t.IsBefore(w.End)
}

// Service сервис времени в пути с кешированием по (пара индексов, time bucket)
// Кеш ограничивает количество блокирующих обращений к внешнему провайдеру:
// для каждой пары точек и корзины времени суток внешний вызов выполняется
// не чаще одного раза за TTL
type Service struct {
	cache       Cache
	routing     RoutingClient
	morningPeak PeakWindow
	eveningPeak PeakWindow
	cacheTTL    time.Duration
	metrics     Metrics
	logger      Logger
}

// NewService создает новый сервис времени в пути
// metrics может быть nil, если сбор метрик отключен
func NewService(
	cache Cache,
	routing RoutingClient,
	morningPeak PeakWindow,
	eveningPeak PeakWindow,
	cacheTTL time.Duration,
	metrics Metrics,
	logger Logger,
) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		cache:       cache,
		routing:     routing,
		morningPeak: morningPeak,
		eveningPeak: eveningPeak,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		logger:      logger,
	}
}

// BucketFor определяет корзину времени суток для момента отправления
func (s *Service) BucketFor(departure time.Time) domain.TimeBucket {
	t := types.NewTimeString(departure)

	if s.morningPeak.Contains(t) {
		return domain.BucketMorningPeak
	}
	if s.eveningPeak.Contains(t) {
		return domain.BucketEveningPeak
	}
	return domain.BucketOffPeak
}

// Resolve возвращает время в пути в минутах между двумя почтовыми индексами
// с учетом времени суток отправления
//
// Порядок: кеш -> внешний провайдер -> запись в кеш. Ошибка кеша не фатальна
// (сразу идем к провайдеру); ошибка провайдера возвращается как ErrUnavailable,
// и вызывающая сторона деградирует до "ограничение не применяется"
func (s *Service) Resolve(ctx context.Context, fromPostalCode, toPostalCode string, departure time.Time) (int, error) {
	if fromPostalCode == toPostalCode {
		return 0, nil
	}

	bucket := s.BucketFor(departure)
	key := cacheKey(fromPostalCode, toPostalCode, bucket)

	// 1. Пробуем кеш
	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		minutes, parseErr := strconv.Atoi(cached)
		if parseErr == nil {
			s.metrics.IncTravelCacheRequest("hit")
			return minutes, nil
		}
		s.logger.Warn("TravelTime: corrupt cache value for key=%s: %q", key, cached)
	} else if !errors.Is(err, ErrCacheMiss) {
		// Недоступный Redis не блокирует проверку - идем напрямую к провайдеру
		s.metrics.IncTravelCacheRequest("error")
		s.logger.Warn("TravelTime: cache unavailable for key=%s: %v", key, err)
	}

	// 2. Промах - обращаемся к провайдеру
	s.metrics.IncTravelCacheRequest("miss")
	minutes, err := s.routing.Resolve(ctx, fromPostalCode, toPostalCode, departure)
	if err != nil {
		s.logger.Warn("TravelTime: provider lookup failed for %s -> %s (%s): %v",
			fromPostalCode, toPostalCode, bucket, err)
		return 0, fmt.Errorf("%w: %s -> %s: %v", ErrUnavailable, fromPostalCode, toPostalCode, err)
	}

	// 3. Кладем в кеш; ошибка записи не мешает вернуть результат
	if err := s.cache.Set(ctx, key, strconv.Itoa(minutes), s.cacheTTL); err != nil {
		s.logger.Warn("TravelTime: failed to cache key=%s: %v", key, err)
	}

	s.logger.Info("TravelTime: resolved %s -> %s (%s) = %d min",
		fromPostalCode, toPostalCode, bucket, minutes)
	return minutes, nil
}

// cacheKey ключ кеша для пары индексов и корзины времени суток
// Направление пары значимо: утренний маршрут A->B не равен B->A
func cacheKey(from, to string, bucket domain.TimeBucket) string {
	return fmt.Sprintf("traveltime:%s:%s:%s", from, to, bucket)
}
