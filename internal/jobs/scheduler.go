package jobs

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/Kilchi555/driving-team-app-sub004/internal/usecase/generate_availability"
)

// GenerateUseCase интерфейс usecase генерации слотов доступности
type GenerateUseCase interface {
	Execute(ctx context.Context, req *generate_availability.Request) (*generate_availability.Response, error)
}

// SweepUseCase интерфейс usecase очистки истекших резерваций
type SweepUseCase interface {
	Execute(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler планировщик фоновых задач: генерация слотов и очистка резерваций
//
// Обе задачи идемпотентны, поэтому пропуск или повтор запуска безопасен.
// Генерация на несколько тенантов выполняется внутри usecase с бюджетом
// времени на тенанта, здесь только расписание
type Scheduler struct {
	cron        *cron.Cron
	generate    GenerateUseCase
	sweep       SweepUseCase
	horizonDays int
	logger      Logger
}

// NewScheduler создает планировщик фоновых задач
func NewScheduler(generate GenerateUseCase, sweep SweepUseCase, horizonDays int, logger Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		generate:    generate,
		sweep:       sweep,
		horizonDays: horizonDays,
		logger:      logger,
	}
}

// Start регистрирует задачи по cron-выражениям и запускает планировщик
func (s *Scheduler) Start(generationSpec, sweepSpec string) error {
	if _, err := s.cron.AddFunc(generationSpec, s.runGeneration); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(sweepSpec, s.runSweep); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("jobs: scheduler started, generation=%q, sweep=%q", generationSpec, sweepSpec)
	return nil
}

// Stop останавливает планировщик, дожидаясь завершения запущенных задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("jobs: scheduler stopped")
}

func (s *Scheduler) runGeneration() {
	resp, err := s.generate.Execute(context.Background(), &generate_availability.Request{
		DaysAhead: s.horizonDays,
	})
	if err != nil {
		s.logger.Error("jobs: availability generation failed: %v", err)
		return
	}

	failed := 0
	for _, t := range resp.Tenants {
		if t.Failed {
			failed++
		}
	}
	s.logger.Info("jobs: availability generation done, tenants=%d, failed=%d, generated=%d, retracted=%d",
		len(resp.Tenants), failed, resp.Generated, resp.Retracted)
}

func (s *Scheduler) runSweep() {
	if _, err := s.sweep.Execute(context.Background()); err != nil {
		s.logger.Error("jobs: reservation sweep failed: %v", err)
	}
}
