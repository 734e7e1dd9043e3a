package list_available_slots

import (
	"context"

	listAvailableSlots "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/list_available_slots"
)

type ListAvailableSlotsUseCase interface {
	Execute(ctx context.Context, req *listAvailableSlots.Request) (*listAvailableSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
