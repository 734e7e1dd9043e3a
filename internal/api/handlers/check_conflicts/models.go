package check_conflicts

import (
	checkConflicts "github.com/Kilchi555/driving-team-app-sub004/internal/usecase/check_conflicts"
)

// ConflictsResponse HTTP response model
type ConflictsResponse struct {
	HasConflict   bool `json:"hasConflict"`
	ConflictCount int  `json:"conflictCount"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkConflicts.Response) *ConflictsResponse {
	return &ConflictsResponse{
		HasConflict:   resp.HasConflict,
		ConflictCount: resp.ConflictCount,
	}
}
