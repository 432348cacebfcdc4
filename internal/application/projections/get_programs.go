package projections

import (
	"context"

	"ascend/internal/adapters/storage/training"
	domainTraining "ascend/internal/domain/training"
)

// GetProgramsQuery carries query parameters.
type GetProgramsQuery struct {
	Level string // optional; unknown levels are ignored
}

// GetProgramsDeps holds dependencies for GetPrograms.
type GetProgramsDeps struct {
	TrainingStore TrainingStore
}

// GetProgramsResult carries the training listing.
type GetProgramsResult struct {
	Programs []domainTraining.Session
	Level    string
	Levels   []string
}

// QueryGetPrograms lists published training sessions.
// PRE: none
// POST: Returns published sessions, narrowed to Level when it is a known level
func QueryGetPrograms(ctx context.Context, query GetProgramsQuery, deps GetProgramsDeps) (GetProgramsResult, error) {
	level := query.Level
	if !domainTraining.IsValidLevel(level) {
		level = ""
	}
	programs, err := deps.TrainingStore.List(ctx, training.ListFilter{Status: domainTraining.StatusPublished, Level: level})
	if err != nil {
		return GetProgramsResult{}, err
	}
	return GetProgramsResult{
		Programs: programs,
		Level:    level,
		Levels:   domainTraining.ValidLevels,
	}, nil
}
