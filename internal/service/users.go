package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/repo"
)

// userSummaries loads the public profiles of ids with a single lookup.
// Unknown IDs are absent from the result.
func userSummaries(ctx context.Context, users repo.UserRepo, ids []uuid.UUID) (map[uuid.UUID]domain.UserSummary, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.UserSummary{}, nil
	}

	found, err := users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("expand users: %w", err)
	}
	byID := make(map[uuid.UUID]domain.UserSummary, len(found))
	for _, u := range found {
		byID[u.ID] = u.Summary()
	}
	return byID, nil
}

// lookup returns a pointer to a copy of the summary for id, or nil.
func lookup(byID map[uuid.UUID]domain.UserSummary, id uuid.UUID) *domain.UserSummary {
	u, ok := byID[id]
	if !ok {
		return nil
	}
	return &u
}
