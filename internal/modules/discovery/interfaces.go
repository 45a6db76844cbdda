package discovery

import (
	"context"

	"rentlens/internal/repository"
)

type ProductFinder interface {
	FindNearbyCandidates(ctx context.Context, q repository.NearbyQuery) ([]repository.NearbyCandidate, error)
}
