package app

import (
	"context"

	"github.com/alexanderramin/obra/internal/domain"
)

type PreviewPlanUseCase interface {
	Preview(ctx context.Context, plan domain.Plan) (*PlanPreview, error)
}

type CommitPlanUseCase interface {
	// Commit persists every part of the plan's preview. progress, when
	// non-nil, is called after each part with the count handled so far.
	Commit(ctx context.Context, plan domain.Plan, progress func(done, total int)) (*CommitResult, error)
}
