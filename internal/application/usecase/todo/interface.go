package todo

import (
	"context"
)

type CreateUseCase interface {
	Execute(ctx context.Context, input CreateInput) (TodoOutput, error)
}

type ListUseCase interface {
	Execute(ctx context.Context, input ListInput) (ListOutput, error)
}

type GetUseCase interface {
	Execute(ctx context.Context, id int64) (TodoOutput, error)
}

type ToggleUseCase interface {
	Execute(ctx context.Context, id int64) (TodoOutput, error)
}

type DeleteUseCase interface {
	Execute(ctx context.Context, id int64) error
}

type StatsUseCase interface {
	Execute(ctx context.Context) (StatsOutput, error)
}
