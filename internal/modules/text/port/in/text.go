package in

import (
	"context"

	"bookshelf/internal/modules/text/dto"
)

type Usecase interface {
	Open(ctx context.Context, input dto.OpenInput) (dto.OpenOutput, error)
	Close(ctx context.Context) error
	Page(ctx context.Context, input dto.PageInput) (dto.PageOutput, error)
}
