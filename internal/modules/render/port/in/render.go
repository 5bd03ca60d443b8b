package in

import (
	"context"

	"bookshelf/internal/modules/render/dto"
)

type Usecase interface {
	Open(ctx context.Context, input dto.OpenInput) (dto.OpenOutput, error)
	Close(ctx context.Context) error
	Frame(ctx context.Context, input dto.FrameInput) (dto.FrameOutput, error)
	PageSizePoints(ctx context.Context, page int) (w, h float64)
}
