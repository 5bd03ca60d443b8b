package in

import (
	"context"

	"bookshelf/internal/modules/render/dto"
	renderin "bookshelf/internal/modules/render/port/in"
)

type TUIHandler struct {
	usecase renderin.Usecase
}

func NewTUIHandler(usecase renderin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Open(ctx context.Context, path string) (dto.OpenOutput, error) {
	return h.usecase.Open(ctx, dto.OpenInput{Path: path})
}

func (h TUIHandler) Close(ctx context.Context) error {
	return h.usecase.Close(ctx)
}

func (h TUIHandler) Frame(ctx context.Context, input dto.FrameInput) (dto.FrameOutput, error) {
	return h.usecase.Frame(ctx, input)
}
