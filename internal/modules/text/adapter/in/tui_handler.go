package in

import (
	"context"

	"bookshelf/internal/modules/text/dto"
	textin "bookshelf/internal/modules/text/port/in"
)

type TUIHandler struct {
	usecase textin.Usecase
}

func NewTUIHandler(usecase textin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Open(ctx context.Context, path string) (dto.OpenOutput, error) {
	return h.usecase.Open(ctx, dto.OpenInput{Path: path})
}

func (h TUIHandler) Close(ctx context.Context) error {
	return h.usecase.Close(ctx)
}

func (h TUIHandler) Page(ctx context.Context, input dto.PageInput) (dto.PageOutput, error) {
	return h.usecase.Page(ctx, input)
}
