package usecase

import (
	"context"

	"bookshelf/internal/modules/render/domain"
	"bookshelf/internal/modules/render/dto"
	renderin "bookshelf/internal/modules/render/port/in"
	"bookshelf/internal/modules/render/service"
)

type Interactor struct {
	svc *service.RenderService
}

func NewInteractor(svc *service.RenderService) renderin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Open(_ context.Context, input dto.OpenInput) (dto.OpenOutput, error) {
	pages, err := i.svc.Open(input.Path)
	if err != nil {
		return dto.OpenOutput{}, err
	}
	return dto.OpenOutput{PageCount: pages, Generation: i.svc.Generation()}, nil
}

func (i *Interactor) Close(context.Context) error {
	return i.svc.Close()
}

func (i *Interactor) PageSizePoints(_ context.Context, page int) (float64, float64) {
	return i.svc.PageSizePoints(page)
}

func (i *Interactor) Frame(ctx context.Context, input dto.FrameInput) (dto.FrameOutput, error) {
	state := domain.ViewportState{
		ZoomPercent: input.ZoomPercent,
		PanX:        input.PanX,
		PanY:        input.PanY,
		FrameCols:   input.FrameCols,
		FrameRows:   input.FrameRows,
	}
	metrics := domain.Metrics{CellWidthPx: input.CellWidthPx, CellHeightPx: input.CellHeightPx}
	mode := domain.ColorRGB
	if input.Gray {
		mode = domain.ColorGray
	}

	frame, err := i.svc.RenderFrame(ctx, input.Page, state, metrics, mode)
	if err != nil {
		return dto.FrameOutput{}, err
	}

	out := dto.FrameOutput{
		Page:        frame.Page,
		ZoomPercent: frame.State.ZoomPercent,
		PanX:        frame.State.PanX,
		PanY:        frame.State.PanY,
		Placeholder: frame.Placeholder,
	}
	if frame.Bitmap != nil {
		out.Image = frame.Bitmap.Img
		p := frame.Placement
		out.CropX, out.CropY = p.Crop.Min.X, p.Crop.Min.Y
		out.CropW, out.CropH = p.Crop.Dx(), p.Crop.Dy()
		out.TransmitW, out.TransmitH = p.TransmitW, p.TransmitH
		out.CellX, out.CellY = p.CellRect.Min.X, p.CellRect.Min.Y
		out.CellCols, out.CellRows = p.CellRect.Dx(), p.CellRect.Dy()
	}
	return out, nil
}
