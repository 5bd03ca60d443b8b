package usecase

import (
	"context"

	"bookshelf/internal/modules/text/domain"
	"bookshelf/internal/modules/text/dto"
	textin "bookshelf/internal/modules/text/port/in"
	"bookshelf/internal/modules/text/service"
)

type Interactor struct {
	svc *service.TextService
}

func NewInteractor(svc *service.TextService) textin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Open(_ context.Context, input dto.OpenInput) (dto.OpenOutput, error) {
	if err := i.svc.Open(input.Path); err != nil {
		return dto.OpenOutput{}, err
	}
	return dto.OpenOutput{PageCount: i.svc.PageCount()}, nil
}

func (i *Interactor) Close(context.Context) error {
	return i.svc.Close()
}

func (i *Interactor) Page(_ context.Context, input dto.PageInput) (dto.PageOutput, error) {
	page, err := i.svc.Page(input.Page)
	if err != nil {
		return dto.PageOutput{}, err
	}
	out := dto.PageOutput{Page: input.Page, Empty: page.Empty, Reason: page.Reason}
	if page.Empty {
		return out, nil
	}

	switch input.Mode {
	case dto.ModeRaw:
		out.Lines = page.RawLines
	case dto.ModeWrap:
		lines := make([]string, 0, len(page.RawLines))
		for _, l := range page.RawLines {
			lines = append(lines, domain.WrapLine(l, input.Width)...)
		}
		out.Lines = lines
	default:
		out.Lines = domain.WrapParagraphs(page.Paragraphs, input.Width)
	}
	return out, nil
}
