package bootstrap

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	cataloginadapter "bookshelf/internal/modules/catalog/adapter/in"
	catalogoutadapter "bookshelf/internal/modules/catalog/adapter/out"
	catalogdto "bookshelf/internal/modules/catalog/dto"
	catalogservice "bookshelf/internal/modules/catalog/service"
	catalogusecase "bookshelf/internal/modules/catalog/usecase"
	renderinadapter "bookshelf/internal/modules/render/adapter/in"
	renderoutadapter "bookshelf/internal/modules/render/adapter/out"
	"bookshelf/internal/modules/render/cache"
	renderdomain "bookshelf/internal/modules/render/domain"
	renderservice "bookshelf/internal/modules/render/service"
	renderusecase "bookshelf/internal/modules/render/usecase"
	textinadapter "bookshelf/internal/modules/text/adapter/in"
	textoutadapter "bookshelf/internal/modules/text/adapter/out"
	textdomain "bookshelf/internal/modules/text/domain"
	textservice "bookshelf/internal/modules/text/service"
	textusecase "bookshelf/internal/modules/text/usecase"
	"bookshelf/internal/platform/clock"
	"bookshelf/internal/platform/config"
	"bookshelf/internal/platform/id"
	uiapp "bookshelf/internal/ui/app"
	"bookshelf/internal/ui/sink"
	readerview "bookshelf/internal/ui/views/reader"
)

type App struct {
	Config     config.Config
	Prefs      catalogdto.PrefsOutput
	CatalogTUI cataloginadapter.TUIHandler
	RenderTUI  renderinadapter.TUIHandler
	TextTUI    textinadapter.TUIHandler
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := catalogoutadapter.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new catalog store: %w", err)
	}
	catalogSvc := catalogservice.NewCatalogService(clk, ids, store, catalogoutadapter.NewFSScanner())
	catalogUC := catalogusecase.NewInteractor(catalogSvc)
	catalogTUI := cataloginadapter.NewTUIHandler(catalogUC)

	// Persisted viewer preferences apply from session start; a stored
	// transmit budget overrides the configured one.
	prefs, err := catalogTUI.LoadPrefs(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}
	if prefs.MaxTransmitPixels > 0 {
		cfg.Viewer.MaxTransmitPixels = prefs.MaxTransmitPixels
	}

	pageCache, err := cache.New(cfg.Viewer.CacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("new page cache: %w", err)
	}
	renderSvc := renderservice.NewRenderService(
		renderoutadapter.NewFitzRasterizer(),
		pageCache,
		renderdomain.Limits{
			MaxTransmitPixels: cfg.Viewer.MaxTransmitPixels,
			MaxRenderPixels:   cfg.Viewer.MaxRenderPixels,
			MaxRenderWidthPx:  cfg.Viewer.MaxRenderWidthPx,
		},
	)
	renderUC := renderusecase.NewInteractor(renderSvc)

	textSvc := textservice.NewTextService(
		textoutadapter.NewPDFOpsSource(),
		textdomain.Options{
			WordGapEm:            cfg.Viewer.WordGapEm,
			LineToleranceEm:      cfg.Viewer.LineToleranceEm,
			FurnitureSampleDepth: cfg.Viewer.FurnitureSampleDepth,
			FurnitureMajority:    cfg.Viewer.FurnitureMajority,
		},
	)
	textUC := textusecase.NewInteractor(textSvc)

	return &App{
		Config:     cfg,
		Prefs:      prefs,
		CatalogTUI: catalogTUI,
		RenderTUI:  renderinadapter.NewTUIHandler(renderUC),
		TextTUI:    textinadapter.NewTUIHandler(textUC),
	}, nil
}

func RunTUI(app *App) error {
	kind := sink.Detect(os.Getenv)
	tmux := sink.InTmux(os.Getenv)
	if kind == sink.KindKitty && tmux {
		sink.EnsureTmuxPassthrough(os.Getenv)
	}

	roots := make([]catalogdto.RootInput, 0, len(app.Config.Roots))
	for _, r := range app.Config.Roots {
		roots = append(roots, catalogdto.RootInput{Path: r, Recursive: true})
	}

	reader := readerview.New(app.RenderTUI, app.TextTUI, app.CatalogTUI, sink.New(kind, tmux), readerview.Config{
		ZoomMin:     app.Config.Viewer.ZoomMinPercent,
		ZoomMax:     app.Config.Viewer.ZoomMaxPercent,
		ZoomStep:    app.Config.Viewer.ZoomStepPercent,
		DefaultMode: app.Prefs.Mode,
		DefaultZoom: app.Prefs.ZoomPercent,
	})

	model := uiapp.NewModel(app.CatalogTUI, reader, app.CatalogTUI, roots, app.Config.Viewer.MaxTransmitPixels)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
