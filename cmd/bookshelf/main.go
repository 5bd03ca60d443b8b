package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bookshelf/internal/bootstrap"
	catalogdto "bookshelf/internal/modules/catalog/dto"
	textdto "bookshelf/internal/modules/text/dto"
	"bookshelf/internal/platform/config"
	"bookshelf/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string
	var debug bool

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Terminal PDF reading room",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLogger(logging.Stderr())
			}
		},
	}
	root.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "data directory")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log to stderr")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newScanCmd(&dataDir))
	root.AddCommand(newProgressCmd(&dataDir))
	root.AddCommand(newRenderCmd(&dataDir))
	return root
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bookshelf"
	}
	return filepath.Join(home, ".bookshelf")
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the bookshelf terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newScanCmd(dataDir *string) *cobra.Command {
	var recursive bool

	scan := &cobra.Command{
		Use:   "scan [root...]",
		Short: "Scan library roots for PDF files",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}

			roots := make([]catalogdto.RootInput, 0, len(args))
			for _, a := range args {
				roots = append(roots, catalogdto.RootInput{Path: a, Recursive: recursive})
			}
			if len(roots) == 0 {
				for _, r := range app.Config.Roots {
					roots = append(roots, catalogdto.RootInput{Path: r, Recursive: true})
				}
			}
			if len(roots) == 0 {
				return fmt.Errorf("no roots: pass paths or set roots in bookshelf.yaml")
			}

			out, err := app.CatalogTUI.Scan(context.Background(), roots)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "found=%d added=%d updated=%d removed=%d\n", out.Found, out.Added, out.Updated, out.Removed)
			return nil
		},
	}
	scan.Flags().BoolVar(&recursive, "recursive", true, "descend into subdirectories")
	return scan
}

func newProgressCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "List cataloged books with reading progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			books, err := app.CatalogTUI.ListBooks(context.Background())
			if err != nil {
				return err
			}
			if len(books) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no books (run: bookshelf scan <dir>)")
				return nil
			}
			for _, b := range books {
				marker := " "
				if b.Favorite {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%.0f%%\t%s\n", marker, b.ID, b.ProgressPct, b.Title)
			}
			return nil
		},
	}
}

func newRenderCmd(dataDir *string) *cobra.Command {
	var page, width int
	var mode string

	text := &cobra.Command{
		Use:   "render <pdf-path>",
		Short: "Print a page's structured text to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			ctx := context.Background()

			opened, err := app.TextTUI.Open(ctx, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = app.TextTUI.Close(ctx) }()

			if page < 1 || page > opened.PageCount {
				return fmt.Errorf("page %d out of range 1..%d", page, opened.PageCount)
			}
			out, err := app.TextTUI.Page(ctx, textdto.PageInput{
				Page:  page - 1,
				Mode:  textdto.Mode(mode),
				Width: width,
			})
			if err != nil {
				return err
			}
			if out.Empty {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "page %d: %s\n", page, out.Reason)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out.Lines, "\n"))
			return nil
		},
	}
	text.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	text.Flags().IntVar(&width, "width", 80, "wrap width in columns")
	text.Flags().StringVar(&mode, "mode", "reflow", "text mode: raw|wrap|reflow")
	return text
}
