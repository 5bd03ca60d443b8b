package out

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bookshelf/internal/modules/catalog/domain"
	catalogout "bookshelf/internal/modules/catalog/port/out"
	"bookshelf/internal/platform/logging"
)

// FSScanner walks library roots on the local filesystem looking for PDF
// files. Unreadable roots are logged and skipped, not fatal.
type FSScanner struct{}

func NewFSScanner() catalogout.Scanner {
	return FSScanner{}
}

func (FSScanner) Scan(ctx context.Context, roots []domain.Root) ([]domain.ScannedFile, error) {
	var found []domain.ScannedFile
	seen := map[string]bool{}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := scanRoot(ctx, root)
		if err != nil {
			logging.Error("scan root failed", "root", root.Path, "err", err)
			continue
		}
		for _, f := range files {
			if !seen[f.Path] {
				seen[f.Path] = true
				found = append(found, f)
			}
		}
	}
	return found, nil
}

func scanRoot(ctx context.Context, root domain.Root) ([]domain.ScannedFile, error) {
	if !root.Recursive {
		entries, err := os.ReadDir(root.Path)
		if err != nil {
			return nil, err
		}
		var found []domain.ScannedFile
		for _, entry := range entries {
			if entry.IsDir() || !isPDF(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			found = append(found, domain.ScannedFile{
				Path:      filepath.Join(root.Path, entry.Name()),
				SizeBytes: info.Size(),
			})
		}
		return found, nil
	}

	var found []domain.ScannedFile
	err := filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Debug("scan skip", "path", path, "err", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !isPDF(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		found = append(found, domain.ScannedFile{Path: path, SizeBytes: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
