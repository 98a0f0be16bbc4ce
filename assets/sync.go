package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"menugen/drive"
	"menugen/menu"
)

// RawMaxBytes caps a single raw image download.
const RawMaxBytes = 4 << 20

// Syncer downloads the Drive images referenced by menu rows and writes the
// raw bytes plus a derived web JPEG per item.
type Syncer struct {
	Drive        *drive.Client
	RawDir       string
	WebDir       string
	ManifestPath string
	MaxWebBytes  int64
	MaxDimension int
	Logger       *slog.Logger
}

// Sync processes every row that carries a name, an image reference and a
// file id. Validation is not the syncer's business; it runs before
// validation so the size check has real files to measure. Failures on
// individual images are logged and skipped so one bad file does not block
// the rest.
func (s *Syncer) Sync(ctx context.Context, rows []menu.Row) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for _, d := range []string{s.RawDir, s.WebDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("create images directory: %w", err)
		}
	}

	manifest := LoadManifest(s.ManifestPath)

	for _, row := range rows {
		if row.Name == "" || row.Image == "" {
			continue
		}
		if row.FileID == "" {
			logger.Warn("no file id for image, skipping",
				slog.String("name", row.Name), slog.String("image", row.Image))
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// Always refetch so changed bytes behind the same file id are seen.
		raw, err := s.Drive.Download(ctx, row.FileID, RawMaxBytes)
		if err != nil {
			logger.Warn("image download failed",
				slog.String("name", row.Name), slog.String("error", err.Error()))
			continue
		}

		sum := sha256.Sum256(raw)
		digest := hex.EncodeToString(sum[:])
		webName := menu.Slugify(row.Name) + ".jpg"
		webPath := filepath.Join(s.WebDir, webName)

		entry, seen := manifest.Images[row.Image]
		if seen && entry.RawSHA256 == digest && fileExists(webPath) {
			logger.Debug("image unchanged", slog.String("image", row.Image))
			continue
		}

		if err := os.WriteFile(filepath.Join(s.RawDir, row.Image), raw, 0644); err != nil {
			return fmt.Errorf("store raw image %s: %w", row.Image, err)
		}

		img, err := DecodeImage(raw)
		if err != nil {
			logger.Warn("image decode failed",
				slog.String("image", row.Image), slog.String("error", err.Error()))
			continue
		}
		web, err := EncodeWeb(img, s.MaxDimension, s.MaxWebBytes)
		if err != nil {
			logger.Warn("web image encode failed",
				slog.String("image", row.Image), slog.String("error", err.Error()))
			continue
		}
		if err := os.WriteFile(webPath, web, 0644); err != nil {
			return fmt.Errorf("store web image %s: %w", webName, err)
		}

		manifest.Images[row.Image] = ImageEntry{
			RawSHA256: digest,
			WebName:   webName,
			WebBytes:  int64(len(web)),
		}
		logger.Info("image synced",
			slog.String("image", row.Image),
			slog.String("web", webName),
			slog.Int("bytes", len(web)))
	}

	if err := manifest.Save(s.ManifestPath); err != nil {
		return fmt.Errorf("save image manifest: %w", err)
	}
	return nil
}

// ResolveFileIDs fills blank file_id cells by matching the image display
// name against a Drive folder listing. It returns the number of rows
// updated.
func ResolveFileIDs(rows []menu.Row, files []drive.File) int {
	byName := drive.IndexByName(files)
	updated := 0
	for i := range rows {
		if rows[i].FileID != "" || rows[i].Image == "" {
			continue
		}
		if id, ok := byName[rows[i].Image]; ok {
			rows[i].FileID = id
			updated++
		}
	}
	return updated
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
