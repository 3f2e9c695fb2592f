package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ayash-Bera/geonews/backend/internal/models"
	"github.com/Ayash-Bera/geonews/backend/pkg/utils"
)

// FileArchive writes each report to a markdown file under dir.
type FileArchive struct {
	dir string
}

func NewFileArchive(dir string) (*FileArchive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FileArchive{dir: dir}, nil
}

// Path returns the file a report is written to.
func (a *FileArchive) Path(report Report) string {
	name := fmt.Sprintf("news_report_%s_%s.md",
		utils.SafeFileName(report.Location.Name),
		report.GeneratedAt.Format("20060102_150405"))
	if report.Mode == models.ModeStructured {
		name = strings.TrimSuffix(name, ".md") + "_structured.md"
	}
	return filepath.Join(a.dir, name)
}

func (a *FileArchive) Save(ctx context.Context, report Report) error {
	if err := report.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# News Report for %s\n", report.Location.Name)
	fmt.Fprintf(&b, "Generated at: %s\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Coordinates: %g, %g (radius %gkm)\n", report.Location.Latitude, report.Location.Longitude, report.Location.Radius)
	fmt.Fprintf(&b, "Mode: %s, prompt %s, articles %d, status %s\n\n", report.Mode, report.PromptVersion, report.ArticleCount, report.Status)
	b.WriteString(report.Content)
	b.WriteString("\n")

	if err := os.WriteFile(a.Path(report), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (a *FileArchive) Ping(context.Context) error {
	info, err := os.Stat(a.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", a.dir)
	}
	return nil
}

func (a *FileArchive) Driver() string { return DriverFile }
