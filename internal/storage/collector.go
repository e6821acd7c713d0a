package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dreamworld/internal/domain"
)

// TimestampLayout formats the batch timestamp embedded in output names.
const TimestampLayout = "20060102_150405"

// Collector replaces the output batch in its working directory.
type Collector struct {
	store *FileStore
}

// NewCollector builds a Collector writing into store.
func NewCollector(store *FileStore) *Collector {
	return &Collector{store: store}
}

// Store exposes the output working directory.
func (c *Collector) Store() *FileStore {
	return c.store
}

// Timestamp renders t in TimestampLayout.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Persist clears the output directory and writes at most limit images named
// dream_<slug>_<timestamp>_<n>.<ext> with n starting at 1.
func (c *Collector) Persist(ctx context.Context, images []domain.GeneratedImage, themeName, timestamp string, limit int) ([]string, error) {
	if err := c.store.Clear(ctx); err != nil {
		return nil, domain.IOError("clear output directory", err)
	}
	if limit < 0 {
		limit = 0
	}
	if limit > len(images) {
		limit = len(images)
	}
	slug := Slugify(themeName)
	paths := make([]string, 0, limit)
	for i, img := range images[:limit] {
		name := OutputName(slug, timestamp, i+1, img.MIMEType)
		path, err := c.store.Write(ctx, name, img.Data)
		if err != nil {
			return nil, domain.IOError("write output image", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// OutputName builds the file name of the index-th (1-based) output image.
func OutputName(slug, timestamp string, index int, mime string) string {
	return fmt.Sprintf("dream_%s_%s_%d%s", slug, timestamp, index, extensionForMIME(mime))
}

// Slugify lowercases name and replaces spaces with underscores. Path
// separators are replaced too so a theme name cannot leave the directory.
func Slugify(name string) string {
	slug := cases.Lower(language.Und).String(name)
	return strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(slug)
}

func extensionForMIME(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
