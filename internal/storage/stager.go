package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"dreamworld/internal/domain"
	"dreamworld/internal/infra"
)

// Upload is one user-supplied input image. Exactly one of Path or Data is
// expected; an Upload with neither is skipped.
type Upload struct {
	Path     string
	Data     []byte
	Filename string
}

// IsEmpty reports whether the upload carries no content.
func (u Upload) IsEmpty() bool {
	return strings.TrimSpace(u.Path) == "" && len(u.Data) == 0
}

// StagedName returns the file name used for the upload at position index.
func StagedName(index int) string {
	return fmt.Sprintf("uploaded_img_%d.png", index)
}

// Stager replaces the upload batch in its working directory.
type Stager struct {
	store  *FileStore
	logger *infra.Logger
}

// NewStager builds a Stager writing into store.
func NewStager(store *FileStore, logger *infra.Logger) *Stager {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Stager{store: store, logger: logger}
}

// Dir returns the upload working directory.
func (s *Stager) Dir() string {
	return s.store.BasePath()
}

// Stage clears the working directory and writes uploads in order. Empty
// entries are skipped but keep their position in the numbering, so the file
// for the third input is always uploaded_img_2.png.
func (s *Stager) Stage(ctx context.Context, uploads []Upload) ([]string, error) {
	if err := s.store.Clear(ctx); err != nil {
		return nil, domain.IOError("clear upload directory", err)
	}
	paths := make([]string, 0, len(uploads))
	for i, up := range uploads {
		if up.IsEmpty() {
			continue
		}
		var (
			data []byte
			err  error
		)
		if strings.TrimSpace(up.Path) != "" {
			data, err = s.readPath(up.Path)
		} else {
			data, err = s.normalize(up)
		}
		if err != nil {
			return nil, err
		}
		path, err := s.store.Write(ctx, StagedName(i), data)
		if err != nil {
			return nil, domain.IOError("write staged image", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SketchName is the staged file name of the optional doodle.
const SketchName = "sketch.png"

// StageSketch writes the doodle next to the staged uploads. It must run after
// Stage, which clears the directory. An empty upload stages nothing.
func (s *Stager) StageSketch(ctx context.Context, up Upload) (string, error) {
	if up.IsEmpty() {
		return "", nil
	}
	var (
		data []byte
		err  error
	)
	if strings.TrimSpace(up.Path) != "" {
		data, err = s.readPath(up.Path)
	} else {
		data, err = s.normalize(up)
	}
	if err != nil {
		return "", err
	}
	path, err := s.store.Write(ctx, SketchName, data)
	if err != nil {
		return "", domain.IOError("write sketch", err)
	}
	return path, nil
}

func (s *Stager) readPath(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("read upload %s", path), err)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, domain.IOError(fmt.Sprintf("decode upload %s", path), err)
	}
	return data, nil
}

func (s *Stager) normalize(up Upload) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(up.Data))
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("decode upload %s", displayName(up)), err)
	}
	if format == "jpeg" || format == "tiff" {
		s.logCapture(up)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, domain.IOError(fmt.Sprintf("encode upload %s", displayName(up)), err)
	}
	return buf.Bytes(), nil
}

func (s *Stager) logCapture(up Upload) {
	meta, err := imagemeta.Decode(bytes.NewReader(up.Data))
	if err != nil {
		return
	}
	evt := s.logger.Debug().Str("upload", displayName(up))
	if cameraMake := strings.TrimSpace(meta.Make); cameraMake != "" {
		evt = evt.Str("camera_make", cameraMake)
	}
	if model := strings.TrimSpace(meta.Model); model != "" {
		evt = evt.Str("camera_model", model)
	}
	if taken := meta.DateTimeOriginal(); !taken.IsZero() {
		evt = evt.Time("taken_at", taken)
	}
	evt.Msg("storage: upload capture metadata")
}

func displayName(up Upload) string {
	if up.Filename != "" {
		return up.Filename
	}
	return "bytes"
}
