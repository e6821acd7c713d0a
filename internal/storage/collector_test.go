package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"dreamworld/internal/domain"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "outputs"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return NewCollector(store)
}

func TestPersistNamesAndLimit(t *testing.T) {
	collector := newTestCollector(t)
	images := []domain.GeneratedImage{
		{Data: []byte{1}, MIMEType: "image/png"},
		{Data: []byte{2}, MIMEType: "image/png"},
		{Data: []byte{3}, MIMEType: "image/png"},
	}

	paths, err := collector.Persist(context.Background(), images, "Magical Forest", "20240101_120000", 2)
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	want := []string{
		"dream_magical_forest_20240101_120000_1.png",
		"dream_magical_forest_20240101_120000_2.png",
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %d entries", paths, len(want))
	}
	for i := range want {
		if filepath.Base(paths[i]) != want[i] {
			t.Fatalf("paths[%d] = %q, want %q", i, filepath.Base(paths[i]), want[i])
		}
	}
	names, err := collector.Store().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("directory = %v, want 2 files", names)
	}
}

func TestPersistClearsPreviousBatch(t *testing.T) {
	collector := newTestCollector(t)
	ctx := context.Background()
	first := []domain.GeneratedImage{{Data: []byte{1}}, {Data: []byte{2}}}
	if _, err := collector.Persist(ctx, first, "Cloud City", "20240101_120000", 2); err != nil {
		t.Fatalf("Persist(first) error = %v", err)
	}
	if _, err := collector.Persist(ctx, []domain.GeneratedImage{{Data: []byte{9}, MIMEType: "image/jpeg"}}, "Toy World", "20240102_090000", 4); err != nil {
		t.Fatalf("Persist(second) error = %v", err)
	}
	names, err := collector.Store().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 1 || names[0] != "dream_toy_world_20240102_090000_1.jpg" {
		t.Fatalf("directory = %v, want only the second batch", names)
	}
}

func TestPersistZeroLimit(t *testing.T) {
	collector := newTestCollector(t)
	paths, err := collector.Persist(context.Background(), []domain.GeneratedImage{{Data: []byte{1}}}, "x", "t", 0)
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("paths = %v, want none", paths)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Magical Forest", want: "magical_forest"},
		{in: "(No style)", want: "(no_style)"},
		{in: "Photographic (Default)", want: "photographic_(default)"},
		{in: "Underwater/World", want: "underwater_world"},
		{in: "ÉTÉ Magique", want: "été_magique"},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := Timestamp(ts); got != "20240101_120000" {
		t.Fatalf("Timestamp() = %q", got)
	}
}
