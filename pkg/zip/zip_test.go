package zip

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
)

func TestArchiveAssetsRoundTrip(t *testing.T) {
	assets := []Asset{
		{Filename: "dream_space_adventure_20240501_143022_1.png", MIME: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
		{Filename: "notes.txt", MIME: "text/plain", Data: bytes.Repeat([]byte("dream "), 100)},
	}
	archive, err := ArchiveAssets(assets)
	if err != nil {
		t.Fatalf("ArchiveAssets() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("entries = %d, want 2", len(zr.File))
	}
	if zr.File[0].Method != zip.Store || zr.File[1].Method != zip.Deflate {
		t.Fatalf("methods = %d/%d", zr.File[0].Method, zr.File[1].Method)
	}
	for i, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		if !bytes.Equal(data, assets[i].Data) {
			t.Fatalf("%s content mismatch", f.Name)
		}
	}
}

func TestArchiveAssetsRejectsDuplicates(t *testing.T) {
	_, err := ArchiveAssets([]Asset{{Filename: "a.png"}, {Filename: "a.png"}})
	if err == nil {
		t.Fatalf("ArchiveAssets() with duplicate names error = nil")
	}
}

func TestArchiveAssetsEmpty(t *testing.T) {
	archive, err := ArchiveAssets(nil)
	if err != nil {
		t.Fatalf("ArchiveAssets() error = %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 0 {
		t.Fatalf("empty archive has %d entries", len(zr.File))
	}
}
