package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/", body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File["image"][0]
}

func TestSaveIcon(t *testing.T) {
	root := t.TempDir()
	store, err := NewMediaStore(root)
	if err != nil {
		t.Fatalf("new media store: %v", err)
	}

	publicPath, err := store.SaveIcon(newFileHeader(t, "burger.png", []byte("png-bytes")))
	if err != nil {
		t.Fatalf("save icon: %v", err)
	}
	if publicPath != "/media/icons/burger.png" {
		t.Fatalf("unexpected public path %q", publicPath)
	}

	saved, err := os.ReadFile(filepath.Join(root, "icons", "burger.png"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(saved) != "png-bytes" {
		t.Fatalf("unexpected file content %q", saved)
	}
}

func TestSaveIconOverwritesSameFilename(t *testing.T) {
	root := t.TempDir()
	store, err := NewMediaStore(root)
	if err != nil {
		t.Fatalf("new media store: %v", err)
	}

	if _, err := store.SaveIcon(newFileHeader(t, "logo.png", []byte("old"))); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if _, err := store.SaveIcon(newFileHeader(t, "logo.png", []byte("new"))); err != nil {
		t.Fatalf("save second: %v", err)
	}

	saved, err := os.ReadFile(filepath.Join(root, "icons", "logo.png"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(saved) != "new" {
		t.Fatalf("expected overwrite, got %q", saved)
	}
}

func TestSaveBackground(t *testing.T) {
	root := t.TempDir()
	store, err := NewMediaStore(root)
	if err != nil {
		t.Fatalf("new media store: %v", err)
	}

	publicPath, err := store.SaveBackground(newFileHeader(t, "wood.jpg", []byte("jpg")))
	if err != nil {
		t.Fatalf("save background: %v", err)
	}
	if publicPath != "/media/backgrounds/wood.jpg" {
		t.Fatalf("unexpected public path %q", publicPath)
	}
}

func TestNewMediaStoreRequiresRoot(t *testing.T) {
	if _, err := NewMediaStore(""); err == nil {
		t.Fatal("empty root accepted")
	}
}
