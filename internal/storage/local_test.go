package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// makeFileHeader builds a real multipart.FileHeader by round-tripping a
// multipart body through the stdlib parser.
func makeFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestSaveAndDelete(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	fh := makeFileHeader(t, "rapport.pdf", "pdf bytes")
	stored, err := ls.Save(fh, "documents")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(stored.Path, "documents/") || !strings.HasSuffix(stored.Path, ".pdf") {
		t.Fatalf("unexpected stored path %q", stored.Path)
	}
	if stored.Filename == "rapport.pdf" {
		t.Fatal("stored name must be generated, not the original filename")
	}

	b, err := os.ReadFile(ls.FullPath(stored.Path))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "pdf bytes" {
		t.Fatalf("content mismatch: %q", b)
	}

	if err := ls.Delete(stored.Path); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(ls.FullPath(stored.Path)); !os.IsNotExist(err) {
		t.Fatal("file should be gone")
	}
	// Deleting twice is fine.
	if err := ls.Delete(stored.Path); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestFullPathStaysUnderBase(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	got := ls.FullPath("../../etc/passwd")
	if !strings.HasPrefix(got, base) {
		t.Fatalf("path escaped storage root: %q", got)
	}
}
