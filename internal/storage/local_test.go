package storage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"TapaalTracker/internal/config"

	"go.uber.org/zap"
)

// fileHeaders builds real multipart headers by parsing an encoded form.
func fileHeaders(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile("attachments", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write(content)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	return req.MultipartForm.File["attachments"]
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string][]byte
		wantErr error
	}{
		{"pdf ok", map[string][]byte{"letter.pdf": []byte("%PDF")}, nil},
		{"upper case ext ok", map[string][]byte{"SCAN.JPG": []byte("jpg")}, nil},
		{"exe denied", map[string][]byte{"run.exe": []byte("MZ")}, ErrFileTypeDenied},
		{"too large", map[string][]byte{"big.png": make([]byte, MaxFileSize+1)}, ErrFileTooLarge},
		{"too many", map[string][]byte{
			"a.pdf": {1}, "b.pdf": {1}, "c.pdf": {1}, "d.pdf": {1}, "e.pdf": {1}, "f.pdf": {1},
		}, ErrTooManyFiles},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(fileHeaders(t, tt.files))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAllAndRemove(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(&config.ServerConfig{UploadDir: root}, zap.NewNop(), "inward")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	saved, err := s.SaveAll("inward", fileHeaders(t, map[string][]byte{"notice.pdf": []byte("hello")}))
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("saved %d files, want 1", len(saved))
	}
	a := saved[0]
	if a.OriginalName != "notice.pdf" || a.Size != 5 || !strings.HasPrefix(a.Path, "/uploads/inward/") {
		t.Errorf("attachment = %+v", a)
	}
	onDisk := filepath.Join(root, "inward", a.Filename)
	if _, err := os.Stat(onDisk); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	s.RemoveAll(saved)
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Errorf("file still present after RemoveAll: %v", err)
	}
}
