package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/spec-kit/employee-directory/pkg/util/errorutil"
)

type recordingStore struct {
	obj  Object
	body []byte
	url  string
	err  error
}

func (s *recordingStore) Put(_ context.Context, obj Object, body io.Reader) (string, error) {
	s.obj = obj
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.body = data
	if s.err != nil {
		return "", s.err
	}
	return s.url + "/" + obj.Key(), nil
}

func TestAttachmentService_Attach(t *testing.T) {
	t.Parallel()

	store := &recordingStore{url: "https://cdn.example.com"}
	svc := NewAttachmentService(store, 1024, nil)

	url, err := svc.Attach(context.Background(), Upload{
		FileName:    "C:\\photos\\Ada Lovelace.PNG",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("\x89PNG"),
	})
	if err != nil {
		t.Fatalf("Attach returned error: %v", err)
	}
	if store.obj.Format != "png" {
		t.Fatalf("expected png format, got %s", store.obj.Format)
	}
	if !strings.HasPrefix(store.obj.Name, "Ada-Lovelace-") {
		t.Fatalf("unexpected object name %s", store.obj.Name)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Fatalf("expected url ending in .png, got %s", url)
	}
	if string(store.body) != "\x89PNG" {
		t.Fatalf("unexpected stored body %q", store.body)
	}
}

func TestAttachmentService_AttachRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		upload Upload
		want   error
	}{
		{name: "gif", upload: Upload{FileName: "a.gif", ContentType: "image/gif", Body: strings.NewReader("x")}, want: ErrUnsupportedMedia},
		{name: "missing type", upload: Upload{FileName: "a.png", Body: strings.NewReader("x")}, want: ErrUnsupportedMedia},
		{name: "declared too large", upload: Upload{FileName: "a.jpg", ContentType: "image/jpeg", Size: 11, Body: strings.NewReader("x")}, want: ErrImageTooLarge},
		{name: "body too large", upload: Upload{FileName: "a.jpg", ContentType: "image/jpg", Size: 1, Body: strings.NewReader(strings.Repeat("x", 20))}, want: ErrImageTooLarge},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewAttachmentService(&recordingStore{}, 10, nil)
			_, err := svc.Attach(context.Background(), tt.upload)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAttachmentService_StorageUnavailable(t *testing.T) {
	t.Parallel()

	svc := NewAttachmentService(&recordingStore{err: errors.New("dial tcp: refused")}, 0, nil)
	_, err := svc.Attach(context.Background(), Upload{FileName: "a.jpeg", ContentType: "image/jpeg; charset=binary", Body: strings.NewReader("x")})

	de := errorutil.ToDomainError(err)
	if de.Code != errorutil.CodeStorageUnavailable {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
	if de.HTTPStatus != 500 {
		t.Fatalf("expected status 500, got %d", de.HTTPStatus)
	}
}

func TestObjectName(t *testing.T) {
	t.Parallel()

	for in, prefix := range map[string]string{
		"photo.jpg":       "photo-",
		"../../etc/x.png": "x-",
		"???.png":         "image-",
		"":                "image-",
	} {
		if got := objectName(in); !strings.HasPrefix(got, prefix) {
			t.Errorf("objectName(%q) = %q, want prefix %q", in, got, prefix)
		}
	}
	if objectName("a.png") == objectName("a.png") {
		t.Error("expected distinct names for repeated uploads")
	}
}

func TestLocalStore_Put(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir, "http://localhost:8080/uploads/")
	if err != nil {
		t.Fatalf("NewLocalStore returned error: %v", err)
	}

	url, err := store.Put(context.Background(), Object{Name: "ada-1", Format: "png"}, bytes.NewReader([]byte("img")))
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if url != "http://localhost:8080/uploads/ada-1.png" {
		t.Fatalf("unexpected url %s", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "ada-1.png"))
	if err != nil {
		t.Fatalf("read stored image: %v", err)
	}
	if string(data) != "img" {
		t.Fatalf("unexpected content %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the stored image in dir, got %d entries", len(entries))
	}
}

func TestLocalStore_PutFailedBodyLeavesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost/uploads")
	if err != nil {
		t.Fatalf("NewLocalStore returned error: %v", err)
	}

	body := &limitedReader{r: strings.NewReader("too long"), max: 2}
	if _, err := store.Put(context.Background(), Object{Name: "x", Format: "jpg"}, body); err == nil {
		t.Fatal("expected error for oversized body")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries", len(entries))
	}
}

type fakeCloudinary struct {
	params uploader.UploadParams
	result *uploader.UploadResult
	err    error
}

func (f *fakeCloudinary) Upload(_ context.Context, _ interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = params
	return f.result, f.err
}

func TestCloudinaryStore_Put(t *testing.T) {
	t.Parallel()

	fake := &fakeCloudinary{result: &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/uploads/ada-1.png"}}
	store := &CloudinaryStore{uploader: fake, folder: "uploads"}

	url, err := store.Put(context.Background(), Object{Name: "ada-1", Format: "png"}, strings.NewReader("img"))
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if url != fake.result.SecureURL {
		t.Fatalf("unexpected url %s", url)
	}
	if fake.params.PublicID != "ada-1" || fake.params.Folder != "uploads" || fake.params.Format != "png" {
		t.Fatalf("unexpected upload params %+v", fake.params)
	}
}

func TestCloudinaryStore_PutErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fake *fakeCloudinary
	}{
		{name: "transport", fake: &fakeCloudinary{err: errors.New("timeout")}},
		{name: "api error", fake: &fakeCloudinary{result: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid Signature"}}}},
		{name: "nil result", fake: &fakeCloudinary{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := &CloudinaryStore{uploader: tt.fake, folder: "uploads"}
			if _, err := store.Put(context.Background(), Object{Name: "a", Format: "jpg"}, strings.NewReader("x")); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
