// Package storage keeps uploaded files on local disk and serves them under /uploads.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"esiksha/backend/apperr"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// URLPrefix is the public path uploaded files are served from.
const URLPrefix = "/uploads/"

// Policy is the set of MIME types a form field accepts.
type Policy struct {
	Name    string
	Allowed []string
}

var (
	Images = Policy{Name: "image", Allowed: []string{
		"image/jpeg", "image/png", "image/gif",
	}}
	Documents = Policy{Name: "document", Allowed: []string{
		"image/jpeg", "image/png", "image/gif",
		"application/pdf",
		"text/plain",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}}
)

type StoredFile struct {
	URL          string
	Path         string
	OriginalName string
	Size         int64
	MimeType     string
}

// Uploader persists multipart files.
type Uploader interface {
	Save(fh *multipart.FileHeader, policy Policy) (*StoredFile, error)
	Remove(url string) error
	Resolve(url string) (string, error)
	MaxSize() int64
}

type LocalStore struct {
	dir     string
	maxSize int64
}

func NewLocalStore(dir string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxSize: maxSize}, nil
}

func (s *LocalStore) Dir() string    { return s.dir }
func (s *LocalStore) MaxSize() int64 { return s.maxSize }

func (s *LocalStore) Save(fh *multipart.FileHeader, policy Policy) (*StoredFile, error) {
	if fh.Size > s.maxSize {
		return nil, apperr.Upload(fmt.Sprintf("File size too large. Maximum size is %dMB", s.maxSize>>20))
	}

	src, err := fh.Open()
	if err != nil {
		return nil, apperr.Internal("Could not read upload", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, apperr.Internal("Could not read upload", err)
	}
	if !mimetype.EqualsAny(mtype.String(), policy.Allowed...) {
		return nil, apperr.Upload(fmt.Sprintf("Invalid file type %s for %s upload", mtype.String(), policy.Name))
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperr.Internal("Could not read upload", err)
	}

	// The extension comes from the sniffed type so /uploads never serves markup.
	name := uuid.NewString() + mtype.Extension()
	path := filepath.Join(s.dir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, apperr.Internal("Could not store upload", err)
	}

	written, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxSize {
		err = apperr.Upload(fmt.Sprintf("File size too large. Maximum size is %dMB", s.maxSize>>20))
	}
	if err != nil {
		_ = os.Remove(path)
		if apperr.Is(err, apperr.CodeUpload) {
			return nil, err
		}
		return nil, apperr.Internal("Could not store upload", err)
	}

	return &StoredFile{
		URL:          URLPrefix + name,
		Path:         path,
		OriginalName: filepath.Base(fh.Filename),
		Size:         written,
		MimeType:     mtype.String(),
	}, nil
}

// Resolve maps a public /uploads URL back to a path inside the upload dir.
func (s *LocalStore) Resolve(url string) (string, error) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", apperr.NotFound("File not found")
	}
	name := filepath.Base(strings.TrimPrefix(url, URLPrefix))
	if name == "." || name == string(filepath.Separator) {
		return "", apperr.NotFound("File not found")
	}
	return filepath.Join(s.dir, name), nil
}

// Remove deletes a stored file; missing files are ignored.
func (s *LocalStore) Remove(url string) error {
	path, err := s.Resolve(url)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
