package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// Object is an opened image payload.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64 // -1 when unknown
}

// Source opens image payloads for one or more URL schemes.
type Source interface {
	Open(ctx context.Context, u *url.URL) (*Object, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, u *url.URL) (*Object, error)

// Open implements Source.
func (f SourceFunc) Open(ctx context.Context, u *url.URL) (*Object, error) {
	return f(ctx, u)
}

// HTTPSource loads images over HTTP(S).
type HTTPSource struct {
	client    *http.Client
	userAgent string
}

// NewHTTPSource creates an HTTP source. A nil client uses http.DefaultClient.
func NewHTTPSource(client *http.Client, userAgent string) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{client: client, userAgent: userAgent}
}

// Open implements Source.
func (s *HTTPSource) Open(ctx context.Context, u *url.URL) (*Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/jpeg,image/gif,image/*;q=0.8")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}

	return &Object{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

// FileSource loads images from the local filesystem. When root is set,
// paths are confined to it.
type FileSource struct {
	root string
}

// NewFileSource creates a file source rooted at root ("" allows any path).
func NewFileSource(root string) *FileSource {
	return &FileSource{root: root}
}

// Open implements Source.
func (s *FileSource) Open(ctx context.Context, u *url.URL) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := u.Path
	if name == "" {
		name = u.Opaque
	}
	path := name
	if s.root != "" {
		path = filepath.Join(s.root, filepath.FromSlash(filepath.Clean("/"+path)))
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("fetch: %s is a directory", name)
	}
	return &Object{Body: f, Size: info.Size()}, nil
}
