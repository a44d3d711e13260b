package memory

import (
	"context"
	"fmt"
	"sync"

	"orario/internal/sink"
)

// Upload is one recorded call.
type Upload struct {
	Name    string
	Content []byte
}

// Sink records uploads in memory; tests and credential-less local runs use it
// in place of Google Drive.
type Sink struct {
	mu      sync.Mutex
	uploads []Upload
	err     error
}

var _ sink.Uploader = (*Sink)(nil)

func New() *Sink {
	return &Sink{}
}

// Fail makes every subsequent Upload return err.
func (s *Sink) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Upload implements sink.Uploader.
func (s *Sink) Upload(_ context.Context, name string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.uploads = append(s.uploads, Upload{Name: name, Content: append([]byte(nil), content...)})
	return fmt.Sprintf("mem:%d", len(s.uploads)), nil
}

// Uploads returns a copy of everything uploaded so far.
func (s *Sink) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}
