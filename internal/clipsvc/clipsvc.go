// Package clipsvc keeps the most recent capture servable on the
// clipboard. The compositor's clipboard extension does the wire
// serving; this service owns the current offer and replaces it
// atomically when a new capture targets the clipboard.
package clipsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Backend hands a payload to the system clipboard. Write returns a
// channel that closes when another client supersedes the offer.
type Backend interface {
	Init() error
	Write(mime string, data []byte) (<-chan struct{}, error)
}

// Offer is one published clipboard payload. Data is immutable once
// published.
type Offer struct {
	MIME string
	Data []byte
	Seq  uint64
}

// Service is a long-lived holder of the active clipboard offer. It
// outlives individual capture requests and never blocks them.
type Service struct {
	backend Backend
	log     *log.Logger

	initOnce sync.Once
	initErr  error

	mu       sync.Mutex
	seq      uint64
	cur      Offer
	active   bool
	released chan struct{}
}

// New builds a service over the given backend.
func New(backend Backend, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{backend: backend, log: logger}
}

func (s *Service) ensureInit() error {
	s.initOnce.Do(func() {
		s.initErr = s.backend.Init()
	})
	return s.initErr
}

// Publish replaces the active offer with a new payload. Replacement is
// atomic for requesters: the backend is handed the complete payload
// before the previous offer is dropped.
func (s *Service) Publish(mime string, data []byte) (Offer, error) {
	if err := s.ensureInit(); err != nil {
		return Offer{}, fmt.Errorf("clipboard init: %w", err)
	}

	owned := make([]byte, len(data))
	copy(owned, data)

	super, err := s.backend.Write(mime, owned)
	if err != nil {
		return Offer{}, fmt.Errorf("clipboard write: %w", err)
	}

	s.mu.Lock()
	s.seq++
	s.cur = Offer{MIME: mime, Data: owned, Seq: s.seq}
	s.active = true
	s.released = make(chan struct{})
	off := s.cur
	rel := s.released
	s.mu.Unlock()

	go s.watch(off.Seq, super, rel)
	return off, nil
}

// watch retires the offer once another clipboard owner supersedes it.
func (s *Service) watch(seq uint64, super <-chan struct{}, released chan struct{}) {
	<-super
	s.mu.Lock()
	if s.cur.Seq == seq {
		s.active = false
		s.log.Debug("clipboard offer superseded", "seq", seq)
	}
	s.mu.Unlock()
	close(released)
}

// Current returns the active offer, if any.
func (s *Service) Current() (Offer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur, s.active
}

// Wait blocks until the given offer is superseded or the context is
// cancelled. Callers that must keep the process alive while the offer
// is served use this after Publish.
func (s *Service) Wait(ctx context.Context, seq uint64) error {
	s.mu.Lock()
	if s.cur.Seq != seq || !s.active {
		s.mu.Unlock()
		return nil
	}
	rel := s.released
	s.mu.Unlock()

	select {
	case <-rel:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
