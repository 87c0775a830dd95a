package session

import (
	"errors"
	"testing"

	"github.com/example/waycapture/internal/bufferpool"
	"github.com/example/waycapture/internal/frame"
)

func testOutput() frame.Output {
	return frame.Output{
		Name:        "DP-1",
		Logical:     frame.Region{X: 0, Y: 0, Width: 1920, Height: 1080},
		PixelWidth:  1920,
		PixelHeight: 1080,
		Scale:       1,
	}
}

func testFormat() frame.Format {
	return frame.Format{
		Pixel:    frame.FormatXRGB8888,
		Width:    64,
		Height:   64,
		Stride:   256,
		Modifier: frame.ModifierInvalid,
	}
}

func newTestSession(t *testing.T) (*Session, *bufferpool.Pool) {
	t.Helper()
	pool := bufferpool.NewPool(nil, nil)
	t.Cleanup(func() { pool.Close() })
	return New(testOutput(), pool, false, nil), pool
}

func TestHappyPath(t *testing.T) {
	s, _ := newTestSession(t)

	if s.State() != StateRequested {
		t.Fatalf("initial state = %v", s.State())
	}
	if err := s.HandleBufferAnnounced(testFormat()); err != nil {
		t.Fatalf("buffer announced: %v", err)
	}
	if s.State() != StateBufferAllocated {
		t.Fatalf("state after announce = %v", s.State())
	}
	if s.Buffer() == nil {
		t.Fatal("no buffer allocated")
	}
	if err := s.HandleCopySubmitted(); err != nil {
		t.Fatalf("copy submitted: %v", err)
	}
	if err := s.HandleCopyReady(true, frame.Region{Width: 64, Height: 64}); err != nil {
		t.Fatalf("copy ready: %v", err)
	}
	if s.State() != StateReady {
		t.Fatalf("state after ready = %v", s.State())
	}
	if !s.YInvert() {
		t.Error("y-invert flag lost")
	}
	s.ReleaseBuffer()
	if s.Buffer() != nil {
		t.Error("buffer not released")
	}
}

func TestOutOfOrderEventsAreProtocolViolations(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Session)
		event func(*Session) error
	}{
		{
			name:  "copy ready before announce",
			setup: func(s *Session) {},
			event: func(s *Session) error { return s.HandleCopyReady(false, frame.Region{}) },
		},
		{
			name:  "copy submitted before announce",
			setup: func(s *Session) {},
			event: func(s *Session) error { return s.HandleCopySubmitted() },
		},
		{
			name: "second announce",
			setup: func(s *Session) {
				if err := s.HandleBufferAnnounced(testFormat()); err != nil {
					panic(err)
				}
			},
			event: func(s *Session) error { return s.HandleBufferAnnounced(testFormat()) },
		},
		{
			name: "ready before submit",
			setup: func(s *Session) {
				if err := s.HandleBufferAnnounced(testFormat()); err != nil {
					panic(err)
				}
			},
			event: func(s *Session) error { return s.HandleCopyReady(false, frame.Region{}) },
		},
		{
			name: "copy failed before submit",
			setup: func(s *Session) {
				if err := s.HandleBufferAnnounced(testFormat()); err != nil {
					panic(err)
				}
			},
			event: func(s *Session) error {
				_, err := s.HandleCopyFailed()
				return err
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, pool := newTestSession(t)
			tc.setup(s)
			if err := tc.event(s); !errors.Is(err, ErrProtocolViolation) {
				t.Fatalf("got %v, want ErrProtocolViolation", err)
			}
			if s.State() != StateFailed || s.FailReason() != FailProtocolViolation {
				t.Errorf("state=%v reason=%v, want failed/protocol-violation", s.State(), s.FailReason())
			}
			if pool.Live() != 0 {
				t.Errorf("%d buffers still live after violation", pool.Live())
			}
		})
	}
}

func TestCopyFailedRetriesOnce(t *testing.T) {
	s, pool := newTestSession(t)

	if err := s.HandleBufferAnnounced(testFormat()); err != nil {
		t.Fatalf("announce: %v", err)
	}
	if err := s.HandleCopySubmitted(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	retry, err := s.HandleCopyFailed()
	if err != nil {
		t.Fatalf("first failure: %v", err)
	}
	if !retry {
		t.Fatal("first failure should request a retry")
	}
	if s.State() != StateRequested {
		t.Fatalf("state after first failure = %v", s.State())
	}
	if pool.Live() != 0 {
		t.Fatalf("buffer not returned before retry, live=%d", pool.Live())
	}

	if err := s.HandleBufferAnnounced(testFormat()); err != nil {
		t.Fatalf("re-announce: %v", err)
	}
	if err := s.HandleCopySubmitted(); err != nil {
		t.Fatalf("re-submit: %v", err)
	}
	retry, err = s.HandleCopyFailed()
	if err != nil {
		t.Fatalf("second failure: %v", err)
	}
	if retry {
		t.Error("second failure must be terminal, not retried")
	}
	if s.State() != StateFailed || s.FailReason() != FailCompositor {
		t.Errorf("state=%v reason=%v, want failed/compositor", s.State(), s.FailReason())
	}
}

func TestReadbackFailureFallsBackToShm(t *testing.T) {
	s, _ := newTestSession(t)
	s.preferDmabuf = true

	// dmabuf acquire fails (no GPU in the test pool) so the announce
	// itself already falls back to shm.
	if err := s.HandleBufferAnnounced(testFormat()); err != nil {
		t.Fatalf("announce: %v", err)
	}
	if got := s.Buffer().Backend(); got != bufferpool.BackendShm {
		t.Fatalf("backend = %v, want shm fallback", got)
	}
	if err := s.HandleCopySubmitted(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	retry, err := s.HandleReadbackFailed()
	if err != nil {
		t.Fatalf("readback failure: %v", err)
	}
	if !retry {
		t.Fatal("first readback failure should retry")
	}
	if s.preferDmabuf {
		t.Error("retry must force shared memory")
	}

	if err := s.HandleBufferAnnounced(testFormat()); err != nil {
		t.Fatalf("re-announce: %v", err)
	}
	if err := s.HandleCopySubmitted(); err != nil {
		t.Fatalf("re-submit: %v", err)
	}
	retry, err = s.HandleReadbackFailed()
	if err != nil {
		t.Fatalf("second readback failure: %v", err)
	}
	if retry {
		t.Error("second readback failure must be terminal")
	}
	if s.FailReason() != FailReadback {
		t.Errorf("reason = %v, want readback", s.FailReason())
	}
}

func TestCancelReturnsBuffer(t *testing.T) {
	s, pool := newTestSession(t)

	if err := s.HandleBufferAnnounced(testFormat()); err != nil {
		t.Fatalf("announce: %v", err)
	}
	if pool.Live() != 1 {
		t.Fatalf("live = %d, want 1", pool.Live())
	}

	s.Cancel()
	if s.State() != StateFailed || s.FailReason() != FailCancelled {
		t.Errorf("state=%v reason=%v, want failed/cancelled", s.State(), s.FailReason())
	}
	if pool.Live() != 0 {
		t.Errorf("cancelled session kept %d buffers", pool.Live())
	}

	// Cancelling a terminal session keeps its reason.
	s.Cancel()
	if s.FailReason() != FailCancelled {
		t.Errorf("reason changed on second cancel: %v", s.FailReason())
	}
}

func TestAllocationFailureIsTerminal(t *testing.T) {
	pool := bufferpool.NewPool(nil, nil)
	t.Cleanup(func() { pool.Close() })
	s := New(testOutput(), pool, false, nil)

	bad := frame.Format{Pixel: frame.FormatXRGB8888}
	if err := s.HandleBufferAnnounced(bad); err == nil {
		t.Fatal("zero-sized format should fail allocation")
	}
	if s.State() != StateFailed || s.FailReason() != FailAllocation {
		t.Errorf("state=%v reason=%v, want failed/allocation", s.State(), s.FailReason())
	}
}
