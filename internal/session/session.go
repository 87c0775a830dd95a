// Package session implements the per-output capture state machine.
// Every compositor event is applied as an explicit transition over a
// small state enum, so the protocol choreography is testable without a
// live connection.
package session

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/example/waycapture/internal/bufferpool"
	"github.com/example/waycapture/internal/frame"
)

// State of a capture session. Transitions only move forward except for
// the single allowed retry, which returns to StateRequested.
type State int

const (
	StateRequested State = iota
	StateBufferAllocated
	StateCopyIssued
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateBufferAllocated:
		return "buffer-allocated"
	case StateCopyIssued:
		return "copy-issued"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FailReason explains a terminal StateFailed.
type FailReason int

const (
	FailNone FailReason = iota
	// FailCompositor: the compositor reported the copy failed twice.
	FailCompositor
	// FailAllocation: no backend could provide a buffer.
	FailAllocation
	// FailReadback: GPU readback failed and the shm retry failed too.
	FailReadback
	// FailProtocolViolation: an event arrived in the wrong state.
	FailProtocolViolation
	// FailCancelled: the owning request was abandoned.
	FailCancelled
)

func (r FailReason) String() string {
	switch r {
	case FailNone:
		return "none"
	case FailCompositor:
		return "compositor"
	case FailAllocation:
		return "allocation"
	case FailReadback:
		return "readback"
	case FailProtocolViolation:
		return "protocol-violation"
	case FailCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// ErrProtocolViolation is returned when a compositor event arrives out
// of the defined state order. The session is terminally failed and is
// never retried.
var ErrProtocolViolation = errors.New("session: event out of state order")

// Session drives one output through a single capture. All methods must
// be called from the event loop that owns the Wayland connection.
type Session struct {
	Output frame.Output

	pool         *bufferpool.Pool
	preferDmabuf bool
	log          *log.Logger

	state   State
	buf     *bufferpool.Buffer
	retried bool

	yInvert bool
	damage  frame.Region
	reason  FailReason
}

// New builds a session in StateRequested. preferDmabuf selects GPU
// buffers when the pool can provide them; shared memory remains the
// fallback either way.
func New(out frame.Output, pool *bufferpool.Pool, preferDmabuf bool, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		Output:       out,
		pool:         pool,
		preferDmabuf: preferDmabuf,
		log:          logger.With("output", out.Name),
		state:        StateRequested,
	}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Terminal reports whether the session reached Ready or Failed.
func (s *Session) Terminal() bool {
	return s.state == StateReady || s.state == StateFailed
}

// PrefersDmabuf reports whether the next allocation should try the GPU
// backend. A readback retry turns this off.
func (s *Session) PrefersDmabuf() bool { return s.preferDmabuf }

// Buffer returns the buffer the session currently owns, nil once
// released or before allocation.
func (s *Session) Buffer() *bufferpool.Buffer { return s.buf }

// YInvert reports whether the completed frame is stored bottom-up.
// Only meaningful in StateReady.
func (s *Session) YInvert() bool { return s.yInvert }

// Damage returns the damage region accumulated for the completed
// frame. Fresh captures are treated as full-frame regardless.
func (s *Session) Damage() frame.Region { return s.damage }

// FailReason explains a StateFailed session.
func (s *Session) FailReason() FailReason { return s.reason }

// HandleBufferAnnounced applies the compositor's format announcement:
// Requested → BufferAllocated. A dmabuf allocation failure falls back
// to shared memory before the session gives up.
func (s *Session) HandleBufferAnnounced(f frame.Format) error {
	if s.state != StateRequested {
		return s.violate("buffer announcement")
	}

	backend := bufferpool.BackendShm
	if s.preferDmabuf {
		backend = bufferpool.BackendDmabuf
	}
	buf, err := s.pool.Acquire(backend, f)
	if err != nil && backend == bufferpool.BackendDmabuf {
		s.log.Warn("dmabuf allocation failed, falling back to shm", "err", err)
		buf, err = s.pool.Acquire(bufferpool.BackendShm, f)
	}
	if err != nil {
		s.fail(FailAllocation)
		return fmt.Errorf("allocate capture buffer for %s: %w", s.Output.Name, err)
	}

	s.buf = buf
	s.state = StateBufferAllocated
	return nil
}

// HandleCopySubmitted records that the buffer was handed back to the
// compositor: BufferAllocated → CopyIssued.
func (s *Session) HandleCopySubmitted() error {
	if s.state != StateBufferAllocated {
		return s.violate("copy submission")
	}
	s.state = StateCopyIssued
	return nil
}

// HandleCopyReady applies copy completion: CopyIssued → Ready. The
// buffer's pixels are immutable from this point.
func (s *Session) HandleCopyReady(yInvert bool, damage frame.Region) error {
	if s.state != StateCopyIssued {
		return s.violate("copy completion")
	}
	s.yInvert = yInvert
	s.damage = damage
	s.state = StateReady
	return nil
}

// HandleCopyFailed applies a compositor-reported copy failure. The
// first failure returns the session to StateRequested with the buffer
// discarded so the caller can re-request the frame; a second failure
// is terminal. retry reports whether the caller should re-request.
func (s *Session) HandleCopyFailed() (retry bool, err error) {
	if s.state != StateCopyIssued {
		return false, s.violate("copy failure")
	}
	if s.retried {
		s.fail(FailCompositor)
		return false, nil
	}
	s.retried = true
	s.discardBuffer()
	s.state = StateRequested
	s.log.Warn("copy failed, retrying once")
	return true, nil
}

// HandleReadbackFailed applies a GPU readback failure after a
// completed dmabuf copy. The retry forces shared memory. A session
// that already used its retry fails terminally with FailReadback.
func (s *Session) HandleReadbackFailed() (retry bool, err error) {
	if s.state != StateCopyIssued && s.state != StateReady {
		return false, s.violate("readback failure")
	}
	if s.retried {
		s.fail(FailReadback)
		return false, nil
	}
	s.retried = true
	s.preferDmabuf = false
	s.discardBuffer()
	s.yInvert = false
	s.damage = frame.Region{}
	s.state = StateRequested
	s.log.Warn("gpu readback failed, retrying with shm")
	return true, nil
}

// Cancel terminally fails a non-terminal session with FailCancelled
// and returns its buffer to the pool. Cancelling a terminal session is
// a no-op.
func (s *Session) Cancel() {
	if s.Terminal() {
		return
	}
	s.fail(FailCancelled)
}

// ReleaseBuffer returns the session's buffer to the pool once its
// pixels have been consumed.
func (s *Session) ReleaseBuffer() {
	if s.buf == nil {
		return
	}
	if err := s.pool.Release(s.buf); err != nil {
		s.log.Warn("releasing session buffer", "err", err)
	}
	s.buf = nil
}

func (s *Session) discardBuffer() {
	if s.buf == nil {
		return
	}
	if err := s.pool.Release(s.buf); err != nil {
		s.log.Warn("discarding session buffer", "err", err)
	}
	s.buf = nil
}

func (s *Session) fail(reason FailReason) {
	s.discardBuffer()
	s.reason = reason
	s.state = StateFailed
}

func (s *Session) violate(event string) error {
	prev := s.state
	s.fail(FailProtocolViolation)
	return fmt.Errorf("%s in state %s: %w", event, prev, ErrProtocolViolation)
}
