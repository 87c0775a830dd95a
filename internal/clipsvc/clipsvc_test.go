package clipsvc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeBackend struct {
	mu      sync.Mutex
	initErr error
	inits   int
	writes  []Offer
	supers  []chan struct{}
}

func (f *fakeBackend) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	return f.initErr
}

func (f *fakeBackend) Write(mime string, data []byte) (<-chan struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, Offer{MIME: mime, Data: data})
	ch := make(chan struct{})
	// A new write supersedes the previous offer, matching the system
	// clipboard's behavior.
	if len(f.supers) > 0 {
		close(f.supers[len(f.supers)-1])
	}
	f.supers = append(f.supers, ch)
	return ch, nil
}

func (f *fakeBackend) supersede(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.supers[i])
}

func TestPublishHoldsOffer(t *testing.T) {
	fb := &fakeBackend{}
	s := New(fb, nil)

	off, err := s.Publish("image/png", []byte("payload"))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	cur, active := s.Current()
	if !active {
		t.Fatal("offer should be active after publish")
	}
	if cur.Seq != off.Seq || cur.MIME != "image/png" || string(cur.Data) != "payload" {
		t.Errorf("current = %+v", cur)
	}
}

func TestPublishIsAtomicReplacement(t *testing.T) {
	fb := &fakeBackend{}
	s := New(fb, nil)

	first, err := s.Publish("image/png", []byte("one"))
	if err != nil {
		t.Fatalf("publish one: %v", err)
	}
	second, err := s.Publish("image/png", []byte("two"))
	if err != nil {
		t.Fatalf("publish two: %v", err)
	}
	if second.Seq <= first.Seq {
		t.Errorf("sequence did not advance: %d then %d", first.Seq, second.Seq)
	}

	// The backend always received complete payloads, never a mix.
	if len(fb.writes) != 2 || string(fb.writes[0].Data) != "one" || string(fb.writes[1].Data) != "two" {
		t.Errorf("backend writes = %+v", fb.writes)
	}

	cur, active := s.Current()
	if !active || string(cur.Data) != "two" {
		t.Errorf("current after replacement = %+v active=%v", cur, active)
	}
}

func TestSupersededOfferRetires(t *testing.T) {
	fb := &fakeBackend{}
	s := New(fb, nil)

	off, err := s.Publish("text/plain", []byte("x"))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	fb.supersede(0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Wait(ctx, off.Seq); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if _, active := s.Current(); active {
		t.Error("offer still active after supersession")
	}
}

func TestWaitOnReplacedOfferReturnsImmediately(t *testing.T) {
	fb := &fakeBackend{}
	s := New(fb, nil)

	first, err := s.Publish("image/png", []byte("one"))
	if err != nil {
		t.Fatalf("publish one: %v", err)
	}
	if _, err := s.Publish("image/png", []byte("two")); err != nil {
		t.Fatalf("publish two: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Wait(ctx, first.Seq); err != nil {
		t.Errorf("wait on replaced offer: %v", err)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	fb := &fakeBackend{}
	s := New(fb, nil)

	off, err := s.Publish("image/png", []byte("held"))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := s.Wait(ctx, off.Seq); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want deadline exceeded", err)
	}
}

func TestInitFailurePropagates(t *testing.T) {
	wantErr := errors.New("no display")
	fb := &fakeBackend{initErr: wantErr}
	s := New(fb, nil)

	if _, err := s.Publish("image/png", nil); !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want init error", err)
	}
	if _, err := s.Publish("image/png", nil); !errors.Is(err, wantErr) {
		t.Fatalf("second publish: got %v, want cached init error", err)
	}
	if fb.inits != 1 {
		t.Errorf("init called %d times, want once", fb.inits)
	}
}

func TestPublishCopiesPayload(t *testing.T) {
	fb := &fakeBackend{}
	s := New(fb, nil)

	data := []byte("mutable")
	if _, err := s.Publish("text/plain", data); err != nil {
		t.Fatalf("publish: %v", err)
	}
	data[0] = 'X'

	cur, _ := s.Current()
	if string(cur.Data) != "mutable" {
		t.Errorf("offer data changed after caller mutation: %q", cur.Data)
	}
}
