package hub

import "testing"

func TestEnqueueFrameNeverBlocks(t *testing.T) {
	h := newTestHub(&fakeMatchmaker{})
	s := newTestSession(h, "s1", 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendOverflowLimit*2; i++ {
			s.enqueueFrame([]byte("frame"))
		}
		close(done)
	}()
	<-done
}

func TestPersistentOverflowClosesSession(t *testing.T) {
	h := newTestHub(&fakeMatchmaker{})
	s := newTestSession(h, "s1", 1)

	s.enqueueFrame([]byte("first"))
	for i := 0; i < sendOverflowLimit; i++ {
		s.enqueueFrame([]byte("overflow"))
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if !closed {
		t.Fatalf("session not closed after %d consecutive drops", sendOverflowLimit)
	}
}

func TestSuccessfulSendResetsOverflow(t *testing.T) {
	h := newTestHub(&fakeMatchmaker{})
	s := newTestSession(h, "s1", 1)

	s.enqueueFrame([]byte("first"))
	for i := 0; i < sendOverflowLimit-1; i++ {
		s.enqueueFrame([]byte("overflow"))
	}
	<-s.send // the consumer catches up
	s.enqueueFrame([]byte("second"))

	s.mu.Lock()
	overflow, closed := s.overflow, s.closed
	s.mu.Unlock()
	if closed {
		t.Fatalf("session closed despite the consumer catching up")
	}
	if overflow != 0 {
		t.Fatalf("overflow = %d, want reset to 0", overflow)
	}
}

func TestClosedSessionDropsFrames(t *testing.T) {
	h := newTestHub(&fakeMatchmaker{})
	s := newTestSession(h, "s1", 4)

	s.close()
	s.close() // idempotent
	s.enqueueFrame([]byte("late"))

	assertNoFrame(t, s)
}

func TestAttachmentTransitions(t *testing.T) {
	h := newTestHub(&fakeMatchmaker{})
	s := newTestSession(h, "s1", 1)

	if s.State() != StateUnattached {
		t.Fatalf("initial state = %v", s.State())
	}

	s.attachMatch("m1", 1)
	state, matchID, slot := s.attachment()
	if state != StateInMatch || matchID != "m1" || slot != 1 {
		t.Fatalf("attachment = (%v, %q, %d)", state, matchID, slot)
	}

	s.attachSpectator("m2")
	state, matchID, slot = s.attachment()
	if state != StateSpectating || matchID != "m2" || slot != -1 {
		t.Fatalf("attachment = (%v, %q, %d)", state, matchID, slot)
	}

	s.detach()
	if s.State() != StateUnattached {
		t.Fatalf("state after detach = %v", s.State())
	}
}
