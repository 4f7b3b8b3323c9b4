package iec104

import "testing"

func TestLinkState_SequenceMonotonicity(t *testing.T) {
	l := newLinkState()
	for i := uint16(0); i < 5; i++ {
		if got := l.nextSend(); got != i {
			t.Fatalf("nextSend() = %d, want %d", got, i)
		}
	}
}

func TestLinkState_SequenceWrap(t *testing.T) {
	l := newLinkState()
	l.sendSeq = seqMask
	if got := l.nextSend(); got != seqMask {
		t.Fatalf("nextSend() = %d, want %d", got, seqMask)
	}
	if got := l.nextSend(); got != 0 {
		t.Fatalf("nextSend() after wrap = %d, want 0", got)
	}
}

func TestLinkState_StateTransitions(t *testing.T) {
	l := newLinkState()
	if l.get() != LinkConnected {
		t.Fatalf("initial state = %s, want CONNECTED", l.get())
	}
	l.set(LinkStarted)
	if l.get() != LinkStarted {
		t.Fatalf("state after set(STARTED) = %s, want STARTED", l.get())
	}
	l.set(LinkStopped)
	if l.get() != LinkStopped {
		t.Fatalf("state after set(STOPPED) = %s, want STOPPED", l.get())
	}
}

func TestLinkState_CurrentRecvDoesNotAdvance(t *testing.T) {
	l := newLinkState()
	l.observeRecv()
	first := l.currentRecv()
	second := l.currentRecv()
	if first != second {
		t.Fatalf("currentRecv() not idempotent: %d != %d", first, second)
	}
	if first != 1 {
		t.Fatalf("currentRecv() = %d, want 1", first)
	}
}
