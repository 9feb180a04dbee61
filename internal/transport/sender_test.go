package transport

import (
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

// newLoopbackPair binds a receive socket on an ephemeral loopback port and
// returns it together with a Sender dialed at it. Broadcast semantics are
// identical apart from the destination address, which tests cannot rely on.
func newLoopbackPair(t *testing.T) (net.PacketConn, *Sender) {
	t.Helper()
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	t.Cleanup(func() { pc.Close() })

	s, err := newSender(pc.LocalAddr().String())
	if err != nil {
		t.Fatalf("newSender: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return pc, s
}

// recvOne reads a single datagram or fails after the deadline.
func recvOne(t *testing.T, pc net.PacketConn, deadline time.Duration) []byte {
	t.Helper()
	buf := make([]byte, recvBufSize)
	pc.SetReadDeadline(time.Now().Add(deadline))
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	return buf[:n]
}

func TestSendDeliversPayloadVerbatim(t *testing.T) {
	pc, s := newLoopbackPair(t)

	text := "alice: hi"
	if err := s.Send(text); err != nil {
		t.Fatalf("Send: %v", err)
	}

	got := recvOne(t, pc, 2*time.Second)
	if string(got) != text {
		t.Errorf("payload = %q, want %q", got, text)
	}
}

func TestSendAtLimit(t *testing.T) {
	pc, s := newLoopbackPair(t)

	text := strings.Repeat("x", MaxPayload)
	if err := s.Send(text); err != nil {
		t.Fatalf("Send at %d bytes: %v", MaxPayload, err)
	}

	got := recvOne(t, pc, 2*time.Second)
	if len(got) != MaxPayload {
		t.Errorf("payload length = %d, want %d", len(got), MaxPayload)
	}
}

func TestSendOverLimitRejectedLocally(t *testing.T) {
	pc, s := newLoopbackPair(t)

	err := s.Send(strings.Repeat("x", MaxPayload+1))
	var le *LengthError
	if !errors.As(err, &le) {
		t.Fatalf("Send over limit: got %v, want *LengthError", err)
	}
	if le.Size != MaxPayload+1 {
		t.Errorf("LengthError.Size = %d, want %d", le.Size, MaxPayload+1)
	}

	// No datagram may have been transmitted.
	buf := make([]byte, recvBufSize)
	pc.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if n, _, err := pc.ReadFrom(buf); err == nil {
		t.Errorf("unexpected datagram of %d bytes after rejected send", n)
	}
}

func TestSendMultibyteLimitCountsBytes(t *testing.T) {
	_, s := newLoopbackPair(t)

	// 501 two-byte runes encode to 1002 bytes: over the limit even though
	// the rune count is far below it.
	err := s.Send(strings.Repeat("я", 501))
	var le *LengthError
	if !errors.As(err, &le) {
		t.Fatalf("Send multibyte over limit: got %v, want *LengthError", err)
	}
	if le.Size != 1002 {
		t.Errorf("LengthError.Size = %d, want 1002", le.Size)
	}
}

func TestSendAfterCloseIsTransportError(t *testing.T) {
	_, s := newLoopbackPair(t)
	s.Close()

	err := s.Send("hi")
	if err == nil {
		t.Fatal("Send on closed sender should fail")
	}
	var le *LengthError
	if errors.As(err, &le) {
		t.Errorf("got *LengthError, want transport error: %v", err)
	}
}
