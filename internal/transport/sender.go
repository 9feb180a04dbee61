package transport

import (
	"fmt"
	"net"
)

// LengthError reports an outgoing line that exceeds MaxPayload. The line is
// rejected locally; nothing is put on the wire.
type LengthError struct {
	Size int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("message too long: %d bytes (limit %d)", e.Size, MaxPayload)
}

// Sender transmits chat lines as single UDP datagrams to the limited
// broadcast address 255.255.255.255 on the configured port. It is stateless
// across calls apart from the underlying socket.
type Sender struct {
	conn net.Conn
	dst  string
}

// NewSender opens a broadcast-capable UDP socket dialed to
// 255.255.255.255:<port>.
func NewSender(port int) (*Sender, error) {
	dst := fmt.Sprintf("255.255.255.255:%d", port)
	return newSender(dst)
}

// newSender is the testable core; tests dial a loopback destination instead
// of the broadcast address.
func newSender(dst string) (*Sender, error) {
	d := net.Dialer{Control: allowBroadcast}
	conn, err := d.Dial("udp4", dst)
	if err != nil {
		return nil, fmt.Errorf("open broadcast socket: %w", err)
	}
	return &Sender{conn: conn, dst: dst}, nil
}

// Send transmits one line as one datagram. Lines over MaxPayload encoded
// bytes fail with *LengthError before any network operation; transport
// failures are returned as-is and never retried.
func (s *Sender) Send(text string) error {
	payload := []byte(text)
	if len(payload) > MaxPayload {
		return &LengthError{Size: len(payload)}
	}
	if _, err := s.conn.Write(payload); err != nil {
		return fmt.Errorf("broadcast to %s: %w", s.dst, err)
	}
	return nil
}

// Close releases the socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}
