package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// readTimeout bounds each blocking receive so the running flag is
	// rechecked promptly during shutdown.
	readTimeout = 200 * time.Millisecond

	// recvBufSize is the receive buffer per datagram. Conforming peers send
	// at most MaxPayload bytes; anything larger is passed through up to this
	// size and truncated by the read beyond it.
	recvBufSize = 2048

	// lineBacklog is the inbound channel capacity. Chat traffic is a few
	// lines per second at most, so the channel never fills in practice.
	lineBacklog = 1024
)

// Listener owns the receive socket. Once started it runs on its own
// goroutine, decoding each datagram into a display line "[<source_ip>]
// <text>" and pushing it onto the lines channel in arrival order.
type Listener struct {
	ep     Endpoint
	logger *log.Logger

	conn    *net.UDPConn
	running atomic.Bool
	lines   chan string
	done    chan struct{}
}

// NewListener creates a listener for the given endpoint. Errors on the
// receive path are reported through logger.
func NewListener(ep Endpoint, logger *log.Logger) *Listener {
	return &Listener{
		ep:     ep,
		logger: logger,
		lines:  make(chan string, lineBacklog),
		done:   make(chan struct{}),
	}
}

// Lines returns the channel of formatted inbound lines. It is closed after
// Stop, once the receive goroutine has exited.
func (l *Listener) Lines() <-chan string {
	return l.lines
}

// Addr reports the bound receive address. Valid only after a successful
// Start.
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Start binds the receive socket with address reuse enabled and launches the
// receive loop. A bind failure is returned to the caller and is fatal: the
// chat must not start without a working receive path.
func (l *Listener) Start() error {
	lc := net.ListenConfig{Control: reuseAddr}
	pc, err := lc.ListenPacket(context.Background(), "udp4", l.ep.String())
	if err != nil {
		return fmt.Errorf("bind %s: %w", l.ep, err)
	}
	l.conn = pc.(*net.UDPConn)
	l.running.Store(true)

	go l.loop()
	return nil
}

// Stop signals the receive loop to exit, closes the socket to unblock any
// in-flight receive, and waits for the goroutine to finish. After Stop
// returns, nothing more is pushed and the lines channel is closed.
func (l *Listener) Stop() {
	l.running.Store(false)
	l.conn.Close()
	<-l.done
}

func (l *Listener) loop() {
	defer close(l.done)
	defer close(l.lines)

	buf := make([]byte, recvBufSize)
	for l.running.Load() {
		l.conn.SetReadDeadline(time.Now().Add(readTimeout))
		n, addr, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if !l.running.Load() {
				return // socket closed by Stop
			}
			l.logger.Error("receive failed", "err", err)
			return
		}
		text := strings.ToValidUTF8(string(buf[:n]), "�")
		l.lines <- fmt.Sprintf("[%s] %s", addr.IP, text)
	}
}
