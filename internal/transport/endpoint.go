// Package transport implements the UDP broadcast plumbing for the chat:
// endpoint validation, the broadcast sender, and the inbound listener.
package transport

import (
	"fmt"
	"net"
)

// MaxPayload is the largest outgoing chat line, in UTF-8 encoded bytes.
const MaxPayload = 1000

// Endpoint is the resolved receive address. Immutable after startup; the
// listener binds it and the sender reuses its port as the broadcast
// destination.
type Endpoint struct {
	IP   net.IP
	Port int
}

// ParseEndpoint validates an IPv4 address and port pair.
func ParseEndpoint(ip string, port int) (Endpoint, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return Endpoint{}, fmt.Errorf("invalid IPv4 address %q", ip)
	}
	if port < 1 || port > 65535 {
		return Endpoint{}, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return Endpoint{IP: parsed.To4(), Port: port}, nil
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.IP.String(), fmt.Sprintf("%d", e.Port))
}
