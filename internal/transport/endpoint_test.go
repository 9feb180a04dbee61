package transport

import "testing"

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		port int
		err  bool
	}{
		{"valid", "192.168.1.100", 12345, false},
		{"loopback", "127.0.0.1", 1, false},
		{"max port", "10.0.0.1", 65535, false},
		{"empty ip", "", 12345, true},
		{"hostname", "localhost", 12345, true},
		{"ipv6", "::1", 12345, true},
		{"garbage", "999.1.2.3", 12345, true},
		{"port zero", "192.168.1.100", 0, true},
		{"port negative", "192.168.1.100", -1, true},
		{"port too high", "192.168.1.100", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := ParseEndpoint(tt.ip, tt.port)
			if tt.err {
				if err == nil {
					t.Errorf("ParseEndpoint(%q, %d) expected error, got nil", tt.ip, tt.port)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEndpoint(%q, %d) unexpected error: %v", tt.ip, tt.port, err)
			}
			if ep.IP.String() != tt.ip {
				t.Errorf("Endpoint.IP = %s, want %s", ep.IP, tt.ip)
			}
			if ep.Port != tt.port {
				t.Errorf("Endpoint.Port = %d, want %d", ep.Port, tt.port)
			}
		})
	}
}

func TestEndpointString(t *testing.T) {
	ep, err := ParseEndpoint("192.168.1.100", 12345)
	if err != nil {
		t.Fatalf("ParseEndpoint: %v", err)
	}
	if got := ep.String(); got != "192.168.1.100:12345" {
		t.Errorf("Endpoint.String() = %q, want %q", got, "192.168.1.100:12345")
	}
}
