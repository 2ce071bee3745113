// internal/testutil/servers.go
package testutil

import (
	"net"
	"net/netip"
	"testing"
)

// TCPServer es un listener de loopback que atiende cada conexión con handle.
type TCPServer struct {
	ln net.Listener
}

// StartTCPServer arranca el servidor y lo cierra al terminar el test.
func StartTCPServer(t *testing.T, handle func(net.Conn)) *TCPServer {
	t.Helper()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer c.Close()
				handle(c)
			}()
		}
	}()

	return &TCPServer{ln: ln}
}

// AddrPort devuelve la dirección de escucha.
func (s *TCPServer) AddrPort() netip.AddrPort {
	return s.ln.Addr().(*net.TCPAddr).AddrPort()
}

// Respond lee la petición y contesta con payload.
func Respond(payload string) func(net.Conn) {
	return func(c net.Conn) {
		buf := make([]byte, 1024)
		_, _ = c.Read(buf)
		_, _ = c.Write([]byte(payload))
	}
}

// ClosedPort devuelve un puerto de loopback sin nadie escuchando.
func ClosedPort(t *testing.T) netip.AddrPort {
	t.Helper()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ap := ln.Addr().(*net.TCPAddr).AddrPort()
	ln.Close()
	return ap
}
