package scanner

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/platform/logx"
	"webfigscan/internal/testutil"
)

func newProber(t *testing.T, timeout time.Duration, set *SignatureSet) *TCPProber {
	t.Helper()
	p, err := NewTCPProber(ProberConfig{Timeout: timeout, Signatures: set}, logx.Nop())
	testutil.RequireNoError(t, err, "prober")
	return p
}

func targetOf(ap netip.AddrPort) domain.ProbeTarget {
	return domain.ProbeTarget{Addr: ap.Addr(), Port: ap.Port()}
}

func TestProbe_WebFigMatch(t *testing.T) {
	srv := testutil.StartTCPServer(t, testutil.Respond(testutil.FixtureWebFigResponse))
	p := newProber(t, time.Second, nil)

	res := p.Probe(context.Background(), targetOf(srv.AddrPort()))

	testutil.AssertEqual(t, res.Outcome.Kind, domain.OutcomeServiceMatch, "match")
	testutil.AssertEqual(t, res.Outcome.Version, "6.49.6", "version")
	testutil.AssertEqual(t, res.Status, 200, "status")
	testutil.AssertEqual(t, res.Scheme, "http", "plain port")
	testutil.AssertEqual(t, res.Title, "RouterOS router configuration page", "title")
}

func TestProbe_SendsMinimalRequest(t *testing.T) {
	got := make(chan string, 1)
	srv := testutil.StartTCPServer(t, func(c net.Conn) {
		buf := make([]byte, 512)
		n, _ := c.Read(buf)
		got <- string(buf[:n])
		_, _ = c.Write([]byte(testutil.FixtureNginxResponse))
	})
	p, err := NewTCPProber(ProberConfig{Timeout: time.Second, UserAgent: "ua-test"}, logx.Nop())
	testutil.RequireNoError(t, err, "prober")

	res := p.Probe(context.Background(), targetOf(srv.AddrPort()))
	testutil.AssertEqual(t, res.Outcome.Kind, domain.OutcomeOpenNoMatch, "nginx is not webfig")
	testutil.AssertEqual(t, res.Server, "nginx/1.24.0", "server captured")

	req := <-got
	testutil.AssertContains(t, req, "GET / HTTP/1.0\r\n", "request line")
	testutil.AssertContains(t, req, "User-Agent: ua-test\r\n", "user agent")
	testutil.AssertContains(t, req, "Host: "+srv.AddrPort().String(), "host header")
}

func TestProbe_ClosedPort(t *testing.T) {
	p := newProber(t, time.Second, nil)
	res := p.Probe(context.Background(), targetOf(testutil.ClosedPort(t)))
	testutil.AssertEqual(t, res.Outcome.Kind, domain.OutcomeClosed, "refused is closed")
}

func TestProbe_PeerClosesWithoutAnswer(t *testing.T) {
	srv := testutil.StartTCPServer(t, func(c net.Conn) {})
	p := newProber(t, time.Second, nil)

	res := p.Probe(context.Background(), targetOf(srv.AddrPort()))
	testutil.AssertEqual(t, res.Outcome.Kind, domain.OutcomeClosed, "eof before any byte")
}

func TestProbe_SilentPeerTimesOut(t *testing.T) {
	srv := testutil.StartTCPServer(t, func(c net.Conn) { _, _ = io.Copy(io.Discard, c) })
	const timeout = 150 * time.Millisecond
	p := newProber(t, timeout, nil)

	start := time.Now()
	res := p.Probe(context.Background(), targetOf(srv.AddrPort()))
	elapsed := time.Since(start)

	testutil.AssertEqual(t, res.Outcome.Kind, domain.OutcomeTimedOut, "silent peer")
	testutil.AssertTrue(t, elapsed >= timeout, "waited for the deadline")
	testutil.AssertTrue(t, elapsed < timeout+500*time.Millisecond, "classified within timeout + epsilon")
}

func TestProbe_PartialAnswerBeforeDeadline(t *testing.T) {
	srv := testutil.StartTCPServer(t, func(c net.Conn) {
		buf := make([]byte, 512)
		_, _ = c.Read(buf)
		_, _ = c.Write([]byte("HTTP/1.1 200 OK\r\nServer: MikroTik\r\n"))
		_, _ = io.Copy(io.Discard, c)
	})
	p := newProber(t, 150*time.Millisecond, nil)

	res := p.Probe(context.Background(), targetOf(srv.AddrPort()))
	testutil.AssertEqual(t, res.Outcome.Kind, domain.OutcomeServiceMatch, "bytes read before the deadline are classified")
}

func TestProbe_TLSPort(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><title>RouterOS router configuration page</title>webfig</html>"))
	}))
	defer srv.Close()

	ap := srv.Listener.Addr().(*net.TCPAddr).AddrPort()
	set := DefaultSignatures()
	set.TLSPorts = []uint16{ap.Port()}

	res := newProber(t, 2*time.Second, set).Probe(context.Background(), targetOf(ap))
	testutil.AssertEqual(t, res.Scheme, "https", "tls port")
	testutil.AssertEqual(t, res.Outcome.Kind, domain.OutcomeServiceMatch, "match over tls")
}

func TestProbe_PlaintextOnTLSPort(t *testing.T) {
	srv := testutil.StartTCPServer(t, testutil.Respond("HTTP/1.0 400 Bad Request\r\n\r\n"))
	set := DefaultSignatures()
	set.TLSPorts = []uint16{srv.AddrPort().Port()}

	res := newProber(t, time.Second, set).Probe(context.Background(), targetOf(srv.AddrPort()))
	testutil.AssertEqual(t, res.Outcome.Kind, domain.OutcomeOpenNoMatch, "something answered in clear")
}

func TestNewTCPProber_Validation(t *testing.T) {
	_, err := NewTCPProber(ProberConfig{}, logx.Nop())
	testutil.AssertError(t, err, "zero timeout")

	_, err = NewTCPProber(ProberConfig{Timeout: time.Second, ProxyURL: "socks5://127.0.0.1:1080"}, logx.Nop())
	testutil.AssertNoError(t, err, "socks proxy accepted")

	_, err = NewTCPProber(ProberConfig{Timeout: time.Second, ProxyURL: "::bad"}, logx.Nop())
	testutil.AssertError(t, err, "unparsable proxy")
}
