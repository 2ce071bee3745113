package scanner

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/platform/errors"
	"webfigscan/internal/platform/httpclient"
	"webfigscan/internal/platform/logx"
)

// ProberConfig configura TCPProber.
type ProberConfig struct {
	// Timeout cubre conexión, handshake TLS, petición y lectura
	Timeout time.Duration

	UserAgent string

	// ProxyURL socks5:// o socks5h://; otros esquemas se ignoran aquí
	ProxyURL string

	Signatures *SignatureSet
}

// TCPProber abre una conexión por objetivo, envía un GET mínimo y clasifica
// lo que vuelve. Cada conexión se cierra en todos los caminos de salida.
type TCPProber struct {
	timeout   time.Duration
	userAgent string
	dialer    proxy.ContextDialer
	set       *SignatureSet
	fp        *Fingerprinter
	tlsConf   *tls.Config
	logger    logx.Logger
}

// NewTCPProber crea el prober y compila las firmas.
func NewTCPProber(cfg ProberConfig, logger logx.Logger) (*TCPProber, error) {
	if cfg.Timeout <= 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "probe timeout must be positive")
	}
	if cfg.Signatures == nil {
		cfg.Signatures = DefaultSignatures()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = httpclient.DefaultUserAgent
	}
	if logger == nil {
		logger = logx.Nop()
	}

	fp, err := NewFingerprinter(cfg.Signatures)
	if err != nil {
		return nil, err
	}

	logger = logger.With("component", "prober")
	dialer, err := probeDialer(cfg.ProxyURL, cfg.Timeout, logger)
	if err != nil {
		return nil, err
	}

	return &TCPProber{
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		dialer:    dialer,
		set:       cfg.Signatures,
		fp:        fp,
		tlsConf: &tls.Config{
			// los routers sirven certificados autofirmados
			InsecureSkipVerify: true, //nolint:gosec
			MinVersion:         tls.VersionTLS10,
		},
		logger: logger,
	}, nil
}

func probeDialer(proxyURL string, timeout time.Duration, logger logx.Logger) (proxy.ContextDialer, error) {
	direct := &net.Dialer{Timeout: timeout}
	if proxyURL == "" {
		return direct, nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil || u.Host == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid proxy url %q", proxyURL)
	}
	switch strings.ToLower(u.Scheme) {
	case "socks5", "socks5h":
		logger.Info("probes routed through socks proxy", "proxy", u.Redacted())
		return httpclient.SOCKSDialer(u, direct)
	default:
		logger.Warn("proxy scheme not usable for raw probes, dialing directly", "scheme", u.Scheme)
		return direct, nil
	}
}

// Probe implementa ports.Prober. Nunca devuelve error: cualquier fallo queda
// reflejado en el Outcome.
func (p *TCPProber) Probe(ctx context.Context, target domain.ProbeTarget) domain.Result {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res := domain.Result{Target: target, Scheme: "http"}
	useTLS := p.set.IsTLSPort(target.Port)
	if useTLS {
		res.Scheme = "https"
	}

	res.Outcome, res.Status, res.Server, res.Title = p.exchange(ctx, target, useTLS)
	res.Duration = time.Since(start)

	p.logger.Debug("probe done",
		"target", target.String(),
		"outcome", res.Outcome.Kind.String(),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res
}

func (p *TCPProber) exchange(ctx context.Context, target domain.ProbeTarget, useTLS bool) (domain.Outcome, int, string, string) {
	conn, err := p.dialer.DialContext(ctx, "tcp4", target.AddrPort().String())
	if err != nil {
		return classifyDial(err), 0, "", ""
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	var rw net.Conn = conn
	if useTLS {
		tc := tls.Client(conn, p.tlsConf)
		if err := tc.HandshakeContext(ctx); err != nil {
			var rhe tls.RecordHeaderError
			if errors.As(err, &rhe) {
				// contestó en claro en un puerto TLS
				return domain.OpenNoMatch(), 0, "", ""
			}
			return classifyIO(err), 0, "", ""
		}
		defer tc.Close()
		rw = tc
	}

	if _, err := rw.Write(p.request(target)); err != nil {
		return classifyIO(err), 0, "", ""
	}

	buf := make([]byte, p.set.MaxReadBytes)
	n, readErr := readBounded(rw, buf)
	if n == 0 {
		return classifyIO(readErr), 0, "", ""
	}

	outcome, ev := p.fp.Classify(buf[:n])
	return outcome, ev.Status, ev.Server, ev.Title
}

func (p *TCPProber) request(target domain.ProbeTarget) []byte {
	return fmt.Appendf(nil,
		"GET %s HTTP/1.0\r\nHost: %s\r\nUser-Agent: %s\r\nAccept: */*\r\nConnection: close\r\n\r\n",
		p.set.RequestPath, target.AddrPort().String(), p.userAgent,
	)
}

// readBounded lee hasta llenar buf o hasta el primer error (EOF incluido).
func readBounded(c net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func classifyDial(err error) domain.Outcome {
	switch {
	case errors.IsTimeout(err):
		return domain.TimedOut()
	case errors.IsRefused(err):
		return domain.Closed("connection refused")
	default:
		return domain.ConnectionError(err.Error())
	}
}

// classifyIO clasifica un fallo posterior a la conexión sin bytes leídos.
func classifyIO(err error) domain.Outcome {
	switch {
	case err == nil:
		return domain.OpenNoMatch()
	case errors.IsTimeout(err):
		return domain.TimedOut()
	case errors.IsReset(err):
		return domain.Closed("connection reset by peer")
	default:
		return domain.ConnectionError(err.Error())
	}
}
