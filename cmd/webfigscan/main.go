// cmd/webfigscan/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"webfigscan/internal/adapters/output"
	"webfigscan/internal/asn"
	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
	"webfigscan/internal/core/usecases"
	"webfigscan/internal/platform/config"
	"webfigscan/internal/platform/errors"
	"webfigscan/internal/platform/logx"
	"webfigscan/internal/platform/registry"
	"webfigscan/internal/platform/ui"
	"webfigscan/internal/scanner"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Códigos de salida
const (
	exitOK          = 0
	exitFailure     = 1 // ASN irresoluble, fallo de salida
	exitSpec        = 2 // objetivo, puertos o configuración inválidos
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Config centralizada (-h y -v se resuelven dentro)
	cfg, err := config.Load(version, commit, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try: webfigscan -h for help")
		return exitSpec
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try: webfigscan -h for help")
		return exitSpec
	}

	// 2. Logger compartido
	logger := logx.NewWithLevel(logx.ParseLevel(cfg.Output.LogLevel))
	logger.Info("webfigscan starting",
		"version", version,
		"commit", commit,
		"config", cfg.String(),
	)

	// 3. Objetivo, firmas y puertos
	spec, err := cfg.TargetSpec()
	if err != nil {
		logger.Err(err, "phase", "target")
		return exitSpec
	}

	signatures := scanner.DefaultSignatures()
	if cfg.Fingerprint.SignaturesFile != "" {
		signatures, err = scanner.LoadSignatures(cfg.Fingerprint.SignaturesFile)
		if err != nil {
			logger.Err(err, "phase", "signatures", "file", cfg.Fingerprint.SignaturesFile)
			return exitSpec
		}
	}

	portSpec, err := cfg.PortSpec(signatures.DefaultPorts)
	if err != nil {
		logger.Err(err, "phase", "ports")
		return exitSpec
	}

	// 4. Componentes
	prober, err := scanner.NewTCPProber(scanner.ProberConfig{
		Timeout:    cfg.Timeout(),
		UserAgent:  cfg.Network.UserAgent,
		ProxyURL:   cfg.Network.ProxyURL,
		Signatures: signatures,
	}, logger)
	if err != nil {
		logger.Err(err, "phase", "prober")
		return exitSpec
	}

	var resolver ports.PrefixProvider
	if spec.Kind == domain.TargetASN {
		resolver, err = buildResolver(cfg, logger)
		if err != nil {
			logger.Err(err, "phase", "provider-build")
			return exitSpec
		}
	}

	reporters, err := buildReporters(cfg, logger)
	if err != nil {
		logger.Err(err, "phase", "output")
		return exitFailure
	}

	svc, err := usecases.NewScanService(usecases.ScanServiceOptions{
		Resolver:       resolver,
		LoadPrefixFile: asn.LoadPrefixFile,
		Prober:         prober,
		Reporter:       reporters,
		Logger:         logger,
		Scan:           cfg.ScanConfig(),
		Policy:         cfg.Policy(),
		WarnTargets:    cfg.Core.WarnTargets,
	})
	if err != nil {
		_ = reporters.Close()
		logger.Err(err, "phase", "setup")
		return exitSpec
	}

	// 5. Contexto con señales para parada limpia
	ctx, cancel := rootContextWithSignals()
	defer cancel()

	// 6. Escaneo
	_, runErr := svc.Run(ctx, spec, portSpec)
	closeErr := reporters.Close()

	// 7. Código de salida
	code := exitCode(runErr)
	if runErr != nil && code != exitInterrupted {
		logger.Err(runErr, "phase", "run", "target", spec.String())
	}
	if closeErr != nil {
		logger.Err(closeErr, "phase", "output")
		if code == exitOK {
			code = exitFailure
		}
	}
	return code
}

// buildResolver construye los proveedores del registro en el orden de
// --asn-providers.
func buildResolver(cfg config.Config, logger logx.Logger) (*asn.Resolver, error) {
	providers, err := registry.Global().Build(cfg.ASN.Providers, cfg.ProviderConfigs(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build providers: %w", err)
	}
	return asn.NewResolver(providers, logger)
}

// buildReporters monta consola y, si se pidió, el fichero JSON Lines.
func buildReporters(cfg config.Config, logger logx.Logger) (*usecases.MultiReporter, error) {
	reporters := usecases.NewMultiReporter(ui.NewReporter(ui.Options{
		Mode:    ui.DetectMode(),
		Quiet:   cfg.Output.Quiet,
		ShowAll: cfg.Output.ShowAll,
		NoColor: cfg.Output.NoColor,
	}))

	if cfg.Output.File != "" {
		jw, err := output.CreateJSONLFile(cfg.Output.File, logger)
		if err != nil {
			return nil, err
		}
		reporters.Add(jw)
		logger.Info("writing results", "file", cfg.Output.File)
	}
	return reporters, nil
}

// exitCode traduce el error de Run.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, domain.ErrSpecParse):
		return exitSpec
	default:
		// ErrAsnResolution, ErrNoProviders y fallos inesperados
		return exitFailure
	}
}

// rootContextWithSignals crea el contexto raíz cancelado por SIGINT/SIGTERM.
// La función devuelta libera el handler de señales.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			fmt.Fprintln(os.Stderr, "\ninterrupt received, waiting for in-flight probes...")
			baseCancel()
		case <-base.Done():
		}
	}()

	return base, func() {
		signal.Stop(ch)
		baseCancel()
	}
}
