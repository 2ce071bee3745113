// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
	"webfigscan/internal/platform/errors"
	"webfigscan/internal/platform/validator"
)

// EnvPrefix antecede a todas las variables de entorno reconocidas.
const EnvPrefix = "WEBFIGSCAN_"

var (
	// ErrHelpRequested indica -h/--help; Load imprime la ayuda y sale
	ErrHelpRequested = errors.New("help requested")

	// ErrVersionRequested indica -v/--version
	ErrVersionRequested = errors.New("version requested")
)

// Config agrupa la configuración por secciones. Precedencia de menor a
// mayor: defaults, fichero YAML (--config), entorno, flags.
type Config struct {
	Core        CoreConfig        `yaml:"core"`
	ASN         ASNConfig         `yaml:"asn"`
	Network     NetworkConfig     `yaml:"network"`
	Fingerprint FingerprintConfig `yaml:"fingerprint"`
	Output      OutputConfig      `yaml:"output"`

	// ConfigFile es la ruta pasada con --config ("" = ninguna)
	ConfigFile string `yaml:"-"`
}

// CoreConfig: qué escanear y cómo.
type CoreConfig struct {
	Target     string `yaml:"target"` // argumento posicional
	ASN        string `yaml:"asn"`
	CIDR       string `yaml:"cidr"`
	IPRange    string `yaml:"ip_range"`
	PrefixFile string `yaml:"asn_file"`

	Ports    string `yaml:"ports"`
	AllPorts bool   `yaml:"all_ports"`

	PerPrefix    int  `yaml:"per_prefix"`
	ExpandAllIPs bool `yaml:"expand_all_ips"`

	Concurrency int     `yaml:"concurrency"`
	TimeoutMS   int     `yaml:"timeout_ms"`
	Rate        float64 `yaml:"rate"`

	// WarnTargets es el umbral de aviso; 0 lo desactiva
	WarnTargets uint64 `yaml:"warn_targets"`
}

// ASNConfig: proveedores de prefijos, en orden de fallback.
type ASNConfig struct {
	Providers []string          `yaml:"providers"`
	TimeoutS  int               `yaml:"timeout_s"`
	BaseURLs  map[string]string `yaml:"base_urls"`
}

// NetworkConfig: salida a red.
type NetworkConfig struct {
	ProxyURL  string `yaml:"proxy"`
	UserAgent string `yaml:"user_agent"`
}

// FingerprintConfig: firmas del servicio.
type FingerprintConfig struct {
	SignaturesFile string `yaml:"signatures"`
}

// OutputConfig: consola y ficheros.
type OutputConfig struct {
	File     string `yaml:"file"`
	Quiet    bool   `yaml:"quiet"`
	ShowAll  bool   `yaml:"show_all"`
	NoColor  bool   `yaml:"no_color"`
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Core: CoreConfig{
			PerPrefix:   1,
			Concurrency: 400,
			TimeoutMS:   800,
			WarnTargets: 1 << 24,
		},
		ASN: ASNConfig{
			Providers: []string{"ripestat", "bgpview"},
			TimeoutS:  15,
			BaseURLs:  map[string]string{},
		},
		Network: NetworkConfig{
			UserAgent: "Mozilla/5.0 (compatible; webfigscan/1.0)",
		},
		Output: OutputConfig{
			LogLevel: "info",
		},
	}
}

// Load parsea os.Args. Con -h o -v imprime y termina el proceso.
func Load(version, commit, date string) (Config, error) {
	cfg, err := LoadArgs(os.Args[1:])
	switch {
	case errors.Is(err, ErrHelpRequested):
		PrintHelp()
	case errors.Is(err, ErrVersionRequested):
		PrintVersion(version, commit, date)
	}
	return cfg, err
}

// LoadArgs es la forma testeable de Load: no toca os.Args ni termina.
func LoadArgs(args []string) (Config, error) {
	// primera pasada: errores de sintaxis, --config, -h y -v
	probe := DefaultConfig()
	fs, meta := newFlagSet(&probe)
	if err := fs.Parse(args); err != nil {
		return probe, &domain.SpecParseError{Field: "flags", Reason: err.Error()}
	}
	if meta.help {
		return probe, ErrHelpRequested
	}
	if meta.version {
		return probe, ErrVersionRequested
	}

	cfg := DefaultConfig()
	cfg.ConfigFile = probe.ConfigFile
	if cfg.ConfigFile != "" {
		if err := loadFromFile(&cfg, cfg.ConfigFile); err != nil {
			return cfg, err
		}
	}

	loadFromEnv(&cfg)

	// segunda pasada sobre los valores ya mezclados: los flags ganan
	fs, _ = newFlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, &domain.SpecParseError{Field: "flags", Reason: err.Error()}
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		cfg.Core.Target = rest[0]
	default:
		return cfg, &domain.SpecParseError{Field: "target", Input: strings.Join(rest, " "), Reason: "only one positional target is accepted"}
	}

	normalize(&cfg)
	return cfg, nil
}

type flagMeta struct {
	help    bool
	version bool
}

// newFlagSet declara todos los flags ligados a cfg.
func newFlagSet(cfg *Config) (*pflag.FlagSet, *flagMeta) {
	fs := pflag.NewFlagSet("webfigscan", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	meta := &flagMeta{}

	// Core
	fs.StringVar(&cfg.Core.ASN, "asn", cfg.Core.ASN, "Autonomous system to scan (13335 or AS13335)")
	fs.StringVar(&cfg.Core.CIDR, "cidr", cfg.Core.CIDR, "IPv4 block to scan")
	fs.StringVar(&cfg.Core.IPRange, "ip-range", cfg.Core.IPRange, "IPv4 range start-end")
	fs.StringVar(&cfg.Core.PrefixFile, "asn-file", cfg.Core.PrefixFile, "File with one IPv4 prefix per line")
	fs.StringVar(&cfg.Core.Ports, "ports", cfg.Core.Ports, "Ports list, e.g. 80,443,8080-8090")
	fs.BoolVar(&cfg.Core.AllPorts, "all-ports", cfg.Core.AllPorts, "Scan ports 1-65535")
	fs.IntVar(&cfg.Core.PerPrefix, "per-prefix", cfg.Core.PerPrefix, "Addresses sampled per CIDR block")
	fs.BoolVar(&cfg.Core.ExpandAllIPs, "expand-all-ips", cfg.Core.ExpandAllIPs, "Probe every address of every CIDR block")
	fs.IntVarP(&cfg.Core.Concurrency, "concurrency", "c", cfg.Core.Concurrency, "Probes in flight")
	fs.IntVar(&cfg.Core.TimeoutMS, "timeout-ms", cfg.Core.TimeoutMS, "Per-probe timeout in milliseconds")
	fs.Float64Var(&cfg.Core.Rate, "rate", cfg.Core.Rate, "Probe admissions per second (0 = unlimited)")
	fs.Uint64Var(&cfg.Core.WarnTargets, "warn-targets", cfg.Core.WarnTargets, "Warn when the scan exceeds this many probes (0 = never)")

	// ASN
	fs.StringSliceVar(&cfg.ASN.Providers, "asn-providers", cfg.ASN.Providers, "Prefix providers in fallback order")
	fs.IntVar(&cfg.ASN.TimeoutS, "asn-timeout", cfg.ASN.TimeoutS, "ASN lookup timeout in seconds")

	// Network
	fs.StringVar(&cfg.Network.ProxyURL, "proxy", cfg.Network.ProxyURL, "Proxy URL (socks5:// also carries probes)")
	fs.StringVar(&cfg.Network.UserAgent, "user-agent", cfg.Network.UserAgent, "User-Agent header")

	// Fingerprint
	fs.StringVar(&cfg.Fingerprint.SignaturesFile, "signatures", cfg.Fingerprint.SignaturesFile, "YAML signature set")

	// Output
	fs.StringVarP(&cfg.Output.File, "output", "o", cfg.Output.File, "Write results as JSON Lines")
	fs.BoolVarP(&cfg.Output.Quiet, "quiet", "q", cfg.Output.Quiet, "Only the summary on the console")
	fs.BoolVar(&cfg.Output.ShowAll, "show-all", cfg.Output.ShowAll, "Print non-matching outcomes too")
	fs.BoolVar(&cfg.Output.NoColor, "no-color", cfg.Output.NoColor, "Disable colors")
	fs.StringVar(&cfg.Output.LogLevel, "log-level", cfg.Output.LogLevel, "debug, info, warn or error")

	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML configuration file")
	fs.BoolVarP(&meta.help, "help", "h", false, "Show help")
	fs.BoolVarP(&meta.version, "version", "v", false, "Print version")

	return fs, meta
}

// loadFromFile mezcla un YAML sobre cfg; los campos ausentes se conservan.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &domain.SpecParseError{Field: "config", Input: path, Reason: err.Error()}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &domain.SpecParseError{Field: "config", Input: path, Reason: err.Error()}
	}
	return nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	// Core
	if v := getenv(EnvPrefix+"TARGET", ""); v != "" {
		cfg.Core.Target = v
	}
	if v := getenv(EnvPrefix+"ASN", ""); v != "" {
		cfg.Core.ASN = v
	}
	if v := getenv(EnvPrefix+"CIDR", ""); v != "" {
		cfg.Core.CIDR = v
	}
	if v := getenv(EnvPrefix+"IP_RANGE", ""); v != "" {
		cfg.Core.IPRange = v
	}
	if v := getenv(EnvPrefix+"ASN_FILE", ""); v != "" {
		cfg.Core.PrefixFile = v
	}
	if v := getenv(EnvPrefix+"PORTS", ""); v != "" {
		cfg.Core.Ports = v
	}
	if v := getenv(EnvPrefix+"ALL_PORTS", ""); v != "" {
		cfg.Core.AllPorts = parseBool(v)
	}
	if v := getenv(EnvPrefix+"PER_PREFIX", ""); v != "" {
		cfg.Core.PerPrefix = parseInt(v, cfg.Core.PerPrefix)
	}
	if v := getenv(EnvPrefix+"EXPAND_ALL_IPS", ""); v != "" {
		cfg.Core.ExpandAllIPs = parseBool(v)
	}
	if v := getenv(EnvPrefix+"CONCURRENCY", ""); v != "" {
		cfg.Core.Concurrency = parseInt(v, cfg.Core.Concurrency)
	}
	if v := getenv(EnvPrefix+"TIMEOUT_MS", ""); v != "" {
		cfg.Core.TimeoutMS = parseInt(v, cfg.Core.TimeoutMS)
	}
	if v := getenv(EnvPrefix+"RATE", ""); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			cfg.Core.Rate = f
		}
	}
	if v := getenv(EnvPrefix+"WARN_TARGETS", ""); v != "" {
		if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil {
			cfg.Core.WarnTargets = n
		}
	}

	// ASN
	if v := getenv(EnvPrefix+"ASN_PROVIDERS", ""); v != "" {
		cfg.ASN.Providers = strings.Split(v, ",")
	}
	if v := getenv(EnvPrefix+"ASN_TIMEOUT", ""); v != "" {
		cfg.ASN.TimeoutS = parseInt(v, cfg.ASN.TimeoutS)
	}
	// Formato: WEBFIGSCAN_RIPESTAT_URL=http://mirror.local
	for _, name := range cfg.ASN.Providers {
		key := EnvPrefix + strings.ToUpper(strings.TrimSpace(name)) + "_URL"
		if v := getenv(key, ""); v != "" {
			if cfg.ASN.BaseURLs == nil {
				cfg.ASN.BaseURLs = map[string]string{}
			}
			cfg.ASN.BaseURLs[strings.ToLower(strings.TrimSpace(name))] = v
		}
	}

	// Network
	if v := getenv(EnvPrefix+"PROXY_URL", ""); v != "" {
		cfg.Network.ProxyURL = v
	}
	if v := getenv(EnvPrefix+"USER_AGENT", ""); v != "" {
		cfg.Network.UserAgent = v
	}

	// Fingerprint
	if v := getenv(EnvPrefix+"SIGNATURES", ""); v != "" {
		cfg.Fingerprint.SignaturesFile = v
	}

	// Output
	if v := getenv(EnvPrefix+"OUTPUT", ""); v != "" {
		cfg.Output.File = v
	}
	if v := getenv(EnvPrefix+"QUIET", ""); v != "" {
		cfg.Output.Quiet = parseBool(v)
	}
	if v := getenv(EnvPrefix+"SHOW_ALL", ""); v != "" {
		cfg.Output.ShowAll = parseBool(v)
	}
	if v := getenv(EnvPrefix+"NO_COLOR", ""); v != "" {
		cfg.Output.NoColor = parseBool(v)
	}
	if v := getenv(EnvPrefix+"LOG_LEVEL", ""); v != "" {
		cfg.Output.LogLevel = v
	}
}

// normalize limpia espacios y corrige valores claramente inválidos que no
// merecen abortar. Lo que sí debe abortar lo reporta Validate.
func normalize(c *Config) {
	c.Core.Target = strings.TrimSpace(c.Core.Target)
	c.Core.ASN = strings.TrimSpace(c.Core.ASN)
	c.Core.CIDR = strings.TrimSpace(c.Core.CIDR)
	c.Core.IPRange = strings.TrimSpace(c.Core.IPRange)
	c.Core.PrefixFile = strings.TrimSpace(c.Core.PrefixFile)
	c.Core.Ports = strings.TrimSpace(c.Core.Ports)

	providers := c.ASN.Providers[:0:0]
	for _, p := range c.ASN.Providers {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			providers = append(providers, p)
		}
	}
	c.ASN.Providers = providers
	if c.ASN.TimeoutS <= 0 {
		c.ASN.TimeoutS = 15
	}

	c.Network.ProxyURL = strings.TrimSpace(c.Network.ProxyURL)
	if strings.TrimSpace(c.Network.UserAgent) == "" {
		c.Network.UserAgent = DefaultConfig().Network.UserAgent
	}

	c.Output.LogLevel = strings.ToLower(strings.TrimSpace(c.Output.LogLevel))
	if c.Output.LogLevel == "" {
		c.Output.LogLevel = "info"
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		c.Output.NoColor = true
	}
}

// Validate reporta como SpecParseError lo que debe abortar antes de
// escanear.
func (c Config) Validate() error {
	var given []string
	for _, in := range []struct{ name, val string }{
		{"target", c.Core.Target},
		{"--asn", c.Core.ASN},
		{"--cidr", c.Core.CIDR},
		{"--ip-range", c.Core.IPRange},
		{"--asn-file", c.Core.PrefixFile},
	} {
		if in.val != "" {
			given = append(given, in.name)
		}
	}
	switch len(given) {
	case 0:
		return &domain.SpecParseError{Field: "target", Reason: "one of <target>, --asn, --cidr, --ip-range or --asn-file is required"}
	case 1:
	default:
		return &domain.SpecParseError{Field: "target", Input: strings.Join(given, ", "), Reason: "target inputs are mutually exclusive"}
	}

	if c.Core.AllPorts && c.Core.Ports != "" {
		return &domain.SpecParseError{Field: "ports", Input: c.Core.Ports, Reason: "--ports and --all-ports are mutually exclusive"}
	}
	if c.Core.PerPrefix < 1 {
		return &domain.SpecParseError{Field: "per-prefix", Input: strconv.Itoa(c.Core.PerPrefix), Reason: "must be at least 1"}
	}
	if err := c.ScanConfig().Validate(); err != nil {
		return err
	}
	if c.Core.ASN != "" && len(c.ASN.Providers) == 0 {
		return &domain.SpecParseError{Field: "asn-providers", Reason: "at least one provider is required"}
	}
	if c.Network.ProxyURL != "" && !validator.IsProxyURL(c.Network.ProxyURL) {
		return &domain.SpecParseError{Field: "proxy", Input: c.Network.ProxyURL, Reason: "expected socks5://, socks5h://, http:// or https:// URL"}
	}
	if _, ok := parseLevel(c.Output.LogLevel); !ok {
		return &domain.SpecParseError{Field: "log-level", Input: c.Output.LogLevel, Reason: "expected debug, info, warn or error"}
	}
	return nil
}

// TargetSpec parsea la entrada de objetivo que se haya dado.
func (c Config) TargetSpec() (domain.TargetSpec, error) {
	switch {
	case c.Core.ASN != "":
		return domain.ParseASN(c.Core.ASN)
	case c.Core.CIDR != "":
		return domain.ParseCIDR(c.Core.CIDR)
	case c.Core.IPRange != "":
		return domain.ParseRange(c.Core.IPRange)
	case c.Core.PrefixFile != "":
		return domain.PrefixFileTarget(c.Core.PrefixFile), nil
	default:
		return domain.ParseTarget(c.Core.Target)
	}
}

// PortSpec resuelve --ports / --all-ports; sin ninguno usa defaults.
func (c Config) PortSpec(defaults []uint16) (domain.PortSpec, error) {
	switch {
	case c.Core.AllPorts:
		return domain.AllPorts(), nil
	case c.Core.Ports != "":
		return domain.ParsePorts(c.Core.Ports)
	default:
		return domain.ExplicitPorts(defaults)
	}
}

// ScanConfig devuelve la configuración inmutable del escaneo.
func (c Config) ScanConfig() domain.ScanConfig {
	return domain.ScanConfig{
		Concurrency: c.Core.Concurrency,
		Timeout:     c.Timeout(),
		Rate:        c.Core.Rate,
	}
}

// Policy devuelve la política de expansión de bloques.
func (c Config) Policy() domain.ExpansionPolicy {
	return domain.ExpansionPolicy{
		PerPrefixSample: c.Core.PerPrefix,
		ExpandAll:       c.Core.ExpandAllIPs,
	}
}

// Timeout devuelve el timeout por probe.
func (c Config) Timeout() time.Duration {
	if c.Core.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.Core.TimeoutMS) * time.Millisecond
}

// ASNTimeout devuelve el timeout de cada consulta a un proveedor.
func (c Config) ASNTimeout() time.Duration {
	if c.ASN.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.ASN.TimeoutS) * time.Second
}

// ProviderConfigs construye la configuración de cada proveedor listado.
func (c Config) ProviderConfigs() map[string]ports.ProviderConfig {
	out := make(map[string]ports.ProviderConfig, len(c.ASN.Providers))
	for _, name := range c.ASN.Providers {
		out[name] = ports.ProviderConfig{
			BaseURL:   c.ASN.BaseURLs[name],
			Timeout:   c.ASNTimeout(),
			ProxyURL:  c.Network.ProxyURL,
			UserAgent: c.Network.UserAgent,
		}
	}
	return out
}

// ToJSON serializa la configuración a JSON (útil para debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// String resume la configuración para el log de arranque.
func (c Config) String() string {
	return fmt.Sprintf("Config{concurrency=%d, timeout=%s, per_prefix=%d, expand_all=%t, providers=%v}",
		c.Core.Concurrency, c.Timeout(), c.Core.PerPrefix, c.Core.ExpandAllIPs, c.ASN.Providers)
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseLevel(s string) (string, bool) {
	switch s {
	case "debug", "info", "warn", "warning", "error":
		return s, true
	default:
		return "", false
	}
}
