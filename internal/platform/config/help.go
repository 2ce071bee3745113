// internal/platform/config/help.go
package config

import (
	"fmt"
	"os"
	"runtime"
)

const helpText = `
webfigscan - MikroTik WebFig scanner

USAGE:
  webfigscan <ip|cidr|start-end> [options]
  webfigscan --asn <AS> [options]
  webfigscan --asn-file <path> [options]

TARGET (exactly one):
  <target>                 Single IPv4, CIDR block or start-end range
  --asn string             Autonomous system, e.g. 13335 or AS13335
  --cidr string            IPv4 block, e.g. 144.48.115.0/24
  --ip-range string        IPv4 range, e.g. 10.0.0.1-10.0.0.254
  --asn-file string        File with one IPv4 prefix per line (# comments allowed)

PORTS:
  --ports string           Ports list, e.g. 80,443,8080-8090 (default: 80,8080,443)
  --all-ports              Scan ports 1-65535

EXPANSION:
  --per-prefix int         Addresses probed per CIDR block (default: 1)
  --expand-all-ips         Probe every address of every CIDR block
                           (ranges are always fully expanded)

SCAN:
  -c, --concurrency int    Probes in flight (default: 400)
  --timeout-ms int         Per-probe timeout in milliseconds (default: 800)
  --rate float             Probe admissions per second, 0=unlimited (default: 0)
  --warn-targets uint      Warn above this many probes, 0=never (default: 16777216)

ASN LOOKUP:
  --asn-providers list     Providers in fallback order (default: ripestat,bgpview)
  --asn-timeout int        Lookup timeout in seconds (default: 15)

NETWORK:
  --proxy string           Proxy URL; socks5:// is also used for probes
  --user-agent string      User-Agent sent with every request

FINGERPRINT:
  --signatures string      YAML signature set (overrides the embedded one)

OUTPUT:
  -o, --output string      Write every outcome as JSON Lines
  -q, --quiet              Only print the summary
  --show-all               Print non-matching outcomes too
  --no-color               Disable colors
  --log-level string       debug, info, warn or error (default: info)

OTHER:
  --config string          YAML configuration file
  -v, --version            Print version information and exit
  -h, --help               Show this help message

EXAMPLES:
  Single router, default ports:
    webfigscan 192.168.88.1

  One address per announced prefix of an ASN:
    webfigscan --asn AS13335 --ports 80,8080

  Full /24 on every port, through a SOCKS proxy:
    webfigscan --cidr 203.0.113.0/24 --expand-all-ips --all-ports -c 1000 --proxy socks5://127.0.0.1:1080

  Save results:
    webfigscan --ip-range 10.0.0.1-10.0.0.254 -o results.jsonl

ENVIRONMENT VARIABLES:
  Every option can be set with the WEBFIGSCAN_ prefix:

  WEBFIGSCAN_ASN=13335              Target ASN
  WEBFIGSCAN_PORTS=80,8291          Ports list
  WEBFIGSCAN_CONCURRENCY=800        Probes in flight
  WEBFIGSCAN_TIMEOUT_MS=1500        Per-probe timeout
  WEBFIGSCAN_PROXY_URL=socks5://..  Proxy URL
  WEBFIGSCAN_RIPESTAT_URL=http://.. Provider base URL (any provider name)
  WEBFIGSCAN_LOG_LEVEL=debug        Log level

  Precedence: defaults < --config file < environment < flags.

EXIT STATUS:
  0  scan completed (whatever the per-target outcomes)
  1  ASN resolution or output failure
  2  invalid target, port or configuration
  130 interrupted (partial summary is still printed)
`

// PrintHelp prints the custom help message and exits.
func PrintHelp() {
	fmt.Fprint(os.Stdout, helpText)
	os.Exit(0)
}

// PrintVersion prints version information and exits.
func PrintVersion(version, commit, date string) {
	fmt.Printf("webfigscan %s\n", version)
	fmt.Printf("  Commit:  %s\n", commit)
	fmt.Printf("  Built:   %s\n", date)
	fmt.Printf("  Go:      %s\n", getGoVersion())
	os.Exit(0)
}

func getGoVersion() string {
	return runtime.Version()
}
