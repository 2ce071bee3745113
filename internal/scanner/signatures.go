package scanner

import (
	_ "embed"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"webfigscan/internal/platform/errors"
)

//go:embed signatures.yaml
var defaultSignaturesYAML []byte

// SignatureSet describe cómo reconocer el servicio y qué puertos probar por
// defecto. Se carga desde YAML: el embebido o uno pasado con --signatures.
type SignatureSet struct {
	Name            string   `yaml:"name"`
	DefaultPorts    []uint16 `yaml:"default_ports"`
	TLSPorts        []uint16 `yaml:"tls_ports"`
	ServerMarkers   []string `yaml:"server_markers"`
	BodyPatterns    []string `yaml:"body_patterns"`
	VersionPatterns []string `yaml:"version_patterns"`
	RequestPath     string   `yaml:"request_path"`
	MaxReadBytes    int      `yaml:"max_read_bytes"`
}

// DefaultSignatures devuelve el conjunto embebido.
func DefaultSignatures() *SignatureSet {
	set, err := ParseSignatures(defaultSignaturesYAML)
	if err != nil {
		// el YAML embebido se valida en los tests
		panic(err)
	}
	return set
}

// ParseSignatures decodifica un conjunto completo.
func ParseSignatures(data []byte) (*SignatureSet, error) {
	var set SignatureSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidInput), "parse signatures")
	}
	set.normalize()
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// LoadSignatures lee un fichero YAML. Los campos ausentes se heredan del
// conjunto embebido, así un fichero puede cambiar solo los puertos.
func LoadSignatures(path string) (*SignatureSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read signatures %s", path)
	}

	set := DefaultSignatures()
	if err := yaml.Unmarshal(data, set); err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrInvalidInput), "parse signatures %s", path)
	}
	set.normalize()
	if err := set.Validate(); err != nil {
		return nil, errors.Wrapf(err, "signatures %s", path)
	}
	return set, nil
}

func (s *SignatureSet) normalize() {
	if s.RequestPath == "" {
		s.RequestPath = "/"
	}
	if !strings.HasPrefix(s.RequestPath, "/") {
		s.RequestPath = "/" + s.RequestPath
	}
	if s.MaxReadBytes <= 0 {
		s.MaxReadBytes = 8192
	}
	for i, m := range s.ServerMarkers {
		s.ServerMarkers[i] = strings.ToLower(strings.TrimSpace(m))
	}
}

// Validate comprueba que el conjunto pueda reconocer algo.
func (s *SignatureSet) Validate() error {
	if len(s.ServerMarkers) == 0 && len(s.BodyPatterns) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "signature set has no server markers or body patterns")
	}
	for _, p := range append(append([]uint16(nil), s.DefaultPorts...), s.TLSPorts...) {
		if p == 0 {
			return errors.Wrap(errors.ErrInvalidInput, "signature set lists port 0")
		}
	}
	if s.MaxReadBytes > 1<<20 {
		return errors.Wrapf(errors.ErrInvalidInput, "max_read_bytes %d exceeds 1MiB", s.MaxReadBytes)
	}
	return nil
}

// IsTLSPort indica si el puerto se sondea con TLS.
func (s *SignatureSet) IsTLSPort(port uint16) bool {
	for _, p := range s.TLSPorts {
		if p == port {
			return true
		}
	}
	return false
}
