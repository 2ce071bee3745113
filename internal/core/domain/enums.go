// internal/core/domain/enums.go
package domain

// TargetKind identifica la variante activa de un TargetSpec.
type TargetKind int

const (
	TargetSingle     TargetKind = iota // una sola dirección
	TargetRange                        // inicio-fin inclusivo
	TargetCIDR                         // bloque a.b.c.d/n
	TargetASN                          // sistema autónomo
	TargetPrefixFile                   // fichero con un prefijo por línea
)

// String retorna la representación string del tipo.
func (k TargetKind) String() string {
	switch k {
	case TargetSingle:
		return "single"
	case TargetRange:
		return "range"
	case TargetCIDR:
		return "cidr"
	case TargetASN:
		return "asn"
	case TargetPrefixFile:
		return "prefix-file"
	default:
		return "unknown"
	}
}

// OutcomeKind clasifica el resultado de un probe.
type OutcomeKind int

const (
	// OutcomeServiceMatch el puerto habla el servicio buscado
	OutcomeServiceMatch OutcomeKind = iota

	// OutcomeOpenNoMatch hubo respuesta pero sin firma reconocida
	OutcomeOpenNoMatch

	// OutcomeClosed conexión rechazada o cortada sin respuesta
	OutcomeClosed

	// OutcomeTimedOut no hubo respuesta dentro del timeout
	OutcomeTimedOut

	// OutcomeConnectionError cualquier otro fallo de E/S
	OutcomeConnectionError
)

// OutcomeKinds lista todas las variantes en orden estable.
var OutcomeKinds = []OutcomeKind{
	OutcomeServiceMatch,
	OutcomeOpenNoMatch,
	OutcomeClosed,
	OutcomeTimedOut,
	OutcomeConnectionError,
}

// String retorna la representación string del resultado.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeServiceMatch:
		return "match"
	case OutcomeOpenNoMatch:
		return "open"
	case OutcomeClosed:
		return "closed"
	case OutcomeTimedOut:
		return "timeout"
	case OutcomeConnectionError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText permite usar OutcomeKind como string en JSON.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
