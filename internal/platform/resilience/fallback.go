// internal/platform/resilience/fallback.go
package resilience

import (
	"context"
	"fmt"

	"webfigscan/internal/platform/errors"
	"webfigscan/internal/platform/logx"
)

// ErrNoAttempts se devuelve cuando la cadena está vacía.
var ErrNoAttempts = errors.New("fallback chain has no attempts")

// Attempt es un paso de la cadena: una estrategia con nombre y contrato
// uniforme de éxito/fallo.
type Attempt[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Failure registra un intento fallido.
type Failure struct {
	Name string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Outcome es el resultado de FirstSuccess.
type Outcome[T any] struct {
	Value T

	// Winner es el nombre del intento que tuvo éxito ("" si ninguno)
	Winner string

	// Failures en el orden en que ocurrieron
	Failures []Failure
}

// Last devuelve el último fallo registrado.
func (o Outcome[T]) Last() (Failure, bool) {
	if len(o.Failures) == 0 {
		return Failure{}, false
	}
	return o.Failures[len(o.Failures)-1], true
}

// FirstSuccess ejecuta los intentos en orden, cada uno exactamente una vez,
// y se detiene en el primero que no devuelve error. Si todos fallan el error
// devuelto es el del último intento. Un ctx cancelado corta la cadena.
func FirstSuccess[T any](ctx context.Context, logger logx.Logger, attempts []Attempt[T]) (Outcome[T], error) {
	var out Outcome[T]
	if len(attempts) == 0 {
		return out, ErrNoAttempts
	}
	if logger == nil {
		logger = logx.Nop()
	}

	for i, a := range attempts {
		if err := ctx.Err(); err != nil {
			out.Failures = append(out.Failures, Failure{Name: a.Name, Err: err})
			return out, err
		}

		v, err := a.Run(ctx)
		if err == nil {
			out.Value = v
			out.Winner = a.Name
			if i > 0 {
				logger.Info("fallback succeeded", "attempt", a.Name, "position", i+1)
			}
			return out, nil
		}

		out.Failures = append(out.Failures, Failure{Name: a.Name, Err: err})
		if i < len(attempts)-1 {
			logger.Warn("attempt failed, falling back",
				"attempt", a.Name,
				"next", attempts[i+1].Name,
				"error", err.Error(),
			)
		}
	}

	last := out.Failures[len(out.Failures)-1]
	logger.Warn("all attempts failed", "count", len(attempts), "last", last.Name)
	return out, last.Err
}
