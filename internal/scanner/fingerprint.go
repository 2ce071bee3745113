package scanner

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/platform/errors"
)

const maxTitleLen = 128

// Evidence es lo que se pudo extraer de la respuesta.
type Evidence struct {
	Status int
	Server string
	Title  string
}

// Fingerprinter clasifica la respuesta de un único request. No guarda
// estado entre llamadas y es seguro para uso concurrente.
type Fingerprinter struct {
	markers  []string
	body     []*regexp.Regexp
	versions []*regexp.Regexp
}

// NewFingerprinter compila las expresiones del conjunto.
func NewFingerprinter(set *SignatureSet) (*Fingerprinter, error) {
	if set == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "nil signature set")
	}

	f := &Fingerprinter{markers: set.ServerMarkers}
	for _, p := range set.BodyPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(errors.Mark(err, errors.ErrInvalidInput), "body pattern %q", p)
		}
		f.body = append(f.body, re)
	}
	for _, p := range set.VersionPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(errors.Mark(err, errors.ErrInvalidInput), "version pattern %q", p)
		}
		if re.NumSubexp() < 1 {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "version pattern %q has no capture group", p)
		}
		f.versions = append(f.versions, re)
	}
	return f, nil
}

// Classify decide entre ServiceMatch y OpenNoMatch a partir de los bytes
// leídos. raw puede estar truncado o no ser HTTP.
func (f *Fingerprinter) Classify(raw []byte) (domain.Outcome, Evidence) {
	ev, body := parseHTTP(raw)
	ev.Title = extractTitle(body)

	matched := false
	server := strings.ToLower(ev.Server)
	for _, m := range f.markers {
		if m != "" && strings.Contains(server, m) {
			matched = true
			break
		}
	}
	if !matched {
		for _, re := range f.body {
			if re.Match(raw) {
				matched = true
				break
			}
		}
	}
	if !matched {
		return domain.OpenNoMatch(), ev
	}

	return domain.ServiceMatch(f.version(raw)), ev
}

func (f *Fingerprinter) version(raw []byte) string {
	for _, re := range f.versions {
		if m := re.FindSubmatch(raw); len(m) > 1 {
			return string(m[1])
		}
	}
	return ""
}

// parseHTTP separa cabeceras y cuerpo. Si raw no es HTTP el cuerpo es raw
// entero y la evidencia queda vacía.
func parseHTTP(raw []byte) (Evidence, []byte) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(raw)), nil)
	if err != nil {
		return Evidence{}, raw
	}
	defer resp.Body.Close()

	// truncado es lo normal: nos quedamos con lo que haya
	body, _ := io.ReadAll(resp.Body)
	return Evidence{
		Status: resp.StatusCode,
		Server: resp.Header.Get("Server"),
	}, body
}

// extractTitle devuelve el texto del primer <title>, con espacios
// colapsados y recortado a maxTitleLen.
func extractTitle(body []byte) string {
	z := html.NewTokenizer(bytes.NewReader(body))
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			inTitle = string(name) == "title"
		case html.TextToken:
			if inTitle {
				t := strings.Join(strings.Fields(string(z.Text())), " ")
				if r := []rune(t); len(r) > maxTitleLen {
					t = string(r[:maxTitleLen])
				}
				return t
			}
		case html.EndTagToken:
			inTitle = false
		}
	}
}
