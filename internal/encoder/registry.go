package encoder

import (
	"fmt"
	"strings"
)

// order is the priority used when listing formats.
var order = []string{"png", "jpeg", "bmp"}

// aliases maps alternative spellings to format names.
var aliases = map[string]string{
	"jpg": "jpeg",
}

// Registry holds the preview encoders by format.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry with every built-in encoder.
func NewRegistry() *Registry {
	r := &Registry{encoders: make(map[string]Encoder)}
	for _, enc := range []Encoder{&PNGEncoder{}, &JPEGEncoder{}, &BMPEncoder{}} {
		r.encoders[enc.Format()] = enc
	}
	return r
}

// Get returns an encoder for the given format, or nil if unknown.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[normalize(format)]
}

// Available returns all format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range order {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// ResolveFormats keeps the known requested formats, without duplicates, in
// request order. An unknown format is an error.
func (r *Registry) ResolveFormats(requested []string) ([]string, error) {
	var resolved []string
	seen := map[string]bool{}
	for _, f := range requested {
		f = normalize(f)
		if f == "" {
			continue
		}
		if _, ok := r.encoders[f]; !ok {
			return nil, fmt.Errorf("unknown preview format %q (have %s)", f, strings.Join(r.Available(), ", "))
		}
		if !seen[f] {
			seen[f] = true
			resolved = append(resolved, f)
		}
	}
	return resolved, nil
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	return fmt.Sprintf("preview encoders: %s", strings.Join(r.Available(), ", "))
}

func normalize(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if a, ok := aliases[f]; ok {
		return a
	}
	return f
}
