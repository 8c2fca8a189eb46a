// Package external generalizes §9's "Singleton external-demangler actor"
// design note into a plain dependency-injected collaborator: callers that
// want higher-fidelity demangling (e.g. by linking the vendor demangler)
// construct an implementation and pass it to resolver.New/decoder.Decode
// explicitly. There is no global mutable state and no package init().
package external

import "log"

// Demangler renders mangled symbols with a caller-supplied higher-fidelity
// engine. ok is false when the engine declines a symbol (unknown form,
// unavailable process, etc.); the caller falls back to the built-in
// demangler, per §7's "external demangler unavailable" policy.
type Demangler interface {
	Demangle(symbols []string) (rendered []string, ok bool)
}

// Passthrough is the default Demangler: it declines every request so every
// caller falls back to the built-in package's Demangle.
type Passthrough struct{}

func (Passthrough) Demangle([]string) ([]string, bool) { return nil, false }

// Logging wraps an Inner demangler and, when Debug is set, logs one line
// per Demangle call giving the number of symbols attempted. The flag is
// explicit and caller-controlled rather than read from an env var in init().
type Logging struct {
	Inner Demangler
	Debug bool
}

func (l Logging) Demangle(symbols []string) ([]string, bool) {
	if l.Debug {
		log.Printf("external demangler: attempting %d symbol(s)", len(symbols))
	}
	if l.Inner == nil {
		return nil, false
	}
	return l.Inner.Demangle(symbols)
}
