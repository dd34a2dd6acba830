package casm

import (
	"fmt"
	"time"

	"github.com/504sarwarerror/CASM/internal/checker"
	"github.com/504sarwarerror/CASM/internal/codegen"
	"github.com/504sarwarerror/CASM/internal/format"
	"github.com/504sarwarerror/CASM/internal/lexer"
	"github.com/504sarwarerror/CASM/internal/stdlib"
	log "github.com/sirupsen/logrus"
)

// noopLogger discards every entry, used when the caller passes a nil
// *log.Entry so the library never hard-codes an output stream.
var noopLogger = func() *log.Entry {
	l := log.New()
	l.SetOutput(discard{})
	return log.NewEntry(l)
}()

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Compile runs the single sequential pipeline lexer -> checker -> generator
// -> stdlib closure -> formatter, per specification §2/§5. The returned
// error is non-nil for a fatal diagnostic kind (LexicalError, SyntaxError,
// IOError), and also, as an UnsupportedConfig diagnostic, when no backend
// or stdlib catalogue matches cfg. Structural imbalances and generation
// warnings are returned alongside a successful result as collected
// diagnostics.
func Compile(source string, cfg Config, logger *log.Entry) (string, []*Diagnostic, error) {
	if logger == nil {
		logger = noopLogger
	}

	backend, err := codegen.GetBackend(cfg.Arch, cfg.Bits, cfg.Target)
	if err != nil {
		return "", nil, NewDiagnostic(UnsupportedConfig, 0, "%v", err)
	}

	start := time.Now()
	step := func(name string, t0 time.Time) {
		logger.WithField("elapsed", time.Since(t0)).Debugf("%s complete", name)
	}

	t0 := time.Now()
	tokens, err := lexer.Lex(source)
	if err != nil {
		return "", nil, NewDiagnostic(LexicalError, 0, "%v", err)
	}
	step("lexing", t0)

	t0 = time.Now()
	structural := checker.Check(tokens)
	step("checking", t0)
	var diagnostics []*Diagnostic
	diagnostics = append(diagnostics, structural...)
	for _, d := range structural {
		if d.Kind.Fatal() {
			return "", diagnostics, d
		}
	}

	t0 = time.Now()
	gen := codegen.NewGenerator(tokens, backend)
	result, err := gen.Generate()
	if err != nil {
		if diag, ok := err.(*Diagnostic); ok {
			return "", diagnostics, diag
		}
		return "", diagnostics, NewDiagnostic(SyntaxError, 0, "%v", err)
	}
	step("generating", t0)
	diagnostics = append(diagnostics, result.Diagnostics...)

	t0 = time.Now()
	cat, err := catalogueFor(cfg)
	if err != nil {
		return "", diagnostics, NewDiagnostic(UnsupportedConfig, 0, "%v", err)
	}
	step("resolving stdlib", t0)

	t0 = time.Now()
	output := format.Merge(source, result.Emissions, result.Data, result.UsedStdlib, cat, backend)
	step("formatting", t0)

	logger.WithField("elapsed", time.Since(start)).Debug("compile complete")
	return output, diagnostics, nil
}

// catalogueFor selects the stdlib catalogue matching the configured target
// and architecture, per specification §4.4's (target, arch) keying.
func catalogueFor(cfg Config) (*stdlib.Catalogue, error) {
	switch {
	case cfg.Arch == "arm64":
		return stdlib.PosixARM64(), nil
	case cfg.Target == "windows":
		return stdlib.WindowsX86_64(), nil
	case cfg.Arch == "x86_64" || cfg.Arch == "":
		return stdlib.PosixX86_64(), nil
	default:
		return nil, fmt.Errorf("no stdlib catalogue for arch=%s target=%s", cfg.Arch, cfg.Target)
	}
}
