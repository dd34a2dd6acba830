// Command casm reads a hybrid high-level/assembly source file and writes
// the fully-expanded, stdlib-linked assembly output, per specification §6.
// It never shells out to an assembler, linker, or compiler driver; that
// remains a separate build collaborator's job.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/504sarwarerror/CASM/internal/casm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var verbose bool

var command = &cobra.Command{
	Use:  "casm source [-o output]",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.PersistentFlags().GetString("output")
		target, _ := cmd.PersistentFlags().GetString("target-os")
		if cmd.PersistentFlags().Changed("target") {
			target, _ = cmd.PersistentFlags().GetString("target")
		}
		arch, _ := cmd.PersistentFlags().GetString("arch")
		bits, _ := cmd.PersistentFlags().GetInt("bits")
		includePaths, _ := cmd.PersistentFlags().GetStringSlice("include-path")
		ldflags, _ := cmd.PersistentFlags().GetString("ldflags")

		logger := newLogger(verbose)

		source, err := os.ReadFile(args[0])
		if err != nil {
			logger.WithError(err).Error("reading input")
			os.Exit(1)
		}

		if output == "" {
			output = strings.TrimSuffix(args[0], ".casm") + ".asm"
		}

		cfg := casm.Config{
			Target:       target,
			Arch:         arch,
			Bits:         bits,
			Verbose:      verbose,
			InputPath:    args[0],
			OutputPath:   output,
			IncludePaths: includePaths,
			LDFlags:      ldflags,
		}

		result, diagnostics, err := casm.Compile(string(source), cfg, logger)
		for _, d := range diagnostics {
			logger.WithField("kind", d.Kind.String()).Warn(wrap(d.Error(), logger))
		}
		if err != nil {
			logger.Error(wrap(err.Error(), logger))
			os.Exit(1)
		}

		if err := os.WriteFile(output, []byte(result), 0o644); err != nil {
			logger.WithError(err).Error("writing output")
			os.Exit(1)
		}
	},
}

// newLogger configures a logrus.TextFormatter logger at Debug level when -v
// is set, Warn level otherwise, matching goat's verbosity handling but
// upgraded to structured logging.
func newLogger(verbose bool) *log.Entry {
	l := log.New()
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if verbose {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.WarnLevel)
	}
	return log.NewEntry(l)
}

// wrap soft-wraps a diagnostic line to the terminal width when stderr is a
// TTY, leaving piped output (CI logs) untouched.
func wrap(msg string, logger *log.Entry) string {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return msg
	}
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 || len(msg) <= width {
		return msg
	}
	var b strings.Builder
	for len(msg) > width {
		b.WriteString(msg[:width])
		b.WriteString("\n    ")
		msg = msg[width:]
	}
	b.WriteString(msg)
	return b.String()
}

func init() {
	command.PersistentFlags().StringP("output", "o", "", "output file path (defaults to <input> with .asm extension)")
	command.PersistentFlags().StringP("target", "t", "", "alias for --target-os, kept for CLI symmetry with goat's -t/--target")
	command.PersistentFlags().String("target-os", "linux", "target operating system (linux, macos, windows)")
	command.PersistentFlags().String("arch", "x86_64", "target architecture (x86_64, arm64)")
	command.PersistentFlags().Int("bits", 64, "generation width (32 or 64)")
	command.PersistentFlags().StringSliceP("include-path", "I", nil, "search path for %include directives, recorded on casm.Config.IncludePaths; include expansion resolves paths against the working directory and as absolute paths only")
	command.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "if set, log each pipeline stage at debug level")
	command.PersistentFlags().String("ldflags", "", "linker flags recorded for a future build collaborator; not acted on by casm itself")
}

func main() {
	if err := command.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
