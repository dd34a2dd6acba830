package casm

// Config is the CLI collaborator's output, consumed by Compile. It mirrors
// the teacher's TranslateUnit configuration struct built from cobra flags in
// main.go.
type Config struct {
	Target       string // "windows", "linux", or "macos"
	Arch         string // "x86_64" or "arm64"
	Bits         int    // 32 or 64
	Verbose      bool
	InputPath    string
	OutputPath   string
	IncludePaths []string

	// LDFlags is recorded, never acted on: a future build collaborator's
	// input, out of scope for this compiler per specification §1.
	LDFlags string
}
