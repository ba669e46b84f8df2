package harness

import (
	"fmt"
	"os"
	"path/filepath"
)

// Kind identifies which benchmark implementation a binary belongs to.
type Kind string

const (
	CPU Kind = "cpu"
	PIM Kind = "pim"
)

// DefaultBinaryName returns the file name the build produces for kind.
func DefaultBinaryName(kind Kind) string {
	switch kind {
	case CPU:
		return "cpu_bench"
	case PIM:
		return "pim_bench"
	default:
		return string(kind) + "_bench"
	}
}

// ResolveBinary returns the path of a benchmark binary inside the build
// directory. An absolute name is returned unchanged.
func ResolveBinary(buildDir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(buildDir, name)
}

// CheckBinary verifies that path exists and is an executable file.
func CheckBinary(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("benchmark binary: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("benchmark binary %s is a directory", path)
	}

	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("benchmark binary %s is not executable", path)
	}

	return nil
}
