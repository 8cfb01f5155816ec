package version

import "fmt"

// Значения подставляются при сборке через -ldflags:
//
//	-X .../internal/version.version=v1.2.3
//	-X .../internal/version.commit=abc1234
//	-X .../internal/version.builtAt=2026-08-28T10:00:00Z
var (
	version = "dev"
	commit  = "unknown"
	builtAt = "unknown"
)

// Build описывает версию собранного бинаря.
type Build struct {
	Version string
	Commit  string
	BuiltAt string
}

// Current возвращает информацию о текущей сборке.
func Current() Build {
	return Build{Version: version, Commit: commit, BuiltAt: builtAt}
}

func (b Build) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", b.Version, b.Commit, b.BuiltAt)
}
