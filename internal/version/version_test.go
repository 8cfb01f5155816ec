package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentDefaults(t *testing.T) {
	b := Current()

	assert.Equal(t, "dev", b.Version)
	assert.Equal(t, "unknown", b.Commit)
	assert.Equal(t, "unknown", b.BuiltAt)
}

func TestBuildString(t *testing.T) {
	b := Build{Version: "v1.2.3", Commit: "abc1234", BuiltAt: "2026-08-28T10:00:00Z"}

	assert.Equal(t, "v1.2.3 (commit abc1234, built 2026-08-28T10:00:00Z)", b.String())
}
