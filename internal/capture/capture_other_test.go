//go:build !linux

package capture

import (
	"testing"

	"github.com/camstream/camstreamd/internal/config"
)

func TestOpenFailsOnUnsupportedPlatform(t *testing.T) {
	cfg := config.Default()
	if _, err := Open(cfg); err == nil {
		t.Fatal("expected an error opening capture on a non-linux platform")
	}
}
