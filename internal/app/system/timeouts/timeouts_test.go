package timeouts

import (
	"testing"
	"time"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	before := Current()
	t.Cleanup(func() { Configure(before) })

	Configure(Config{Short: 42 * time.Second})

	got := Current()
	if got.Short != 42*time.Second {
		t.Errorf("Short = %v, want 42s", got.Short)
	}
	if got.Ping != before.Ping {
		t.Errorf("Ping changed: %v -> %v", before.Ping, got.Ping)
	}
}
