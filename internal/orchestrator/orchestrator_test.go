package orchestrator

import "testing"

func TestDefaultRunConfig(t *testing.T) {
	cfg := DefaultRunConfig()
	if cfg.MemoryLimitBytes != 1<<30 {
		t.Errorf("MemoryLimitBytes = %d, want 1GiB", cfg.MemoryLimitBytes)
	}
	if cfg.PidsLimit != 100 {
		t.Errorf("PidsLimit = %d, want 100", cfg.PidsLimit)
	}
	if cfg.CPUs != 1 {
		t.Errorf("CPUs = %d, want 1", cfg.CPUs)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0 (no deadline)", cfg.Timeout)
	}
}
