package config

import (
	"testing"
)

func TestDefaultClusterConfig(t *testing.T) {
	cfg := DefaultClusterConfig()

	if cfg.LocalIP != "127.0.0.1" {
		t.Fatalf("unexpected default local IP: %s", cfg.LocalIP)
	}
	if cfg.LocalMetaPort != 9003 || cfg.LocalDataPort != 9004 || cfg.LocalClientPort != 6667 {
		t.Fatalf("unexpected default ports: %d/%d/%d",
			cfg.LocalMetaPort, cfg.LocalDataPort, cfg.LocalClientPort)
	}
	if got := cfg.SeedNodeURLs(); len(got) != 1 || got[0] != "127.0.0.1:9003:9004" {
		t.Fatalf("unexpected default seed nodes: %v", got)
	}
	if cfg.ReplicationFactor != 2 {
		t.Fatalf("unexpected default replication factor: %d", cfg.ReplicationFactor)
	}
	if cfg.ConsistencyLevel != MidConsistency {
		t.Fatalf("unexpected default consistency level: %s", cfg.ConsistencyLevel)
	}
	if cfg.MaxConcurrentClientNum() != 1024 {
		t.Fatalf("unexpected default max concurrent clients: %d", cfg.MaxConcurrentClientNum())
	}
	if cfg.ConnectionTimeoutMS() != 20000 {
		t.Fatalf("unexpected default connection timeout: %d", cfg.ConnectionTimeoutMS())
	}
	if cfg.MaxRemovedLogSize() != int64(128)<<20 {
		t.Fatalf("unexpected default max removed log size: %d", cfg.MaxRemovedLogSize())
	}
	if !cfg.UseBatchInLogCatchUp || !cfg.EnableAutoCreateSchema || cfg.RPCThriftCompressionEnabled {
		t.Fatalf("unexpected default booleans")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration failed validation: %v", err)
	}
}

func TestParseConsistencyLevel(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cases := map[string]ConsistencyLevel{
			"strong": StrongConsistency,
			"STRONG": StrongConsistency,
			"mid":    MidConsistency,
			" Weak ": WeakConsistency,
		}
		for raw, want := range cases {
			got, err := ParseConsistencyLevel(raw)
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", raw, err)
			}
			if got != want {
				t.Fatalf("expected %s for %q, got %s", want, raw, got)
			}
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := ParseConsistencyLevel("eventual"); err == nil {
			t.Fatalf("expected error for unknown level")
		}
		if _, err := ParseConsistencyLevel(""); err == nil {
			t.Fatalf("expected error for empty level")
		}
	})
}

func TestSeedNodeURLsReturnsCopy(t *testing.T) {
	cfg := DefaultClusterConfig()

	urls := cfg.SeedNodeURLs()
	urls[0] = "mutated:1:2"

	if got := cfg.SeedNodeURLs(); got[0] != "127.0.0.1:9003:9004" {
		t.Fatalf("mutating the returned slice leaked into the config: %v", got)
	}

	in := []string{"a:1:2"}
	cfg.SetSeedNodeURLs(in)
	in[0] = "mutated:3:4"
	if got := cfg.SeedNodeURLs(); got[0] != "a:1:2" {
		t.Fatalf("mutating the input slice leaked into the config: %v", got)
	}
}

func TestReloadableAccessors(t *testing.T) {
	cfg := DefaultClusterConfig()

	cfg.SetMaxConcurrentClientNum(50)
	cfg.SetConnectionTimeoutMS(1500)
	cfg.SetMaxRemovedLogSize(500)

	if cfg.MaxConcurrentClientNum() != 50 {
		t.Fatalf("unexpected max concurrent clients: %d", cfg.MaxConcurrentClientNum())
	}
	if cfg.ConnectionTimeoutMS() != 1500 {
		t.Fatalf("unexpected connection timeout: %d", cfg.ConnectionTimeoutMS())
	}
	if cfg.MaxRemovedLogSize() != 500 {
		t.Fatalf("unexpected max removed log size: %d", cfg.MaxRemovedLogSize())
	}
}

func TestValidate(t *testing.T) {
	t.Run("port out of range", func(t *testing.T) {
		cfg := DefaultClusterConfig()
		cfg.LocalMetaPort = 70000
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for out-of-range port")
		}

		cfg = DefaultClusterConfig()
		cfg.LocalClientPort = 0
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for zero port")
		}
	})

	t.Run("replication factor", func(t *testing.T) {
		cfg := DefaultClusterConfig()
		cfg.ReplicationFactor = 0
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for replication factor below 1")
		}
	})
}
