package integration

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/clusterconf/internal/application"
	"github.com/eugenenazirov/clusterconf/internal/config"
	"github.com/eugenenazirov/clusterconf/internal/resolver"
)

func writeProperties(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write properties file: %v", err)
	}
}

func TestConfigurationFlow(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	writeProperties(t, path, `
LOCAL_IP=node1.example.com
LOCAL_META_PORT=7003
REPLICA_NUM=3
CONSISTENCY_LEVEL=strong
SEED_NODES=node1.example.com:9003:9004, 192.168.1.9:9003:9004
`)

	hosts := map[string]string{"node1.example.com": "10.0.0.5"}
	lookup := func(host string) ([]net.IP, error) {
		ip, ok := hosts[host]
		if !ok {
			return nil, fmt.Errorf("lookup %s: no such host", host)
		}
		return []net.IP{net.ParseIP(ip)}, nil
	}

	app, err := application.New(zaptest.NewLogger(t), []string{"--client_port=7777"},
		application.WithLocator(config.SourceLocator{ExplicitPath: path}),
		application.WithResolver(resolver.New(resolver.WithLookup(lookup))))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	cfg := app.Config()
	if cfg.LocalMetaPort != 7003 {
		t.Fatalf("expected properties meta port, got %d", cfg.LocalMetaPort)
	}
	if cfg.LocalClientPort != 7777 {
		t.Fatalf("expected CLI client port, got %d", cfg.LocalClientPort)
	}
	if cfg.LocalDataPort != 9004 {
		t.Fatalf("expected default data port, got %d", cfg.LocalDataPort)
	}
	if cfg.ReplicationFactor != 3 || cfg.ConsistencyLevel != config.StrongConsistency {
		t.Fatalf("unexpected replication settings: %d/%s",
			cfg.ReplicationFactor, cfg.ConsistencyLevel)
	}

	if err := app.NormalizeAddresses(); err != nil {
		t.Fatalf("NormalizeAddresses returned error: %v", err)
	}
	if cfg.LocalIP != "10.0.0.5" {
		t.Fatalf("expected resolved local IP, got %s", cfg.LocalIP)
	}
	seeds := cfg.SeedNodeURLs()
	if len(seeds) != 2 || seeds[0] != "10.0.0.5:9003:9004" || seeds[1] != "192.168.1.9:9003:9004" {
		t.Fatalf("unexpected seed nodes after normalization: %v", seeds)
	}

	// Hot reload picks up the whitelisted subset and nothing else.
	writeProperties(t, path, `
MAX_REMOVED_LOG_SIZE=500
LOCAL_META_PORT=1
SEED_NODES=other:1:2
`)
	if err := app.Reload(); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	if cfg.MaxRemovedLogSize() != 500 {
		t.Fatalf("expected reloaded max removed log size, got %d", cfg.MaxRemovedLogSize())
	}
	if cfg.LocalMetaPort != 7003 {
		t.Fatalf("expected frozen meta port, got %d", cfg.LocalMetaPort)
	}
	if got := cfg.SeedNodeURLs(); got[0] != "10.0.0.5:9003:9004" {
		t.Fatalf("expected frozen seed nodes, got %v", got)
	}

	// A failed reload keeps the live configuration.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove properties file: %v", err)
	}
	if err := app.Reload(); err == nil {
		t.Fatalf("expected error reloading a removed file")
	}
	if cfg.MaxRemovedLogSize() != 500 {
		t.Fatalf("expected untouched value after failed reload, got %d", cfg.MaxRemovedLogSize())
	}
}
