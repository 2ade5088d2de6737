package config

import (
	"fmt"
	"strings"

	"go.uber.org/atomic"
)

const (
	defaultLocalIP                   = "127.0.0.1"
	defaultLocalMetaPort             = 9003
	defaultLocalDataPort             = 9004
	defaultLocalClientPort           = 6667
	defaultReplicationFactor         = 2
	defaultMaxConcurrentClientNum    = 1024
	defaultConnectionTimeoutMS       = 20000
	defaultQueryTimeoutSec           = 30
	defaultMaxRemovedLogSize         = int64(128) << 20
	defaultMaxNumberOfLogs           = 1000
	defaultLogDeleteCheckIntervalSec = 60
)

// ConsistencyLevel is the read/write guarantee mode replicas enforce.
type ConsistencyLevel int

const (
	StrongConsistency ConsistencyLevel = iota
	MidConsistency
	WeakConsistency
)

// ParseConsistencyLevel maps a textual level to a ConsistencyLevel. Matching
// is case-insensitive.
func ParseConsistencyLevel(raw string) (ConsistencyLevel, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "strong":
		return StrongConsistency, nil
	case "mid":
		return MidConsistency, nil
	case "weak":
		return WeakConsistency, nil
	}
	return 0, fmt.Errorf("unknown consistency level %q", raw)
}

func (l ConsistencyLevel) String() string {
	switch l {
	case StrongConsistency:
		return "strong"
	case MidConsistency:
		return "mid"
	case WeakConsistency:
		return "weak"
	}
	return fmt.Sprintf("ConsistencyLevel(%d)", int(l))
}

// ClusterConfig is the process-wide configuration record for a cluster node.
// It is constructed once with defaults, mutated by the Loader and the
// address-normalization pass during startup, and afterwards only through the
// hot-reload path. The three hot-modifiable tuning knobs live behind atomic
// cells so concurrent readers never observe torn values; every other field is
// frozen once startup completes and needs no synchronization.
type ClusterConfig struct {
	// LocalIP is a literal IP after the normalization pass; before that it
	// may still be a hostname.
	LocalIP         string
	LocalMetaPort   int
	LocalDataPort   int
	LocalClientPort int

	ReplicationFactor int
	ConsistencyLevel  ConsistencyLevel

	QueryTimeoutSec           int
	MaxNumberOfLogs           int
	LogDeleteCheckIntervalSec int

	UseBatchInLogCatchUp        bool
	EnableAutoCreateSchema      bool
	RPCThriftCompressionEnabled bool

	// seedNodeURLs entries have the validated host:meta_port:data_port form.
	// Order is bootstrap priority order; duplicates are kept.
	seedNodeURLs []string

	maxConcurrentClientNum atomic.Int32
	connectionTimeoutMS    atomic.Int32
	maxRemovedLogSize      atomic.Int64
}

// DefaultClusterConfig returns a ClusterConfig with every field set to its
// built-in default.
func DefaultClusterConfig() *ClusterConfig {
	cfg := &ClusterConfig{
		LocalIP:                   defaultLocalIP,
		LocalMetaPort:             defaultLocalMetaPort,
		LocalDataPort:             defaultLocalDataPort,
		LocalClientPort:           defaultLocalClientPort,
		ReplicationFactor:         defaultReplicationFactor,
		ConsistencyLevel:          MidConsistency,
		QueryTimeoutSec:           defaultQueryTimeoutSec,
		MaxNumberOfLogs:           defaultMaxNumberOfLogs,
		LogDeleteCheckIntervalSec: defaultLogDeleteCheckIntervalSec,
		UseBatchInLogCatchUp:      true,
		EnableAutoCreateSchema:    true,
		seedNodeURLs: []string{
			fmt.Sprintf("%s:%d:%d", defaultLocalIP, defaultLocalMetaPort, defaultLocalDataPort),
		},
	}
	cfg.maxConcurrentClientNum.Store(defaultMaxConcurrentClientNum)
	cfg.connectionTimeoutMS.Store(defaultConnectionTimeoutMS)
	cfg.maxRemovedLogSize.Store(defaultMaxRemovedLogSize)
	return cfg
}

// SeedNodeURLs returns a defensive copy of the seed node bootstrap list.
func (c *ClusterConfig) SeedNodeURLs() []string {
	out := make([]string, len(c.seedNodeURLs))
	copy(out, c.seedNodeURLs)
	return out
}

// SetSeedNodeURLs replaces the seed node bootstrap list with a copy of urls.
func (c *ClusterConfig) SetSeedNodeURLs(urls []string) {
	out := make([]string, len(urls))
	copy(out, urls)
	c.seedNodeURLs = out
}

// MaxConcurrentClientNum returns the client connection limit. Hot-reloadable.
func (c *ClusterConfig) MaxConcurrentClientNum() int {
	return int(c.maxConcurrentClientNum.Load())
}

// SetMaxConcurrentClientNum atomically replaces the client connection limit.
func (c *ClusterConfig) SetMaxConcurrentClientNum(n int) {
	c.maxConcurrentClientNum.Store(int32(n))
}

// ConnectionTimeoutMS returns the connection timeout in milliseconds.
// Hot-reloadable.
func (c *ClusterConfig) ConnectionTimeoutMS() int {
	return int(c.connectionTimeoutMS.Load())
}

// SetConnectionTimeoutMS atomically replaces the connection timeout.
func (c *ClusterConfig) SetConnectionTimeoutMS(ms int) {
	c.connectionTimeoutMS.Store(int32(ms))
}

// MaxRemovedLogSize returns the removed-log size threshold in bytes.
// Hot-reloadable.
func (c *ClusterConfig) MaxRemovedLogSize() int64 {
	return c.maxRemovedLogSize.Load()
}

// SetMaxRemovedLogSize atomically replaces the removed-log size threshold.
func (c *ClusterConfig) SetMaxRemovedLogSize(size int64) {
	c.maxRemovedLogSize.Store(size)
}

// Validate checks the semantic well-formedness of the resolved configuration.
// It does not test port availability or host reachability.
func (c *ClusterConfig) Validate() error {
	for _, port := range []struct {
		name  string
		value int
	}{
		{"meta port", c.LocalMetaPort},
		{"data port", c.LocalDataPort},
		{"client port", c.LocalClientPort},
	} {
		if !validPort(port.value) {
			return fmt.Errorf("%s %d out of range 1-65535", port.name, port.value)
		}
	}
	if c.ReplicationFactor < 1 {
		return fmt.Errorf("replication factor %d must be at least 1", c.ReplicationFactor)
	}
	return nil
}

func validPort(port int) bool {
	return port >= 1 && port <= 65535
}
