package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/ini.v1"
)

const (
	// ConfigFileName is the fixed properties file name the source locator
	// looks for.
	ConfigFileName = "cluster.properties"

	// EnvConfDir names a directory holding ConfigFileName directly.
	EnvConfDir = "CLUSTER_CONF"
	// EnvNodeHome is the node installation root; the properties file lives
	// under its conf/ subdirectory.
	EnvNodeHome = "CLUSTER_HOME"
)

// Recognized properties keys. Keys are case-sensitive; unknown keys in the
// source are ignored.
const (
	keyLocalIP                = "LOCAL_IP"
	keyLocalMetaPort          = "LOCAL_META_PORT"
	keyLocalDataPort          = "LOCAL_DATA_PORT"
	keyLocalClientPort        = "LOCAL_CLIENT_PORT"
	keyMaxConcurrentClientNum = "MAX_CONCURRENT_CLIENT_NUM"
	keyReplicaNum             = "REPLICA_NUM"
	keyThriftCompression      = "ENABLE_THRIFT_COMPRESSION"
	keyConnectionTimeoutMS    = "CONNECTION_TIME_OUT_MS"
	keyQueryTimeoutSec        = "QUERY_TIME_OUT_SEC"
	keyMaxRemovedLogSize      = "MAX_REMOVED_LOG_SIZE"
	keyUseBatchInCatchUp      = "USE_BATCH_IN_CATCH_UP"
	keyMaxNumberOfLogs        = "MAX_NUMBER_OF_LOGS"
	keyLogDeleteCheckInterval = "LOG_DELETION_CHECK_INTERVAL_SECOND"
	keyEnableAutoCreateSchema = "ENABLE_AUTO_CREATE_SCHEMA"
	keyConsistencyLevel       = "CONSISTENCY_LEVEL"
	keySeedNodes              = "SEED_NODES"
)

// SourceLocator resolves the location of the properties source. Resolution
// order: the explicit path, then $CLUSTER_CONF/cluster.properties, then
// $CLUSTER_HOME/conf/cluster.properties. A locator that resolves to nothing
// means the node runs on defaults.
type SourceLocator struct {
	ExplicitPath string
}

// Resolve returns the properties file path and whether any location applied.
func (l SourceLocator) Resolve() (string, bool) {
	if l.ExplicitPath != "" {
		return l.ExplicitPath, true
	}
	if dir := os.Getenv(EnvConfDir); dir != "" {
		return filepath.Join(dir, ConfigFileName), true
	}
	if home := os.Getenv(EnvNodeHome); home != "" {
		return filepath.Join(home, "conf", ConfigFileName), true
	}
	return "", false
}

// Loader merges the configuration layers. Precedence per field: built-in
// default, then the properties file value when the key is present, then the
// command-line value applied separately via ApplyCommandLine. A missing key
// is a no-op; a present-but-malformed value is an error, never a silent fall
// back to the default.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a Loader that reports degraded paths on logger.
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load builds a ClusterConfig from defaults plus the properties overlay.
// An unresolvable or unreadable source degrades to defaults with a warning;
// a malformed value in a readable source fails the load.
func (l *Loader) Load(locator SourceLocator) (*ClusterConfig, error) {
	cfg := DefaultClusterConfig()

	path, ok := locator.Resolve()
	if !ok {
		l.logger.Warn("no properties file location configured, using default configuration",
			zap.String("file", ConfigFileName))
		return cfg, nil
	}

	source, err := ini.Load(path)
	if err != nil {
		l.logger.Warn("cannot read properties file, using default configuration",
			zap.String("path", path), zap.Error(err))
		return cfg, nil
	}

	l.logger.Info("reading properties file", zap.String("path", path))
	if err := applyProperties(cfg, source.Section("")); err != nil {
		return nil, fmt.Errorf("properties file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("properties file %s: %w", path, err)
	}
	return cfg, nil
}

func applyProperties(cfg *ClusterConfig, sec *ini.Section) error {
	if sec.HasKey(keyLocalIP) {
		cfg.LocalIP = sec.Key(keyLocalIP).String()
	}
	if err := overlayInt(sec, keyLocalMetaPort, &cfg.LocalMetaPort); err != nil {
		return err
	}
	if err := overlayInt(sec, keyLocalDataPort, &cfg.LocalDataPort); err != nil {
		return err
	}
	if err := overlayInt(sec, keyLocalClientPort, &cfg.LocalClientPort); err != nil {
		return err
	}
	if err := overlayInt(sec, keyReplicaNum, &cfg.ReplicationFactor); err != nil {
		return err
	}
	if err := overlayInt(sec, keyQueryTimeoutSec, &cfg.QueryTimeoutSec); err != nil {
		return err
	}
	if err := overlayInt(sec, keyMaxNumberOfLogs, &cfg.MaxNumberOfLogs); err != nil {
		return err
	}
	if err := overlayInt(sec, keyLogDeleteCheckInterval, &cfg.LogDeleteCheckIntervalSec); err != nil {
		return err
	}
	if err := overlayBool(sec, keyThriftCompression, &cfg.RPCThriftCompressionEnabled); err != nil {
		return err
	}
	if err := overlayBool(sec, keyUseBatchInCatchUp, &cfg.UseBatchInLogCatchUp); err != nil {
		return err
	}
	if err := overlayBool(sec, keyEnableAutoCreateSchema, &cfg.EnableAutoCreateSchema); err != nil {
		return err
	}

	// Hot-reloadable fields are routed through their atomic setters even at
	// load time so there is a single mutation path.
	maxClients := cfg.MaxConcurrentClientNum()
	if err := overlayInt(sec, keyMaxConcurrentClientNum, &maxClients); err != nil {
		return err
	}
	cfg.SetMaxConcurrentClientNum(maxClients)

	connTimeout := cfg.ConnectionTimeoutMS()
	if err := overlayInt(sec, keyConnectionTimeoutMS, &connTimeout); err != nil {
		return err
	}
	cfg.SetConnectionTimeoutMS(connTimeout)

	maxRemoved := cfg.MaxRemovedLogSize()
	if err := overlayInt64(sec, keyMaxRemovedLogSize, &maxRemoved); err != nil {
		return err
	}
	cfg.SetMaxRemovedLogSize(maxRemoved)

	if sec.HasKey(keyConsistencyLevel) {
		level, err := ParseConsistencyLevel(sec.Key(keyConsistencyLevel).String())
		if err != nil {
			return fmt.Errorf("property %s: %w", keyConsistencyLevel, err)
		}
		cfg.ConsistencyLevel = level
	}
	if sec.HasKey(keySeedNodes) {
		urls, err := ParseSeedURLs(sec.Key(keySeedNodes).String())
		if err != nil {
			return fmt.Errorf("property %s: %w", keySeedNodes, err)
		}
		cfg.SetSeedNodeURLs(urls)
	}
	return nil
}

func overlayInt(sec *ini.Section, name string, dst *int) error {
	if !sec.HasKey(name) {
		return nil
	}
	v, err := sec.Key(name).Int()
	if err != nil {
		return fmt.Errorf("property %s=%q: %w", name, sec.Key(name).String(), err)
	}
	*dst = v
	return nil
}

func overlayInt64(sec *ini.Section, name string, dst *int64) error {
	if !sec.HasKey(name) {
		return nil
	}
	v, err := sec.Key(name).Int64()
	if err != nil {
		return fmt.Errorf("property %s=%q: %w", name, sec.Key(name).String(), err)
	}
	*dst = v
	return nil
}

func overlayBool(sec *ini.Section, name string, dst *bool) error {
	if !sec.HasKey(name) {
		return nil
	}
	v, err := sec.Key(name).Bool()
	if err != nil {
		return fmt.Errorf("property %s=%q: %w", name, sec.Key(name).String(), err)
	}
	*dst = v
	return nil
}

// Command-line override flag names. These four keys are the whole CLI
// surface; anything else rejects the invocation.
const (
	FlagMetaPort   = "meta_port"
	FlagDataPort   = "data_port"
	FlagClientPort = "client_port"
	FlagSeedNodes  = "seed_nodes"
)

// ApplyCommandLine overlays the recognized cluster flags from args onto cfg.
// The call is all-or-nothing: an unknown flag, a malformed value, or an
// out-of-range port rejects the whole invocation and leaves cfg untouched.
// Passing no flags succeeds with no changes.
func (l *Loader) ApplyCommandLine(cfg *ClusterConfig, args []string) error {
	app := kingpin.New("cluster-node", "cluster node configuration overrides")
	app.Terminate(nil)
	app.UsageWriter(io.Discard)
	app.ErrorWriter(io.Discard)

	metaPort := app.Flag(FlagMetaPort, "port for the metadata service").Default("0").Int()
	dataPort := app.Flag(FlagDataPort, "port for the data service").Default("0").Int()
	clientPort := app.Flag(FlagClientPort, "port for the client service").Default("0").Int()
	seedNodes := app.Flag(FlagSeedNodes, "comma-separated HOST:META_PORT:DATA_PORT triples").String()

	if _, err := app.Parse(args); err != nil {
		return &CommandLineError{Err: err}
	}

	for _, port := range []struct {
		flag  string
		value int
	}{
		{FlagMetaPort, *metaPort},
		{FlagDataPort, *dataPort},
		{FlagClientPort, *clientPort},
	} {
		if port.value != 0 && !validPort(port.value) {
			return &CommandLineError{
				Err: fmt.Errorf("--%s=%d: port out of range 1-65535", port.flag, port.value),
			}
		}
	}

	var seedURLs []string
	if *seedNodes != "" {
		urls, err := ParseSeedURLs(*seedNodes)
		if err != nil {
			return &CommandLineError{Err: err}
		}
		seedURLs = urls
	}

	if *metaPort != 0 {
		cfg.LocalMetaPort = *metaPort
		l.logger.Debug("replaced local meta port", zap.Int("port", *metaPort))
	}
	if *dataPort != 0 {
		cfg.LocalDataPort = *dataPort
		l.logger.Debug("replaced local data port", zap.Int("port", *dataPort))
	}
	if *clientPort != 0 {
		cfg.LocalClientPort = *clientPort
		l.logger.Debug("replaced local client port", zap.Int("port", *clientPort))
	}
	if *seedNodes != "" {
		cfg.SetSeedNodeURLs(seedURLs)
		l.logger.Debug("replaced seed nodes", zap.Strings("seed_nodes", seedURLs))
	}
	return nil
}
