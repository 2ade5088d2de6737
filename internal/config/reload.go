package config

import (
	"errors"

	"go.uber.org/zap"
	"gopkg.in/ini.v1"
)

// Reloader re-reads the properties source at runtime and applies the
// hot-modifiable subset: MAX_CONCURRENT_CLIENT_NUM, CONNECTION_TIME_OUT_MS
// and MAX_REMOVED_LOG_SIZE. Connection-identity fields (local address, ports,
// seed list) and replication settings stay frozen after startup; changing
// them live would require a cluster-wide renegotiation.
type Reloader struct {
	logger *zap.Logger
}

// NewReloader creates a Reloader that audits applied changes on logger.
func NewReloader(logger *zap.Logger) *Reloader {
	return &Reloader{logger: logger}
}

// Reload reads the source fresh and overlays the whitelisted fields onto the
// live configuration. Whitelisted keys absent from the source keep their live
// values. On any failure the live configuration is left untouched and a
// *ReloadError is returned.
func (r *Reloader) Reload(cfg *ClusterConfig, locator SourceLocator) error {
	path, ok := locator.Resolve()
	if !ok {
		return &ReloadError{Err: errors.New("no properties file location configured")}
	}
	source, err := ini.Load(path)
	if err != nil {
		return &ReloadError{Path: path, Err: err}
	}
	r.logger.Info("reloading properties file", zap.String("path", path))

	// Parse every value before storing any: a malformed value must not leave
	// a partial overlay behind.
	sec := source.Section("")
	maxClients := cfg.MaxConcurrentClientNum()
	if err := overlayInt(sec, keyMaxConcurrentClientNum, &maxClients); err != nil {
		return &ReloadError{Path: path, Err: err}
	}
	connTimeout := cfg.ConnectionTimeoutMS()
	if err := overlayInt(sec, keyConnectionTimeoutMS, &connTimeout); err != nil {
		return &ReloadError{Path: path, Err: err}
	}
	maxRemoved := cfg.MaxRemovedLogSize()
	if err := overlayInt64(sec, keyMaxRemovedLogSize, &maxRemoved); err != nil {
		return &ReloadError{Path: path, Err: err}
	}

	cfg.SetMaxConcurrentClientNum(maxClients)
	cfg.SetConnectionTimeoutMS(connTimeout)
	cfg.SetMaxRemovedLogSize(maxRemoved)

	r.logger.Info("applied hot-modifiable properties",
		zap.Int("max_concurrent_client_num", maxClients),
		zap.Int("connection_time_out_ms", connTimeout),
		zap.Int64("max_removed_log_size", maxRemoved))
	return nil
}
