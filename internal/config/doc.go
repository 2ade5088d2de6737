// Package config resolves a cluster node's configuration by merging three
// layers in strict precedence order: built-in defaults, a properties file,
// and command-line overrides. It owns the seed node URL grammar and the
// constrained hot-reload path; hostname-to-IP normalization lives in the
// resolver package.
package config
