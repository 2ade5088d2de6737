package config

import "fmt"

// BadSeedURLError reports a seed node entry that does not match the
// host:meta_port:data_port form. Raw holds the offending entry verbatim so
// operators can locate it in the source file or on the command line.
type BadSeedURLError struct {
	Raw string
}

func (e *BadSeedURLError) Error() string {
	return fmt.Sprintf("bad seed url %q: expected host:meta_port:data_port", e.Raw)
}

// CommandLineError reports a rejected command-line override invocation.
// No overrides have been applied when it is returned.
type CommandLineError struct {
	Err error
}

func (e *CommandLineError) Error() string {
	return fmt.Sprintf("command-line overrides rejected: %v", e.Err)
}

func (e *CommandLineError) Unwrap() error { return e.Err }

// ReloadError reports a hot-reload attempt that failed. The live
// configuration is untouched when it is returned.
type ReloadError struct {
	Path string
	Err  error
}

func (e *ReloadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("hot reload failed: %v", e.Err)
	}
	return fmt.Sprintf("hot reload of %s failed: %v", e.Path, e.Err)
}

func (e *ReloadError) Unwrap() error { return e.Err }
