// Package application wires the configuration loader, host resolver, and
// hot-reload path together, making the main package cleaner and more focused
// on CLI parsing and process lifecycle.
package application
