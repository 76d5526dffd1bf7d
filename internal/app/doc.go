// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the harness run lifecycle, decoupled
// from any specific entrypoint like a CLI or a test binary.
package app
