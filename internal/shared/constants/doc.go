// Package constants centralizes defaults shared across the CLI.
//
// File permissions, the analyzer endpoint path, request timeouts and the
// loading tick interval live here so cmd/ and internal/ can reference them
// without introducing import cycles.
package constants
