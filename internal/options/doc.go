// Package options declares the command-line options a harness session is
// configured from. Values are recorded together with whether they were
// supplied at all, so callers can tell an omitted option from an empty one.
package options
