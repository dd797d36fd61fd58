// Package input resolves pending configuration values.
//
// A descriptor (Input, Select or BoolInput) carries everything needed to produce a
// concrete scalar: an optional default, an optional description and, for selects,
// the list of alternatives. Resolution goes through an Asker. When the Asker is
// not interactive (or nil) the default is used; otherwise the user is prompted and
// empty answers fall back to the default.
//
//	port := input.NewInput[int64](input.WithDefault(int64(8080)), input.WithDescription("port"))
//	v, err := port.Resolve(input.NewSession())
//
// Retrying bad answers is handled here, bounded by MaxAttempts. Callers never retry.
package input
