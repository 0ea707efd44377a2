// Package cmd implements the pravda subcommands.
//
// Every command that evaluates code builds a session: the builtin catalog,
// the command line bound to cmd-args and args, a loader for .pvd and .expr
// files, the expr-lang foreign engine, and the prelude files named with
// --prelude run in order. Results are rendered in the --output format.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file, itself a Pravda program.
	ConfigIdentifier = "config"
)
