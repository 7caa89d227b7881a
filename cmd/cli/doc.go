// Package cli constructs the gitdrill command-line interface. The root command
// verifies a training lab repository; the requirements subcommand lists the
// active checklist. Configuration layers embedded defaults, an optional file
// and GITDRILL_* environment variables before the logger is built.
package cli
