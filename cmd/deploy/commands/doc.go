// Package commands defines the deploy CLI.
//
// Commands
//
//   - run        Run deployment routines, optionally filtered by --tags
//   - list       Show registered routines and their tags
//   - addresses  Print recorded deployments of a network as JSON
//
// The root command loads the YAML config, applies environment overrides and
// registers the bundled routines before any subcommand runs.
package commands
