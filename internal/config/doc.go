// Package config provides configuration management for the attest CLI.
//
// # Configuration File
//
// The configuration file is config.yaml, searched in the current directory
// and then in ~/.config/attest (see [paths.ConfigDir]). Every key can also be
// set through an ATTEST_ prefixed environment variable:
//
//	version: 1
//	rules: ~/.config/attest/rules.yaml  # default rule file for "attest check"
//	format: text                        # text or json
//	concurrency: 4                      # documents validated in parallel
//	max_file_size: 1 MiB                # documents larger than this are rejected
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load(flagConfigPath)
//	if err != nil {
//	    return err
//	}
//
// An empty path searches the default locations and falls back to defaults
// when no file exists. An explicit path that does not exist is an error.
//
// # Validation
//
// [Load] validates the configuration and reports the first problem. Use
// [Validate] to collect all of them:
//
//	for _, e := range config.Validate(cfg) {
//	    fmt.Println(e)
//	}
package config
