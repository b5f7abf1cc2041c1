// Package paths resolves the directories attest reads its own files from.
//
// The package wraps github.com/adrg/xdg for XDG Base Directory compliance.
// On Linux and macOS the configuration directory is ~/.config/attest unless
// $XDG_CONFIG_HOME or ATTEST_CONFIG_DIR say otherwise:
//
//	paths.ConfigDir()  // ~/.config/attest
//	paths.RulesFile()  // ~/.config/attest/rules.yaml
//
// Rule and output paths given on the command line may start with "~", which
// [ExpandHome] resolves against the user's home directory.
package paths
