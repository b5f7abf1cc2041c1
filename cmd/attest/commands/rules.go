package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/attest/internal/editor"
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/order"
	"github.com/thoreinstein/attest/internal/paths"
	"github.com/thoreinstein/attest/internal/rule"
	"github.com/thoreinstein/attest/internal/ruleset"
)

var (
	rulesCheck bool
	rulesFile  string
)

func init() {
	rulesCmd.Flags().BoolVar(&rulesCheck, "check", false,
		"load the rule file and list its record types")
	rulesCmd.Flags().StringVar(&rulesFile, "rules", "",
		"rule file to check (default: rules from config)")
	rulesEditCmd.Flags().StringVar(&rulesFile, "rules", "",
		"rule file to edit (default: rules from config)")
	rulesCmd.AddCommand(rulesEditCmd)
	rootCmd.AddCommand(rulesCmd)
}

// fileEditor opens a file for interactive editing.
type fileEditor interface {
	Edit(ctx context.Context, path string) error
}

// newEditor is replaced in tests.
var newEditor = func() fileEditor { return editor.New() }

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List rule kinds, or check a rule file",
	Long: `List the rule kinds a rule file may use and the orderings greater_than
accepts.

With --check, load the rule file instead and list the record types it
declares. Any misconfigured rule is reported with exit code 2.`,
	Example: `  # List rule kinds
  attest rules

  # Check the configured rule file
  attest rules --check

  # Check a specific rule file
  attest rules --check --rules ./rules.toml

See Also: attest check`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if rulesCheck {
			set, err := loadRules(rulesFile)
			if err != nil {
				return err
			}
			printTypes(cmd.OutOrStdout(), set)
			return nil
		}
		printKinds(cmd.OutOrStdout())
		return nil
	},
}

var rulesEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the rule file in $EDITOR, then check it",
	Long: `Open the rule file in your editor. When the editor exits, the file is
loaded again and its record types are listed, or the first misconfigured
rule is reported.

Uses $EDITOR, then $VISUAL, falling back to nano or vi.`,
	Example: `  # Edit the configured rule file
  attest rules edit

  # Edit with a specific editor
  EDITOR="code --wait" attest rules edit --rules ./rules.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rulesPath := rulesFile
		if rulesPath == "" {
			rulesPath = cfg.Rules
		}
		rulesPath, err := paths.ExpandHome(rulesPath)
		if err != nil {
			return errors.NewSystemError(err, "")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Location: %s\n", rulesPath)
		if err := newEditor().Edit(cmd.Context(), rulesPath); err != nil {
			return errors.NewSystemError(err, "set $EDITOR to your preferred editor")
		}

		set, err := loadRules(rulesPath)
		if err != nil {
			return err
		}
		printTypes(cmd.OutOrStdout(), set)
		return nil
	},
}

func printKinds(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tDESCRIPTION")
	for _, k := range rule.Kinds() {
		fmt.Fprintf(tw, "%s\t%s\n", k, k.Description())
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nOrderings: %s\n", strings.Join(order.Names(), ", "))
}

func printTypes(w io.Writer, set *ruleset.Set) {
	types := set.Types()
	fmt.Fprintf(w, "Rule file OK: %s\n\n", english.Plural(len(types), "record type", ""))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tRULES\tMATCH\tATTRIBUTES")
	for _, t := range types {
		match := strings.Join(t.Match, ", ")
		if match == "" {
			match = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			t.Name,
			len(set.Registry.Bindings(t.Name)),
			match,
			strings.Join(t.Attributes(), ", "))
	}
	_ = tw.Flush()
}
