package commands

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/attest/internal/cli/prompt"
	"github.com/thoreinstein/attest/internal/document"
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/logging"
	"github.com/thoreinstein/attest/internal/paths"
	"github.com/thoreinstein/attest/internal/registry"
	"github.com/thoreinstein/attest/internal/ruleset"
	"github.com/thoreinstein/attest/internal/validator"
	"github.com/thoreinstein/attest/pkg/fileutil"
)

var (
	checkRules  string
	checkType   string
	checkFormat string
	checkOutput string
)

// typeSelector picks a record type when a document matches several.
type typeSelector interface {
	SelectType(path string, types []*ruleset.Type) (*ruleset.Type, error)
}

// newSelector is replaced in tests.
var newSelector = func() typeSelector { return prompt.NewSelector() }

func init() {
	checkCmd.Flags().StringVar(&checkRules, "rules", "",
		"rule file (default: rules from config, ~/.config/attest/rules.yaml)")
	checkCmd.Flags().StringVarP(&checkType, "type", "t", "",
		"record type of every document (default: chosen by match patterns)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "",
		"report format: text, json (default: format from config)")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "",
		"write the report to a file instead of stdout")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <document>...",
	Short: "Validate documents against a rule file",
	Long: `Validate YAML, JSON, TOML or Markdown front matter documents against the
record types declared in a rule file.

Each document is checked as one record type: the one named by --type, the
one whose match patterns select the file, or the only type the rule file
declares. When several types apply, attest asks which one to use.

Exit codes:
  0 - All documents are valid (warnings OK)
  1 - A document violates its rules or could not be read
  2 - The rule file or configuration is unusable`,
	Example: `  # Check a single document
  attest check --rules rules.yaml deposit.yaml

  # Check every manifest as a deposit, JSON report for CI
  attest check -t deposit -f json manifests/*.yaml

  # Write the report to a file
  attest check -o report.json -f json deposit.yaml

See Also: attest rules`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args)
	},
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	format, err := reportFormat()
	if err != nil {
		return errors.NewUserError(err, "use --format text or --format json")
	}

	set, err := loadRules(checkRules)
	if err != nil {
		return err
	}

	maxSize, err := cfg.MaxFileBytes()
	if err != nil {
		return errors.NewConfigError(err)
	}
	loader := document.NewLoader(appFs, maxSize)

	inputs := make([]registry.Input, 0, len(args))
	for _, path := range args {
		doc, err := loader.Load(path)
		if err != nil {
			return errors.NewUserError(err, "check the document path and format")
		}
		t, err := selectType(set, path)
		if err != nil {
			return err
		}
		logger.Debug("checking document", slog.String("path", path), slog.String("type", t.Name))
		inputs = append(inputs, registry.Input{Source: path, Type: t.Name, Value: t.Record(doc)})
	}

	result, err := set.Registry.ValidateAll(ctx, inputs)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidConfig) {
			return errors.NewConfigError(err)
		}
		return errors.NewSystemError(err, "")
	}

	if err := writeReport(cmd.OutOrStdout(), result, format); err != nil {
		return err
	}

	if result.HasErrors() {
		n := len(result.Errors())
		return errors.NewExitError(
			errors.Wrapf(errors.ErrValidationFailed, "%s in %s",
				english.Plural(n, "error", ""), english.Plural(len(args), "document", "")),
			errors.ExitUser)
	}
	return nil
}

func reportFormat() (validator.Format, error) {
	if checkFormat != "" {
		return validator.ParseFormat(checkFormat)
	}
	return validator.ParseFormat(cfg.Format)
}

// loadRules loads the rule file named by flag, or the configured default.
func loadRules(flag string) (*ruleset.Set, error) {
	rulesPath := flag
	if rulesPath == "" {
		rulesPath = cfg.Rules
	}
	if rulesPath == "" {
		rulesPath = paths.RulesFile()
	}
	rulesPath, err := paths.ExpandHome(rulesPath)
	if err != nil {
		return nil, errors.NewSystemError(err, "")
	}

	set, err := ruleset.Load(appFs, rulesPath,
		ruleset.WithFs(appFs),
		ruleset.WithConcurrency(cfg.Concurrency))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewSystemError(err, "pass --rules FILE or set rules in config.yaml")
		}
		return nil, errors.NewConfigError(err)
	}
	return set, nil
}

// selectType picks the record type for the document at path.
func selectType(set *ruleset.Set, path string) (*ruleset.Type, error) {
	if checkType != "" {
		t, ok := set.Type(checkType)
		if !ok {
			return nil, errors.NewUserError(
				errors.Wrapf(errors.ErrUnknownType, "%s", checkType),
				"Run: attest rules --check")
		}
		return t, nil
	}

	candidates := set.Select(path)
	if len(candidates) == 0 {
		candidates = set.Types()
	}
	t, err := newSelector().SelectType(path, candidates)
	if err != nil {
		return nil, errors.NewUserError(
			errors.Wrapf(err, "choosing record type for %s", path),
			"pass --type or add match patterns to the rule file")
	}
	return t, nil
}

func writeReport(stdout io.Writer, result *validator.Result, format validator.Format) error {
	if checkOutput == "" {
		return validator.NewReporter(stdout, format).Report(result)
	}

	var buf bytes.Buffer
	if err := validator.NewReporter(&buf, format).Report(result); err != nil {
		return err
	}
	outPath, err := paths.ExpandHome(checkOutput)
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	if err := fileutil.AtomicWriteFile(appFs, outPath, buf.Bytes(), 0o644); err != nil {
		return errors.NewUserError(err, "check that the output directory exists")
	}
	return nil
}
