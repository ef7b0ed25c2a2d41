package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scitable/config"
	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/pkg/log"
	"github.com/YuminosukeSato/scitable/table"
)

// globals はすべてのサブコマンドで共有されるフラグと設定
type globals struct {
	configPath string
	sep        string
	noHeader   bool
	logLevel   string
	seed       uint64

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "scitable",
		Short: "Inspect and reshape delimited text tables",
		Long: `scitable loads CSV and other delimited text files into typed tables and
prints, summarizes, reshapes or plots them.

Settings come from --config (YAML), SCITABLE_* environment variables and flags;
flags win.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&g.sep, "sep", ",", `Field separator ("tab" for a tab)`)
	flags.BoolVar(&g.noHeader, "no-header", false, "Treat the first line as data")
	flags.StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.Uint64Var(&g.seed, "seed", 0, "Random seed for sample and split; 0 seeds from the clock")

	root.AddCommand(
		newHeadCmd(g),
		newDescribeCmd(g),
		newCountNACmd(g),
		newDropNACmd(g),
		newFillNACmd(g),
		newSelectCmd(g),
		newDropCmd(g),
		newSampleCmd(g),
		newSplitCmd(g),
		newTransposeCmd(g),
		newAppendCmd(g),
		newRenameCmd(g),
		newReplaceCmd(g),
		newHistCmd(g),
		newScaleCmd(g),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// load merges the config file with explicitly set flags and configures logging.
func (g *globals) load(cmd *cobra.Command) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("sep") {
		cfg.Separator = g.sep
	}
	if flags.Changed("no-header") {
		cfg.Headers = !g.noHeader
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if flags.Changed("seed") {
		cfg.Seed = g.seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg

	return log.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
}

func (g *globals) csvOptions() []table.CSVOption {
	// Validate により区切り文字は検証済み
	opts, _ := g.cfg.CSVOptions()
	return opts
}

func loadTable[T table.Element](g *globals, path string) (*table.Table[T], error) {
	return table.Load[T](path, g.csvOptions()...)
}

// emit writes t to out, or to the command's stdout when out is empty.
func emit[T table.Element](g *globals, cmd *cobra.Command, t *table.Table[T], out string) error {
	if out != "" {
		return t.ToCSV(out, g.csvOptions()...)
	}
	w := cmd.OutOrStdout()
	if err := t.WriteCSV(w, g.csvOptions()...); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// resolveColumns maps column names, or zero-based positions, to indices.
func resolveColumns[T table.Element](t *table.Table[T], refs []string) ([]int, error) {
	names := t.ColumnNames()
	indices := make([]int, 0, len(refs))
	for _, ref := range refs {
		if i := slices.Index(names, ref); i >= 0 {
			indices = append(indices, i)
			continue
		}
		i, err := strconv.Atoi(ref)
		if err != nil || i < 0 || i >= t.Columns() {
			return nil, errors.NewColumnNotFoundError(ref)
		}
		indices = append(indices, i)
	}
	return indices, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "scitable v%s\n", version)
			fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init PATH",
		Short: "Write a config file with the default settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force && fileExists(path) {
				return errors.NewValidationError("path", "file exists, use --force to overwrite", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
