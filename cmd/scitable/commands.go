package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scitable/core/model"
	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/plotting"
	"github.com/YuminosukeSato/scitable/preprocessing"
	"github.com/YuminosukeSato/scitable/table"
)

func newHeadCmd(g *globals) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "head FILE",
		Short: "Print the first rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rows") {
				n = g.cfg.HeadRows
			}
			return t.Head(cmd.OutOrStdout(), n)
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 5, "Number of rows to print")
	return cmd
}

func newDescribeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "describe FILE",
		Short: "Print descriptive statistics of every numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[float64](g, args[0])
			if err != nil {
				return err
			}
			return table.Describe(t, cmd.OutOrStdout())
		},
	}
}

func newCountNACmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "countna FILE",
		Short: "Print the number of empty cells per column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			return table.PrintNA(t, cmd.OutOrStdout())
		},
	}
}

func newDropNACmd(g *globals) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dropna FILE",
		Short: "Remove rows that hold an empty cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			return emit(g, cmd, table.DropNA(t, true), out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newFillNACmd(g *globals) *cobra.Command {
	var out, value string
	cmd := &cobra.Command{
		Use:   "fillna FILE",
		Short: "Replace empty cells with a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			return emit(g, cmd, table.ReplaceNA(t, value, true), out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&value, "value", "NA", "Replacement text")
	return cmd
}

func newSelectCmd(g *globals) *cobra.Command {
	var (
		out     string
		columns []string
	)
	cmd := &cobra.Command{
		Use:   "select FILE",
		Short: "Keep the given columns in the given order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			indices, err := resolveColumns(t, columns)
			if err != nil {
				return err
			}
			selected, err := table.Select[string](t, indices)
			if err != nil {
				return err
			}
			return emit(g, cmd, selected, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Column names or zero-based positions")
	_ = cmd.MarkFlagRequired("columns")
	return cmd
}

func newDropCmd(g *globals) *cobra.Command {
	var (
		out     string
		columns []string
	)
	cmd := &cobra.Command{
		Use:   "drop FILE",
		Short: "Remove the given columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			indices, err := resolveColumns(t, columns)
			if err != nil {
				return err
			}
			kept, err := table.Drop[string](t, indices)
			if err != nil {
				return err
			}
			return emit(g, cmd, kept, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Column names or zero-based positions")
	_ = cmd.MarkFlagRequired("columns")
	return cmd
}

func newSampleCmd(g *globals) *cobra.Command {
	var (
		out     string
		n       int
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "sample FILE",
		Short: "Draw random rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			sampled, err := t.Sample(g.cfg.Rand(), n, replace)
			if err != nil {
				return err
			}
			return emit(g, cmd, sampled, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVarP(&n, "rows", "n", 1, "Number of rows to draw")
	cmd.Flags().BoolVar(&replace, "replace", false, "Draw with replacement")
	return cmd
}

func newSplitCmd(g *globals) *cobra.Command {
	var (
		trainOut, testOut string
		ratio             float64
	)
	cmd := &cobra.Command{
		Use:   "split FILE",
		Short: "Partition rows into a train file and a test file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			train, test, err := t.SplitData(g.cfg.Rand(), ratio)
			if err != nil {
				return err
			}
			if err := train.ToCSV(trainOut, g.csvOptions()...); err != nil {
				return err
			}
			if err := test.ToCSV(testOut, g.csvOptions()...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "train: %d rows, test: %d rows\n", train.Rows(), test.Rows())
			return nil
		},
	}
	cmd.Flags().Float64Var(&ratio, "ratio", 0.2, "Fraction of rows placed in the test file")
	cmd.Flags().StringVar(&trainOut, "train", "", "Train output file")
	cmd.Flags().StringVar(&testOut, "test", "", "Test output file")
	_ = cmd.MarkFlagRequired("train")
	_ = cmd.MarkFlagRequired("test")
	return cmd
}

func newTransposeCmd(g *globals) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "transpose FILE",
		Short: "Swap rows and columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			return emit(g, cmd, t.Transpose(), out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newAppendCmd(g *globals) *cobra.Command {
	var out, axis string
	cmd := &cobra.Command{
		Use:   "append FILE OTHER",
		Short: "Concatenate two tables by rows or by columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			other, err := loadTable[string](g, args[1])
			if err != nil {
				return err
			}
			var a table.Axis
			switch axis {
			case "rows", "r":
				a = table.AxisRows
			case "columns", "c":
				a = table.AxisColumns
			default:
				return errors.NewValidationError("axis", "must be rows or columns", axis)
			}
			joined, err := t.Append(other, a, true)
			if err != nil {
				return err
			}
			return emit(g, cmd, joined, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&axis, "axis", "rows", "rows or columns")
	return cmd
}

func newRenameCmd(g *globals) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "rename FILE OLD=NEW...",
		Short: "Rename columns",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping := make(map[string]string, len(args)-1)
			for _, pair := range args[1:] {
				from, to, ok := strings.Cut(pair, "=")
				if !ok || from == "" || to == "" {
					return errors.NewValidationError("mapping", "want OLD=NEW", pair)
				}
				mapping[from] = to
			}
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			if err := t.Rename(mapping); err != nil {
				return err
			}
			return emit(g, cmd, t, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newReplaceCmd(g *globals) *cobra.Command {
	var (
		out, old, replacement string
		maxCount              int
	)
	cmd := &cobra.Command{
		Use:   "replace FILE",
		Short: "Replace cells equal to a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[string](g, args[0])
			if err != nil {
				return err
			}
			return emit(g, cmd, t.Replace(old, replacement, true, maxCount), out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&old, "old", "", "Cell value to replace")
	cmd.Flags().StringVar(&replacement, "new", "", "Replacement value")
	cmd.Flags().IntVar(&maxCount, "max", 0, "Maximum replacements in row-major order; 0 replaces all")
	_ = cmd.MarkFlagRequired("old")
	return cmd
}

func newHistCmd(g *globals) *cobra.Command {
	var (
		out    string
		column string
		bins   int
	)
	cmd := &cobra.Command{
		Use:   "hist FILE",
		Short: "Plot a histogram of one numeric column",
		Long:  "Plot a histogram of one numeric column. The image format follows the extension of --out.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[float64](g, args[0])
			if err != nil {
				return err
			}
			indices, err := resolveColumns(t, []string{column})
			if err != nil {
				return err
			}
			if err := plotting.Histogram(t, indices[0], bins, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output image (.png, .svg, .pdf, ...)")
	cmd.Flags().StringVarP(&column, "column", "c", "0", "Column name or zero-based position")
	cmd.Flags().IntVar(&bins, "bins", 0, "Number of bins; 0 uses the square root of the row count")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func newScaleCmd(g *globals) *cobra.Command {
	var out, method string
	cmd := &cobra.Command{
		Use:   "scale FILE",
		Short: "Standardize or min-max scale every numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable[float64](g, args[0])
			if err != nil {
				return err
			}
			var scaler model.Transformer
			switch method {
			case "standard":
				scaler = preprocessing.NewStandardScaler(true, true)
			case "minmax":
				if scaler, err = preprocessing.NewMinMaxScaler([2]float64{0, 1}); err != nil {
					return err
				}
			default:
				return errors.NewValidationError("method", "must be standard or minmax", method)
			}
			scaled, err := scaler.FitTransform(t)
			if err != nil {
				return err
			}
			return emit(g, cmd, scaled, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&method, "method", "standard", "standard or minmax")
	return cmd
}
