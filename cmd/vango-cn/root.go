package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-cn/internal/config"
	"github.com/vango-dev/vango-cn/pkg/cn"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "vango-cn",
		Short:        "Merge utility class lists with last-write-wins conflict resolution",
		SilenceUsage: true,
	}
	root.AddCommand(
		newMergeCmd(),
		newJoinCmd(),
		newStylesCmd(),
		newServeCmd(),
	)
	return root
}

type mergeFlags struct {
	cacheSize      int
	noSort         bool
	orderSensitive []string
	compound       []string
	conflicts      string
}

func newMergeCmd() *cobra.Command {
	var f mergeFlags
	cmd := &cobra.Command{
		Use:   "merge [classes...]",
		Short: "Merge class lists; with no arguments merges each line of stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			m := cn.New(opts...)

			if len(args) > 0 {
				values := make([]any, len(args))
				for i, a := range args {
					values[i] = a
				}
				fmt.Fprintln(cmd.OutOrStdout(), m.Merge(values...))
				return nil
			}
			return mergeLines(cmd.InOrStdin(), cmd.OutOrStdout(), m)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.cacheSize, "cache-size", cn.DefaultCacheSize, "cached results per generation (0 disables)")
	flags.BoolVar(&f.noSort, "no-sort", false, "keep contexts in authored order")
	flags.StringSliceVar(&f.orderSensitive, "order-sensitive", cn.DefaultOrderSensitiveContexts, "contexts that never move when sorting")
	flags.StringSliceVar(&f.compound, "compound", cn.DefaultCompoundContexts, "contexts that take the next segment as argument")
	flags.StringVar(&f.conflicts, "conflicts", "", "JSON file of shorthand to longhand entries layered over the defaults")
	return cmd
}

func (f *mergeFlags) options(cmd *cobra.Command) ([]cn.Option, error) {
	opts := []cn.Option{
		cn.WithCacheSize(f.cacheSize),
		cn.WithSortContexts(!f.noSort),
	}
	if cmd.Flags().Changed("order-sensitive") {
		opts = append(opts, cn.WithOrderSensitiveContexts(f.orderSensitive...))
	}
	if cmd.Flags().Changed("compound") {
		opts = append(opts, cn.WithCompoundContexts(f.compound...))
	}
	if f.conflicts != "" {
		conflicts, err := config.ReadConflicts(f.conflicts)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cn.WithConflicts(conflicts))
	}
	return opts, nil
}

func mergeLines(r io.Reader, w io.Writer, m *cn.Merger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(w, m.Merge(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join [values...]",
		Short: "Join class values without resolving conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cn.Join(args))
			return nil
		},
	}
}

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles <json>...",
		Short: "Merge JSON style objects, or JSON class values",
		Long: "Each argument is a JSON value. Objects are deep merged and printed as JSON;\n" +
			"strings, arrays and falsy values are merged as classes. Mixing both is an error.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := make([]any, len(args))
			for i, a := range args {
				if err := json.Unmarshal([]byte(a), &inputs[i]); err != nil {
					return fmt.Errorf("argument %d: %w", i+1, err)
				}
			}

			result, err := cn.Merge(inputs...)
			if err != nil {
				return err
			}
			if s, ok := result.(string); ok {
				fmt.Fprintln(cmd.OutOrStdout(), s)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
