package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jpfielding/fiducials.go/pkg/fiducials"
	"github.com/spf13/cobra"
)

// NewQueryCmd lists the fiducials matching the filters, or removes them with --remove
func NewQueryCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query FILE",
		Short: "find fiducials by group and shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := queryOptions(cmd)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			remove, _ := cmd.Flags().GetBool("remove")
			out, _ := cmd.Flags().GetString("out")

			var results []fiducials.QueryResult
			if remove {
				err = editFile(ctx, args[0], out, func(s *fiducials.Series) error {
					var groups []string
					results, groups, err = s.RemoveFiducials(opts...)
					for _, g := range groups {
						fmt.Fprintf(cmd.ErrOrStderr(), "removed group %q\n", g)
					}
					return err
				})
			} else {
				var s *fiducials.Series
				if s, err = fiducials.ReadFile(args[0]); err == nil {
					results, err = s.QueryFiducials(opts...)
				}
			}
			if err != nil {
				return err
			}
			return writeFormatted(cmd.OutOrStdout(), format, results, func(w io.Writer) {
				printResults(w, results)
			})
		},
	}
	pf := cmd.PersistentFlags()
	pf.String("group", "", "only fiducial sets with this group name")
	pf.String("shape", "", "only fiducials of this shape (POINT, LINE, ...)")
	pf.Int("shape-index", -1, "only the fiducial with this rank among its shape")
	pf.Bool("remove", false, "remove the matching fiducials")
	pf.StringP("format", "f", "text", "output format (text|json|yaml)")
	outFlag(cmd)
	return cmd
}

func queryOptions(cmd *cobra.Command) ([]fiducials.QueryOption, error) {
	var opts []fiducials.QueryOption
	if cmd.Flags().Changed("group") {
		group, _ := cmd.Flags().GetString("group")
		opts = append(opts, fiducials.WithGroup(group))
	}
	if token, _ := cmd.Flags().GetString("shape"); token != "" {
		var shape fiducials.Shape
		if err := shape.UnmarshalText([]byte(token)); err != nil {
			return nil, err
		}
		opts = append(opts, fiducials.WithShape(shape))
	}
	if i, _ := cmd.Flags().GetInt("shape-index"); i >= 0 {
		opts = append(opts, fiducials.WithShapeIndex(i))
	}
	return opts, nil
}

func printResults(w io.Writer, results []fiducials.QueryResult) {
	for _, r := range results {
		group := ""
		if r.GroupName != nil {
			group = *r.GroupName
		}
		id := ""
		if r.FiducialIdentifier != nil {
			id = *r.FiducialIdentifier
		}
		fmt.Fprintf(w, "%d/%d %s#%d %q group=%q", r.FiducialSetIndex, r.FiducialIndex, r.Shape, r.ShapeIndex, id, group)
		if p, ok := r.Point(); ok {
			fmt.Fprintf(w, " at (%g, %g, %g)", p.X, p.Y, p.Z)
		}
		fmt.Fprintln(w)
	}
}
