package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jpfielding/fiducials.go/pkg/fiducials"
	"github.com/spf13/cobra"
)

// editFile loads path, applies fn and writes the result to out, or back to path
// when out is empty
func editFile(ctx context.Context, path, out string, fn func(s *fiducials.Series) error) error {
	s, err := fiducials.ReadFile(path)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	if out == "" {
		out = path
	}
	n, err := s.WriteFile(out)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	slog.InfoContext(ctx, "wrote fiducials", "file", out, "size", humanize.Bytes(uint64(n)))
	return nil
}

func outFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("out", "o", "", "output file, defaults to editing in place")
}

// NewAddGroupCmd creates a group of sphere landmarks, starting a new file when
// FILE does not exist yet
func NewAddGroupCmd(ctx context.Context, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-group FILE",
		Short: "add a landmark group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			colorText, _ := cmd.Flags().GetString("color")
			size, _ := cmd.Flags().GetFloat32("size")
			out, _ := cmd.Flags().GetString("out")
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			color := cfg.Defaults.color()
			if colorText != "" {
				c, err := fiducials.ParseColor(colorText)
				if err != nil {
					return err
				}
				if c == nil {
					return fmt.Errorf("--color needs 4 comma separated values, got %q", colorText)
				}
				color = *c
			}
			if !cmd.Flags().Changed("size") {
				size = cfg.Defaults.Size
			}
			add := func(s *fiducials.Series) error {
				s.AddGroup(name, color, size)
				return nil
			}
			if _, err := os.Stat(args[0]); errors.Is(err, fs.ErrNotExist) {
				slog.InfoContext(ctx, "starting a new fiducials file", "file", args[0])
				s := fiducials.New()
				_ = add(s)
				if out == "" {
					out = args[0]
				}
				_, err := s.WriteFile(out)
				return err
			}
			return editFile(ctx, args[0], out, add)
		},
	}
	pf := cmd.PersistentFlags()
	pf.String("name", "", "group name")
	pf.String("color", "", "r,g,b,a in [0,1], defaults to the configured color")
	pf.Float32("size", 0, "display size, defaults to the configured size")
	outFlag(cmd)
	return cmd
}

func NewAddPointCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-point FILE",
		Short: "add a point landmark to a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, _ := cmd.Flags().GetString("group")
			at, _ := cmd.Flags().GetFloat64Slice("at")
			out, _ := cmd.Flags().GetString("out")
			if len(at) != 3 {
				return fmt.Errorf("--at needs x,y,z, got %d values", len(at))
			}
			return editFile(ctx, args[0], out, func(s *fiducials.Series) error {
				if !s.AddPoint(group, fiducials.Point3{X: at[0], Y: at[1], Z: at[2]}) {
					return fmt.Errorf("no group %q", group)
				}
				return nil
			})
		},
	}
	pf := cmd.PersistentFlags()
	pf.String("group", "", "group name")
	pf.Float64Slice("at", nil, "x,y,z position")
	outFlag(cmd)
	return cmd
}

func NewRemovePointCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-point FILE",
		Short: "remove a point landmark from a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, _ := cmd.Flags().GetString("group")
			index, _ := cmd.Flags().GetInt("index")
			out, _ := cmd.Flags().GetString("out")
			return editFile(ctx, args[0], out, func(s *fiducials.Series) error {
				if !s.RemovePoint(group, index) {
					return fmt.Errorf("group %q has no point %d", group, index)
				}
				return nil
			})
		},
	}
	pf := cmd.PersistentFlags()
	pf.String("group", "", "group name")
	pf.Int("index", 0, "point index within the group")
	outFlag(cmd)
	return cmd
}

func NewRemoveGroupCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-group FILE",
		Short: "remove every fiducial set of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, _ := cmd.Flags().GetString("group")
			out, _ := cmd.Flags().GetString("out")
			return editFile(ctx, args[0], out, func(s *fiducials.Series) error {
				n := s.RemoveGroup(group)
				if n == 0 {
					return fmt.Errorf("no group %q", group)
				}
				slog.InfoContext(ctx, "removed group", "group", group, "sets", n)
				return nil
			})
		},
	}
	cmd.PersistentFlags().String("group", "", "group name")
	outFlag(cmd)
	return cmd
}

func NewNameGroupsCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "name-groups FILE",
		Short: "name the unnamed point groups Group_<n>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return editFile(ctx, args[0], out, func(s *fiducials.Series) error {
				s.SetGroupNamesForPointFiducials()
				for _, name := range s.PointFiducialsGroupNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
	outFlag(cmd)
	return cmd
}
