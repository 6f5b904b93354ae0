package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jpfielding/fiducials.go/pkg/fiducials"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Report summarizes one file for inspect
type Report struct {
	File           string                  `json:"file" yaml:"file"`
	Size           string                  `json:"size" yaml:"size"`
	Kind           string                  `json:"kind" yaml:"kind"`
	SOPInstanceUID string                  `json:"sop_instance_uid" yaml:"sop_instance_uid"`
	ContentLabel   string                  `json:"content_label,omitempty" yaml:"content_label,omitempty"`
	Fingerprint    string                  `json:"fingerprint" yaml:"fingerprint"`
	FiducialSets   []fiducials.FiducialSet `json:"fiducial_sets" yaml:"fiducial_sets"`
}

// NewInspectCmd reports the fiducial sets of one or more files
func NewInspectCmd(ctx context.Context, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "summarize fiducial files",
		Long:  "reads every file concurrently and prints its kind, fingerprint and fiducial sets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			reports, err := inspect(ctx, args, cfg.Workers)
			if err != nil {
				return err
			}
			return writeFormatted(cmd.OutOrStdout(), format, reports, func(w io.Writer) {
				for _, r := range reports {
					printReport(w, r)
				}
			})
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("format", "f", "text", "output format (text|json|yaml)")
	return cmd
}

func inspect(ctx context.Context, paths []string, workers int) ([]Report, error) {
	reports := make([]Report, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := inspectFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = r
			slog.DebugContext(ctx, "inspected", "file", path, "sets", len(r.FiducialSets))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func inspectFile(path string) (Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Report{}, err
	}
	s, err := fiducials.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	sets, err := s.FiducialSets()
	if err != nil {
		return Report{}, err
	}
	return Report{
		File:           path,
		Size:           humanize.Bytes(uint64(info.Size())),
		Kind:           s.Kind().String(),
		SOPInstanceUID: s.SOPInstanceUID(),
		ContentLabel:   s.ContentLabel(),
		Fingerprint:    fmt.Sprintf("%016x", s.Fingerprint()),
		FiducialSets:   sets,
	}, nil
}

func printReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "%s (%s) %s %s\n", r.File, r.Size, r.Kind, r.Fingerprint)
	for i, fs := range r.FiducialSets {
		name := "<unnamed>"
		if fs.GroupName != nil {
			name = *fs.GroupName
		}
		fmt.Fprintf(w, "\tset %d %q: %d fiducials", i, name, len(fs.FiducialSequence))
		if fs.Color != nil {
			fmt.Fprintf(w, " color=%s", fs.Color)
		}
		if fs.Visibility != nil {
			fmt.Fprintf(w, " visible=%t", *fs.Visibility)
		}
		fmt.Fprintln(w)
		for j, f := range fs.FiducialSequence {
			fmt.Fprintf(w, "\t\t%d %s %q", j, f.ShapeType, f.FiducialIdentifier)
			if p, ok := fiducials.PointOf(f); ok {
				fmt.Fprintf(w, " at (%g, %g, %g)", p.X, p.Y, p.Z)
			}
			fmt.Fprintln(w)
		}
	}
}

// writeFormatted encodes v as json or yaml, or calls text for the text format
func writeFormatted(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case "text":
		text(w)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
