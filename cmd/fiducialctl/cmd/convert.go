package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/jpfielding/fiducials.go/pkg/dicom"
	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/part10"
	"github.com/jpfielding/fiducials.go/pkg/series"
	"github.com/jpfielding/fiducials.go/pkg/util"
	"github.com/spf13/cobra"
)

// NewConvertCmd rewrites any uncompressed Part 10 file as Explicit VR Little Endian
func NewConvertCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "rewrite a DICOM file as explicit VR little endian",
		Long:  "parses IN in any uncompressed transfer syntax, pixel data excluded, and writes OUT with the native encoder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := part10.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			s := series.New(ds)
			if s.SOPInstanceUID() == "" {
				// derived from the content so converting the same file twice agrees
				uid := util.HashUID(s.Fingerprint())
				_ = s.Update(func(ds *dicom.DataSet) error {
					ds.Remove(tag.MediaStorageSOPInstanceUID)
					return nil
				})
				s.SetSOPInstanceUID(uid)
			}
			n, err := s.WriteFile(args[1])
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "converted", "in", args[0], "out", args[1], "kind", s.Kind(), "size", humanize.Bytes(uint64(n)))
			return nil
		},
	}
	return cmd
}
