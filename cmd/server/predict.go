package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cropcast/entities"
	"cropcast/pkg/form"
	"cropcast/pkg/imagecapture"
	"cropcast/pkg/view"
)

func newPredictCmd(a *app) *cobra.Command {
	var (
		imagePath string
		values    = map[string]*string{}
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run one forecast from the command line and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.wire(cmd.Context())
			if err != nil {
				return err
			}
			s := form.Default(d.env)
			for _, f := range form.Fields {
				if cmd.Flags().Changed(f) {
					if err := s.Set(f, *values[f]); err != nil {
						return err
					}
				}
			}

			img, err := readImage(cmd, imagePath)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), view.TerminalError(err))
				return err
			}
			s.SetImage(img)

			req, err := s.Request()
			if err != nil {
				return err
			}
			pred, err := d.svc.Predict(cmd.Context(), req)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), view.TerminalError(err))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.Terminal(req, pred))
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "satellite image file (png, jpg, gif, webp)")
	_ = cmd.MarkFlagRequired("image")
	defaults := form.Default(nil).Values()
	flagDefaults := map[string]string{
		form.FieldCropType:    defaults.CropType.String(),
		form.FieldTemperature: fmt.Sprint(defaults.Temperature),
		form.FieldRainfall:    fmt.Sprint(defaults.Rainfall),
		form.FieldSunshine:    fmt.Sprint(defaults.Sunshine),
		form.FieldNitrogen:    fmt.Sprint(defaults.Nitrogen),
		form.FieldPhosphorus:  fmt.Sprint(defaults.Phosphorus),
		form.FieldPotassium:   fmt.Sprint(defaults.Potassium),
		form.FieldPH:          fmt.Sprint(defaults.PH),
	}
	for _, f := range form.Fields {
		values[f] = cmd.Flags().String(f, flagDefaults[f], "value for "+f)
	}
	return cmd
}

// readImage opens path and tags it with the media type implied by its
// extension, falling back to content sniffing.
func readImage(cmd *cobra.Command, path string) (*entities.SatelliteImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mt := mime.TypeByExtension(filepath.Ext(path))
	if mt == "" {
		head := make([]byte, 512)
		n, _ := f.Read(head)
		mt = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, 0); err != nil {
			return nil, err
		}
	}
	return imagecapture.Capture(cmd.Context(), mt, f)
}
