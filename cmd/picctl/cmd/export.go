package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"github.com/Mateuzkl/pic-editor/pkg/pic"
	"github.com/spf13/cobra"
	xdraw "golang.org/x/image/draw"
)

// NewExportCmd creates the export cobra command
func NewExportCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one picture to PNG",
		Long:  "Renders the picture at the given index into a PNG file, optionally scaled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")
			index, _ := cmd.Flags().GetInt("index")
			out, _ := cmd.Flags().GetString("out")
			scale, _ := cmd.Flags().GetFloat64("scale")

			if filePath == "" || out == "" {
				return fmt.Errorf("--file and --out are required")
			}
			return runExport(ctx, filePath, index, out, scale)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("file", "f", "", ".pic archive path")
	pf.IntP("index", "i", 0, "picture index within the archive")
	pf.StringP("out", "o", "", "output PNG path")
	pf.Float64("scale", 1.0, "nearest-neighbor scale factor")

	return cmd
}

func runExport(ctx context.Context, filePath string, index int, out string, scale float64) error {
	a, err := pic.Load(filePath)
	if err != nil {
		return err
	}

	img := a.Image(index)
	if img == nil {
		return fmt.Errorf("picture index %d out of range, archive has %d pictures", index, a.NumImages())
	}

	rendered := pic.RenderPicture(img)

	var result image.Image = rendered
	if scale > 0 && scale != 1.0 {
		b := rendered.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(b.Dx())*scale), int(float64(b.Dy())*scale)))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), rendered, b, xdraw.Src, nil)
		result = dst
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, result); err != nil {
		return err
	}
	slog.InfoContext(ctx, "exported picture", "archive", filePath, "index", index, "out", out)
	return nil
}
