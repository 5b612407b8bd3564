package cmd

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/Mateuzkl/pic-editor/pkg/pic"
	"github.com/spf13/cobra"
)

// NewImportCmd creates the import cobra command
func NewImportCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace one picture from a PNG",
		Long:  "Re-encodes the sprites of the picture at the given index from a PNG of exactly matching pixel dimensions and saves the archive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")
			index, _ := cmd.Flags().GetInt("index")
			pngPath, _ := cmd.Flags().GetString("png")
			out, _ := cmd.Flags().GetString("out")

			if filePath == "" || pngPath == "" {
				return fmt.Errorf("--file and --png are required")
			}
			if out == "" {
				out = filePath
			}
			return runImport(ctx, filePath, index, pngPath, out)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("file", "f", "", ".pic archive path")
	pf.IntP("index", "i", 0, "picture index within the archive")
	pf.String("png", "", "source PNG path")
	pf.StringP("out", "o", "", "output archive path (defaults to --file)")

	return cmd
}

func runImport(ctx context.Context, filePath string, index int, pngPath, out string) error {
	a, err := pic.Load(filePath)
	if err != nil {
		return err
	}

	img := a.Image(index)
	if img == nil {
		return fmt.Errorf("picture index %d out of range, archive has %d pictures", index, a.NumImages())
	}

	f, err := os.Open(pngPath)
	if err != nil {
		return err
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", pngPath, err)
	}

	if err := pic.UpdatePictureFromImage(img, src); err != nil {
		var mismatch *pic.SizeMismatchError
		if errors.As(err, &mismatch) {
			return fmt.Errorf("%s does not fit picture %d: %w", pngPath, index, err)
		}
		return err
	}

	if err := pic.Save(a, out); err != nil {
		return err
	}
	slog.InfoContext(ctx, "imported picture", "archive", out, "index", index, "png", pngPath)
	return nil
}
