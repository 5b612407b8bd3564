package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mateuzkl/pic-editor/pkg/pic"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze cobra command
func NewAnalyzeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze .pic archive structure",
		Long:  "Parses a .pic archive and displays its signature, picture dimensions and compressed sizes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")
			if filePath == "" && len(args) > 0 {
				filePath = args[0]
			}
			if filePath == "" {
				return fmt.Errorf("file path is required. Use --file flag or provide as argument")
			}
			return runAnalyze(filePath)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("file", "f", "", ".pic archive path to analyze")

	return cmd
}

func runAnalyze(filePath string) error {
	a, err := pic.Load(filePath)
	if err != nil {
		if errors.Is(err, pic.ErrUnsupportedVersion) {
			return fmt.Errorf("%s is a pre-7.0 archive, which picctl cannot read", filePath)
		}
		return fmt.Errorf("parse error: %w", err)
	}

	fmt.Printf("Signature: 0x%08X\n", a.Signature)
	fmt.Printf("Pictures: %d\n\n", a.NumImages())

	for i, img := range a.Images {
		compressed := 0
		for _, sp := range img.Sprites {
			compressed += sp.Size()
		}
		fmt.Printf("[%d] grid %dx%d sprites, %dx%d px, background #%02X%02X%02X, %d bytes compressed\n",
			i, img.Width, img.Height, img.PixelWidth(), img.PixelHeight(),
			img.BgColor.R, img.BgColor.G, img.BgColor.B, compressed)
	}
	return nil
}
