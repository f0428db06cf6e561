package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-fences/internal/app"
	"github.com/mj1618/desktop-fences/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the fence layout as an image",
	Long: `Render every fence at its screen position with its title and tracked entries.

Examples:
  desktop-fences preview --output fences.png
  desktop-fences preview --image-format jpg --max-width 800 > fences.b64`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	previewCmd.Flags().String("image-format", "png", "Image format: png, jpg")
	previewCmd.Flags().Int("quality", 80, "JPEG quality 1-100")
	previewCmd.Flags().Int("max-width", 0, "Downscale to at most this width (0 = desktop scale)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, app.Options{})
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("image-format")
	quality, _ := cmd.Flags().GetInt("quality")
	maxWidth, _ := cmd.Flags().GetInt("max-width")

	img := preview.Render(a.Fences(), preview.Options{MaxWidth: maxWidth})
	var buf bytes.Buffer
	if err := preview.Encode(&buf, img, format, quality); err != nil {
		return err
	}

	if output != "" {
		return os.WriteFile(output, buf.Bytes(), 0o644)
	}

	// Default: write to stdout as base64 for easy agent consumption
	encoder := base64.NewEncoder(base64.StdEncoding, os.Stdout)
	if _, err := encoder.Write(buf.Bytes()); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	fmt.Println()
	return nil
}
