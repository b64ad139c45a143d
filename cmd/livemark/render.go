package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"livemark/internal/preview"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <file>",
	Short: "Render a document to line-addressable HTML",
	Long: `Render performs a one-shot render of the file and writes the result to
stdout. Each non-blank output fragment carries the source line it was
rendered from.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("format", "html", "output format (html|json)")
	renderCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	lines := preview.Render(string(data), filepath.Dir(abs))

	format, _ := cmd.Flags().GetString("format")
	var out strings.Builder
	switch format {
	case "html":
		for _, line := range lines {
			if line.Blank {
				out.WriteString("\n")
				continue
			}
			out.WriteString(line.HTML)
			out.WriteString("\n")
		}
	case "json":
		enc := json.NewEncoder(&out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(lines); err != nil {
			return fmt.Errorf("encoding render output: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if dest, _ := cmd.Flags().GetString("output"); dest != "" {
		return os.WriteFile(dest, []byte(out.String()), 0o644)
	}
	fmt.Print(out.String())
	return nil
}
