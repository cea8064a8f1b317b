package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/vizchat/artifact"
	"github.com/spektr-org/vizchat/descriptor"
	"github.com/spektr-org/vizchat/engine"
	"github.com/spektr-org/vizchat/helpers"
	"github.com/spektr-org/vizchat/render"
)

var renderFlags struct {
	file      string
	csvFile   string
	chartType string
	title     string
	x, y      string
	format    string
	out       string
	upload    bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a visualization descriptor or a CSV file",
	Long: `Resolves a visualization descriptor (JSON, "-" for stdin) or a CSV file
into a chart and writes it in the chosen format.

Text formats (table, markdown, json, csv) print to stdout unless -o is given.
Image and spreadsheet formats are written to -o, or to the output directory.`,
	Example: `  vizchat render -f reply.json --format svg -o claims.svg
  vizchat render --csv claims.csv --type pie --x "Vehicle Size" --y "Total Claim Amount" --format table`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.file, "file", "f", "", `descriptor JSON file ("-" for stdin)`)
	f.StringVar(&renderFlags.csvFile, "csv", "", "CSV data file")
	f.StringVar(&renderFlags.chartType, "type", "bar", "chart type for --csv: bar, pie, line, scatter, grouped_bar")
	f.StringVar(&renderFlags.title, "title", "", "chart title for --csv")
	f.StringVar(&renderFlags.x, "x", "", "category (x) column for --csv")
	f.StringVar(&renderFlags.y, "y", "", "value (y) column for --csv")
	f.StringVar(&renderFlags.format, "format", "", "png, svg, xlsx, csv, json, table, markdown")
	f.StringVarP(&renderFlags.out, "out", "o", "", "output file")
	f.BoolVar(&renderFlags.upload, "upload", false, "upload the written file to S3-compatible storage")
	renderCmd.MarkFlagsMutuallyExclusive("file", "csv")
	renderCmd.MarkFlagsOneRequired("file", "csv")
}

func runRender(cmd *cobra.Command, _ []string) error {
	format, err := defaultFormat(renderFlags.format)
	if err != nil {
		return err
	}

	desc, err := loadDescriptor(cmd.InOrStdin())
	if err != nil {
		return err
	}
	result := engine.Execute(desc, engineOptions()...)
	for _, w := range result.Warnings {
		logger.Warn("resolution warning", zap.String("warning", w))
	}
	if result.Type == "notice" && format != render.FormatJSON {
		return fmt.Errorf("%s", result.Notice)
	}
	if result.Type == "none" {
		return fmt.Errorf("descriptor is empty")
	}

	if renderFlags.out == "" && isTextFormat(format) {
		out, err := render.Render(result, format, renderOptions())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	path := renderFlags.out
	if path == "" {
		path = filepath.Join(cfg.OutputDir, chartFileName(1, result.Title, format))
	}
	if err := writeOutput(result, format, path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)

	if renderFlags.upload {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		url, err := upload(cmd.Context(), path, artifact.ChartKey("", name, format.Extension()), format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), url)
	}
	return nil
}

func loadDescriptor(stdin io.Reader) (*engine.Descriptor, error) {
	if renderFlags.csvFile != "" {
		data, err := os.ReadFile(renderFlags.csvFile)
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return helpers.DescriptorFromCSV(data, renderFlags.chartType, renderFlags.title, renderFlags.x, renderFlags.y)
	}

	var data []byte
	var err error
	if renderFlags.file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(renderFlags.file)
	}
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	return descriptor.Parse(data)
}
