package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"document-chunker/models"
	"document-chunker/services"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
	outputText = "text"
)

type extractOptions struct {
	chunkSize int
	overlap   int
	mimeType  string
	output    string
	strictPDF bool
}

func newExtractCommand(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	opts := extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract, normalize and chunk a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], opts, logger(cmd))
		},
	}

	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", services.DefaultChunkSize, "maximum characters per chunk")
	cmd.Flags().IntVar(&opts.overlap, "overlap", services.DefaultOverlap, "characters shared by consecutive chunks")
	cmd.Flags().StringVar(&opts.mimeType, "mime", "", "declared MIME type (defaults to detection by file suffix)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputJSON, "output format: json, yaml or text")
	cmd.Flags().BoolVar(&opts.strictPDF, "strict-pdf", false, "validate PDF structure before extraction")

	return cmd
}

func runExtract(cmd *cobra.Command, path string, opts extractOptions, logger *slog.Logger) error {
	switch opts.output {
	case outputJSON, outputYAML, outputText:
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	pipeline := services.NewPipeline(
		services.WithLogger(logger),
		services.WithExtractorOptions(services.ExtractorOptions{StrictPDF: opts.strictPDF}),
	)

	doc := models.SourceDocument{
		Content:          content,
		DeclaredMIMEType: opts.mimeType,
		Filename:         filepath.Base(path),
	}

	result, err := pipeline.Process(cmd.Context(), doc, services.ChunkConfig{
		ChunkSize: opts.chunkSize,
		Overlap:   opts.overlap,
	})
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), result, opts.output)
}

func writeResult(w io.Writer, result *models.ExtractionResult, output string) error {
	switch output {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()

	case outputText:
		fmt.Fprintf(w, "%s (%s): %d characters, %d chunks\n",
			result.Filename, result.Format, result.TotalCharacters, len(result.Chunks))
		for _, chunk := range result.Chunks {
			fmt.Fprintf(w, "\n--- chunk %d [%d, %d) ---\n", chunk.Index, chunk.StartOffset, chunk.EndOffset)
			fmt.Fprintln(w, chunk.Content)
		}
		return nil

	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(models.NewExtractResponse(result, true))
	}
}

func newDetectCommand() *cobra.Command {
	var mimeType string

	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "Print the format the pipeline would use for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := services.DetectFormat(mimeType, filepath.Base(args[0]))
			fmt.Fprintln(cmd.OutOrStdout(), format)
			if format == services.FormatUnsupported {
				return fmt.Errorf("%s: %s", services.KindUnsupportedFormat, args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mimeType, "mime", "", "declared MIME type")

	return cmd
}
