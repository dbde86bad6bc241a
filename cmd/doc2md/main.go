// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc2md CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2md/internal/container"
	"github.com/pdiddy/doc2md/internal/convert"
	"github.com/pdiddy/doc2md/internal/engine"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagOutput       string
	flagDir          string
	flagOutputDir    string
	flagExtensions   []string
	flagBackend      string
	flagOCR          bool
	flagFrontmatter  bool
	flagSkipExisting bool
	flagVerbose      bool
)

// rootCmd is the base command for the doc2md CLI. It performs the
// conversion itself; there is no subcommand for the main workflow.
var rootCmd = &cobra.Command{
	Use:   "doc2md [input]",
	Short: "Convert documents to Markdown",
	Long: `doc2md converts documents (PDF, DOCX, PPTX, ODT, XLSX, HTML, EPUB) into
Markdown. Parsing, layout analysis, and table reconstruction are delegated to
a conversion engine; doc2md handles path resolution, batch runs over
directories, and output persistence.

Convert a single file to a Markdown sibling, or pass -d to convert every
matching file in a directory into an output directory.`,
	Example: `  doc2md report.pdf
  doc2md report.pdf -o notes/report.md
  doc2md -d ./docs --output-dir ./docs/md --extensions .pdf,.docx
  doc2md scan.pdf --ocr`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file for single-file mode (default: input with .md extension)")
	rootCmd.Flags().StringVarP(&flagDir, "directory", "d", "", "directory of documents to convert")
	rootCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "output directory for batch mode (default: <directory>/markdown_output)")
	rootCmd.Flags().StringSliceVar(&flagExtensions, "extensions", nil, "file extensions to process in batch mode")
	rootCmd.Flags().StringVar(&flagBackend, "backend", "tabula", "conversion backend: tabula or docling")
	rootCmd.Flags().BoolVar(&flagOCR, "ocr", false, "enable OCR for scanned PDFs")
	rootCmd.Flags().BoolVar(&flagFrontmatter, "frontmatter", false, "prepend a YAML metadata header to each output")
	rootCmd.Flags().BoolVar(&flagSkipExisting, "skip-existing", false, "keep existing Markdown outputs instead of overwriting")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging and supported-format listing")

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doc2md.yaml or ~/.config/doc2md/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc2md"))
		}
	}

	viper.SetEnvPrefix("DOC2MD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// applyConfig fills in flag values from viper for flags the user did not
// set explicitly. Flags win over config file and environment.
func applyConfig(cmd *cobra.Command) {
	if !cmd.Flags().Changed("ocr") && viper.IsSet("ocr") {
		flagOCR = viper.GetBool("ocr")
	}
	if !cmd.Flags().Changed("backend") && viper.IsSet("backend") {
		flagBackend = viper.GetString("backend")
	}
	if !cmd.Flags().Changed("extensions") && viper.IsSet("extensions") {
		flagExtensions = viper.GetStringSlice("extensions")
	}
	if !cmd.Flags().Changed("output-dir") && viper.IsSet("output_dir") {
		flagOutputDir = viper.GetString("output_dir")
	}
	if !cmd.Flags().Changed("frontmatter") && viper.IsSet("frontmatter") {
		flagFrontmatter = viper.GetBool("frontmatter")
	}
	if !cmd.Flags().Changed("skip-existing") && viper.IsSet("skip_existing") {
		flagSkipExisting = viper.GetBool("skip_existing")
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func buildEngine(log *slog.Logger) (engine.Engine, error) {
	opts := engine.DefaultOptions()
	opts.OCR = flagOCR

	switch flagBackend {
	case "tabula":
		return engine.NewTabula(opts), nil
	case "docling":
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		log.Debug("container runtime detected", "runtime", rt.Name())
		return engine.NewDocling(rt, opts)
	default:
		return nil, fmt.Errorf("unknown backend %q (expected tabula or docling)", flagBackend)
	}
}

func run(cmd *cobra.Command, args []string) error {
	applyConfig(cmd)
	logger := newLogger(flagVerbose)

	var input string
	if len(args) == 1 {
		input = args[0]
	}
	if input == "" && flagDir == "" {
		return fmt.Errorf("an input file or a directory (-d) is required")
	}
	if input != "" && flagDir != "" {
		return fmt.Errorf("an input file and a directory (-d) are mutually exclusive")
	}

	eng, err := buildEngine(logger)
	if err != nil {
		return err
	}
	conv := convert.New(eng, convert.Config{
		Frontmatter:  flagFrontmatter,
		SkipExisting: flagSkipExisting,
	}, logger)

	if input != "" {
		result, err := conv.ConvertFile(input, flagOutput)
		if err != nil {
			return err
		}
		fmt.Printf("Conversion complete: %s\n", result.OutputPath)
	} else {
		result, err := conv.ConvertDir(flagDir, flagOutputDir, flagExtensions, os.Stdout)
		if err != nil {
			return err
		}
		outputs := result.Outputs()
		fmt.Printf("Batch conversion complete: %d files converted\n", len(outputs))
		for _, p := range outputs {
			fmt.Printf("  - %s\n", p)
		}
	}

	if flagVerbose {
		fmt.Printf("\nSupported formats: %s\n", strings.Join(engine.SupportedExtensions(), ", "))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
