package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"formfill/internal/answers"
	"formfill/internal/config"
	"formfill/internal/formfill"
	"formfill/internal/logger"
)

var fillCmd = &cobra.Command{
	Use:   "fill [pdf-file]",
	Short: "Fill a PDF form by drawing answers at model-suggested coordinates",
	Long: `Fill a PDF form that has no interactive form fields.

The first page of the PDF is rendered to an image and sent to a
vision-language model together with the supplied answers. The model
proposes where each answer belongs; each proposed field is then matched
against the answer set and the resolved text is drawn into a copy of the
document at those coordinates.

A preview image with confidence-colored bounding boxes is always written
so placements can be verified before the PDF is. In interactive mode
placements can be moved, removed or added by hand before saving.

Required environment variables:
  OPENAI_API_KEY - API key for the model endpoint

Optional environment variables:
  OPENAI_BASE_URL - alternative OpenAI-compatible endpoint
  FORMFILL_MODEL  - model name (default: gpt-4o)
  FORMFILL_DPI    - page render resolution (default: 150)`,
	Example: `  # Fill a form using answers from a JSON file
  formfill fill form.pdf -j answers.json

  # Fill a form using inline answers
  formfill fill form.pdf -s "Name: John Doe, Email: john@example.com"

  # Generate the preview only, without writing a PDF
  formfill fill form.pdf -j answers.json --preview-only

  # Adjust placements interactively before saving
  formfill fill form.pdf -j answers.json --interactive

  # Custom output paths
  formfill fill form.pdf -j answers.json -o filled.pdf --preview check.png`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

func init() {
	rootCmd.AddCommand(fillCmd)

	fillCmd.Flags().StringP("json", "j", "", "Path to JSON file containing form answers")
	fillCmd.Flags().StringP("data", "s", "", "Form answers as a comma-separated \"Key: value\" string")
	fillCmd.Flags().StringP("output", "o", "", "Output PDF path (default: {input}_filled.pdf)")
	fillCmd.Flags().String("preview", "", "Preview image path (default: {input}_preview.png)")
	fillCmd.Flags().Bool("preview-only", false, "Generate preview only, no PDF output")
	fillCmd.Flags().Bool("no-labels", false, "Hide field labels in the preview")
	fillCmd.Flags().Bool("interactive", false, "Interactive mode for adjusting placements")
	fillCmd.Flags().Bool("show-confidence", false, "Show confidence scores in the placement listing")
	fillCmd.Flags().Int("timeout", 120, "Model call timeout in seconds")

	fillCmd.MarkFlagsOneRequired("json", "data")
	fillCmd.MarkFlagsMutuallyExclusive("json", "data")
}

func runFill(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("fill")

	jsonPath, _ := cmd.Flags().GetString("json")
	dataString, _ := cmd.Flags().GetString("data")
	outputPath, _ := cmd.Flags().GetString("output")
	previewPath, _ := cmd.Flags().GetString("preview")
	previewOnly, _ := cmd.Flags().GetBool("preview-only")
	noLabels, _ := cmd.Flags().GetBool("no-labels")
	interactive, _ := cmd.Flags().GetBool("interactive")
	showConfidence, _ := cmd.Flags().GetBool("show-confidence")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]

	if _, err := os.Stat(pdfPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("PDF file not found: %s", pdfPath)
		}
		return fmt.Errorf("error accessing PDF file: %w", err)
	}

	// Load answers
	var set *answers.AnswerSet
	if jsonPath != "" {
		fmt.Printf("Loading answers from %s\n", jsonPath)
		loaded, err := answers.LoadFile(jsonPath)
		if err != nil {
			return err
		}
		set = loaded
	} else {
		fmt.Println("Parsing inline answer data")
		set = answers.ParseString(dataString)
	}
	if set.Len() == 0 {
		return fmt.Errorf("no answers supplied; nothing to place on the form")
	}

	fmt.Printf("Loaded %d answer fields:\n", set.Len())
	for _, p := range set.Pairs() {
		fmt.Printf("  - %s: %s\n", p.Key, p.Value)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.OpenAIAPIKey == "" {
		log.Error().Msg("OPENAI_API_KEY environment variable not set")
		return fmt.Errorf("OPENAI_API_KEY environment variable not set.\n" +
			"Please set your API key: export OPENAI_API_KEY='your-key-here'")
	}

	ctx, cancel := createFillContext(timeoutSecs, log)
	defer cancel()

	analyzer := formfill.NewOpenAIAnalyzer(newOpenAIClient(cfg), formfill.AnalyzerConfig{
		Model:   cfg.Model,
		Timeout: time.Duration(timeoutSecs) * time.Second,
	})

	fmt.Println("Analyzing form fields...")
	session, err := formfill.NewSession(pdfPath, cfg.RasterDPI)
	if err != nil {
		log.Error().Err(err).Str("file", pdfPath).Msg("Failed to open form")
		return fmt.Errorf("failed to open form: %w", err)
	}

	placements := session.Analyze(ctx, analyzer, set)
	if len(placements) == 0 {
		return fmt.Errorf("no form fields detected; check the PDF and try again")
	}

	fmt.Printf("Found %d field placements:\n", len(placements))
	printPlacements(placements, showConfidence)

	if previewPath == "" {
		previewPath = derivedPath(pdfPath, "_preview.png")
	}
	if outputPath == "" {
		outputPath = derivedPath(pdfPath, "_filled.pdf")
	}

	if interactive {
		if err := runInteractive(session, previewPath, !noLabels); err != nil {
			return err
		}
	}

	fmt.Printf("Creating preview: %s\n", previewPath)
	if err := session.SavePreview(previewPath, !noLabels); err != nil {
		log.Error().Err(err).Str("path", previewPath).Msg("Failed to save preview")
		return fmt.Errorf("failed to save preview: %w", err)
	}

	if !previewOnly {
		fmt.Printf("Writing filled PDF: %s\n", outputPath)
		if _, err := session.WritePDF(outputPath); err != nil {
			log.Error().Err(err).Str("path", outputPath).Msg("Failed to write filled PDF")
			return fmt.Errorf("failed to write filled PDF: %w", err)
		}
	}

	log.Info().
		Int("placements", len(session.Placements())).
		Str("preview", previewPath).
		Bool("preview_only", previewOnly).
		Msg("Form filling completed")

	fmt.Println("\nDone.")
	fmt.Printf("  Fields processed: %d\n", len(session.Placements()))
	fmt.Printf("  Preview: %s\n", previewPath)
	if !previewOnly {
		fmt.Printf("  Filled PDF: %s\n", outputPath)
	}
	return nil
}

func printPlacements(placements []formfill.Placement, showConfidence bool) {
	for i, p := range placements {
		confidence := ""
		if showConfidence {
			confidence = fmt.Sprintf(" [confidence: %.2f]", p.Confidence)
		}
		fmt.Printf("  %2d. %-20s: '%s' at (%3d, %3d)%s\n",
			i+1, p.FieldName, p.Text, p.X, p.Y, confidence)
	}
}

// runInteractive reads correction commands from stdin until "done" or
// end of input. An interrupt exits the process immediately with code 0.
func runInteractive(session *formfill.Session, previewPath string, showLabels bool) error {
	fmt.Println("\nInteractive mode - adjust placements before saving:")
	fmt.Println("Commands:")
	fmt.Println("  adjust <index> <x> <y>    - Move placement")
	fmt.Println("  remove <index>            - Remove placement")
	fmt.Println("  add <name> <text> <x> <y> - Add placement")
	fmt.Println("  preview                   - Save current preview")
	fmt.Println("  done                      - Finish and save")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Print("\n> ")
		select {
		case <-sigChan:
			fmt.Println("\nExiting...")
			os.Exit(0)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			done, err := handleFillCommand(session, line, previewPath, showLabels)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			if done {
				return nil
			}
		}
	}
}

// handleFillCommand executes one interactive command line. Indices typed
// by the operator are 1-based.
func handleFillCommand(session *formfill.Session, line, previewPath string, showLabels bool) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "done":
		return true, nil

	case "adjust":
		if len(fields) < 4 {
			return false, fmt.Errorf("usage: adjust <index> <x> <y>")
		}
		index, x, y, err := parseIndexXY(fields[1], fields[2], fields[3])
		if err != nil {
			return false, err
		}
		if !session.Adjust(index, formfill.Adjustment{X: &x, Y: &y}) {
			return false, fmt.Errorf("no placement %d", index+1)
		}
		fmt.Printf("Adjusted placement %d\n", index+1)

	case "remove":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: remove <index>")
		}
		index, err := parseIndex(fields[1])
		if err != nil {
			return false, err
		}
		if _, ok := session.Remove(index); !ok {
			return false, fmt.Errorf("no placement %d", index+1)
		}
		fmt.Printf("Removed placement %d\n", index+1)

	case "add":
		if len(fields) < 5 {
			return false, fmt.Errorf("usage: add <name> <text> <x> <y>")
		}
		x, err := strconv.Atoi(fields[3])
		if err != nil {
			return false, fmt.Errorf("invalid x coordinate %q", fields[3])
		}
		y, err := strconv.Atoi(fields[4])
		if err != nil {
			return false, fmt.Errorf("invalid y coordinate %q", fields[4])
		}
		session.Add(fields[1], fields[2], x, y)
		fmt.Printf("Added placement: %s\n", fields[1])

	case "preview":
		if err := session.SavePreview(previewPath, showLabels); err != nil {
			return false, err
		}
		fmt.Printf("Preview saved: %s\n", previewPath)

	default:
		return false, fmt.Errorf("invalid command %q: use adjust/remove/add/preview/done", fields[0])
	}

	return false, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return n - 1, nil
}

func parseIndexXY(indexStr, xStr, yStr string) (index, x, y int, err error) {
	index, err = parseIndex(indexStr)
	if err != nil {
		return 0, 0, 0, err
	}
	x, err = strconv.Atoi(xStr)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid x coordinate %q", xStr)
	}
	y, err = strconv.Atoi(yStr)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid y coordinate %q", yStr)
	}
	return index, x, y, nil
}

// derivedPath builds an output path next to the input, from its stem.
func derivedPath(inputPath, suffix string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(filepath.Dir(inputPath), stem+suffix)
}

// createFillContext creates a context with timeout and signal handling
// for the model call.
func createFillContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling form analysis")
			cancel()
		case <-ctx.Done():
			// Context completed normally
		}
	}()

	return ctx, cancel
}

func newOpenAIClient(cfg *config.Config) *openai.Client {
	if cfg.OpenAIBaseURL != "" {
		clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
		clientConfig.BaseURL = cfg.OpenAIBaseURL
		return openai.NewClientWithConfig(clientConfig)
	}
	return openai.NewClient(cfg.OpenAIAPIKey)
}
