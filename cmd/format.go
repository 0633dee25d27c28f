package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"formfill/internal/answers"
	"formfill/internal/logger"
)

var formatCmd = &cobra.Command{
	Use:   "format [json-file]",
	Short: "Reformat a collected-answers JSON file as a string or CSV",
	Long: `Extract the "collected_answers" mapping from a JSON file and reformat
it for use with the fill command.

Keys are prettified for display: underscores become spaces and words are
title-cased ("first_name" becomes "First Name"). The string output can be
passed directly to 'fill -s'; the CSV output is a two-column Field,Value
file.`,
	Example: `  # Print the answers as a "Key: value, ..." string
  formfill format answers.json --string

  # Write the answers to a CSV file
  formfill format answers.json --csv answers.csv

  # Feed the formatted string straight into the fill command
  formfill fill form.pdf -s "$(formfill format answers.json --string)"`,
	Args: cobra.ExactArgs(1),
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)

	formatCmd.Flags().Bool("string", false, "Output as a formatted string")
	formatCmd.Flags().String("csv", "", "Output as CSV to the given file")
	formatCmd.Flags().Bool("examples", false, "Show usage examples")

	formatCmd.MarkFlagsMutuallyExclusive("string", "csv", "examples")
}

func runFormat(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("format")

	asString, _ := cmd.Flags().GetBool("string")
	csvPath, _ := cmd.Flags().GetString("csv")
	showExamples, _ := cmd.Flags().GetBool("examples")

	jsonPath := args[0]

	set, err := answers.LoadCollected(jsonPath)
	if err != nil {
		log.Error().Err(err).Str("file", jsonPath).Msg("Failed to load answers")
		return err
	}

	log.Info().
		Str("file", jsonPath).
		Int("answers", set.Len()).
		Msg("Loaded collected answers")

	switch {
	case asString:
		fmt.Println(set.FormatString())

	case csvPath != "":
		if err := set.WriteCSV(csvPath); err != nil {
			log.Error().Err(err).Str("path", csvPath).Msg("Failed to write CSV")
			return err
		}
		fmt.Printf("CSV file created: %s\n", csvPath)

	case showExamples:
		printFormatExamples(jsonPath)

	default:
		fmt.Println("Extracted data:")
		for _, p := range set.Pairs() {
			fmt.Printf("  %-30s: %s\n", answers.PrettyKey(p.Key), p.Value)
		}
		printFormatExamples(jsonPath)
	}

	return nil
}

func printFormatExamples(jsonPath string) {
	formPath := filepath.Join(filepath.Dir(jsonPath), "form.pdf")

	fmt.Println("\nUsage examples:")
	fmt.Printf("  # Print the answers as a string\n")
	fmt.Printf("  formfill format %s --string\n\n", jsonPath)
	fmt.Printf("  # Create a CSV file\n")
	fmt.Printf("  formfill format %s --csv answers.csv\n\n", jsonPath)
	fmt.Printf("  # Fill a form with the formatted string\n")
	fmt.Printf("  formfill fill %s -s \"$(formfill format %s --string)\"\n", formPath, jsonPath)
}
