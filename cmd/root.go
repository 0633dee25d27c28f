package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"formfill/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "formfill",
	Short: "formfill - fill non-fillable PDF forms by coordinates",
	Long: `formfill is a command-line tool that fills PDF forms which have no
interactive form fields. It renders the first page of the PDF, asks a
vision-language model where each answer belongs on the page, and writes
the text into a copy of the document at those coordinates.

A preview image with confidence-colored bounding boxes is produced before
anything is written, and an interactive mode allows moving, removing and
adding placements by hand.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("formfill executed")

		fmt.Println("Welcome to formfill!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
