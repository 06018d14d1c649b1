package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/lazyhunt/internal/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the skills found in a job posting, one per line",
	RunE: func(cmd *cobra.Command, _ []string) error {
		url, _ := cmd.Flags().GetString("url")
		if strings.TrimSpace(url) == "" {
			return errors.New("--url is required")
		}

		logger, config := setup()
		return printSkills(cmd.Context(), newOrchestrator(logger, config), url, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("url", "u", "", "job posting URL")
}

func printSkills(ctx context.Context, orchestrator *pipeline.Orchestrator, url string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	skills, err := orchestrator.ExtractSkills(ctx, strings.TrimSpace(url))
	if err != nil {
		return err
	}

	for _, skill := range skills {
		if _, err := fmt.Fprintln(w, skill); err != nil {
			return err
		}
	}
	return nil
}
