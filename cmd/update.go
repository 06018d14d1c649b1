package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/lazyhunt/internal/pipeline"
	"github.com/spigell/lazyhunt/internal/server"
)

const missingInputsMessage = "Please provide both a Job Post URL and a resume."

var errMissingInputs = errors.New("job url and resume are required")

var updateCmd = &cobra.Command{
	Use:   "update-skills",
	Short: "Merge the skills found in a job posting into a .docx resume",
	RunE: func(cmd *cobra.Command, _ []string) error {
		url, _ := cmd.Flags().GetString("url")
		resume, _ := cmd.Flags().GetString("resume")
		out, _ := cmd.Flags().GetString("out")

		logger, config := setup()
		return updateSkills(cmd.Context(), logger, newOrchestrator(logger, config), url, resume, out)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringP("url", "u", "", "job posting URL")
	updateCmd.Flags().StringP("resume", "r", "", "resume in .docx format")
	updateCmd.Flags().StringP("out", "o", server.UpdatedFileName, "where to write the updated resume")
}

func updateSkills(ctx context.Context, logger *zap.Logger, orchestrator *pipeline.Orchestrator, url, resume, out string) error {
	url = strings.TrimSpace(url)
	resume = strings.TrimSpace(resume)
	if url == "" || resume == "" {
		logger.Error(missingInputsMessage)
		return errMissingInputs
	}
	if out == "" {
		out = server.UpdatedFileName
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(resume)
	if err != nil {
		return fmt.Errorf("reading resume: %w", err)
	}

	logger.Info("extracting job description", zap.String("url", url))

	result, err := orchestrator.UpdateSkills(ctx, pipeline.Request{
		JobURL: url,
		Name:   filepath.Base(resume),
		Resume: data,
	})
	if err != nil {
		return err
	}

	if len(result.Skills) == 0 {
		logger.Warn("no recognizable skills found in the job description")
	}
	if result.Warning != nil {
		logger.Warn("skills section not updated; the resume is written unchanged", zap.Error(result.Warning))
	}

	if err := os.WriteFile(out, result.Document, 0o644); err != nil {
		return fmt.Errorf("writing resume: %w", err)
	}

	logger.Info("resume written",
		zap.String("filename", out),
		zap.Bool("updated", result.Updated),
		zap.Strings("skills", result.Skills),
	)

	return nil
}
