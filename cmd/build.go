package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/lazyhunt/internal/render"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render a PDF resume from a YAML or JSON data file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("data")
		out, _ := cmd.Flags().GetString("out")
		if strings.TrimSpace(path) == "" {
			return errors.New("--data is required")
		}

		logger := newLogger()

		data, err := render.LoadDataFile(path)
		if err != nil {
			return err
		}

		_, err = buildResume(logger, data, out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("data", "f", "", "resume data file (YAML or JSON)")
	buildCmd.Flags().StringP("out", "o", "", "where to write the PDF (default is a new temp file)")
}

// buildResume renders data to out, or to a temp file when out is empty, and returns the file name.
func buildResume(logger *zap.Logger, data *render.Data, out string) (string, error) {
	renderer := render.New(logger)

	out = strings.TrimSpace(out)
	if out == "" {
		filename, err := renderer.WriteTemp(data)
		if err != nil {
			return "", err
		}
		out = filename
	} else if err := renderer.WriteFile(data, out); err != nil {
		return "", err
	}

	logger.Info("resume generated successfully", zap.String("filename", out))
	return out, nil
}
