package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/lazyhunt/internal/render"
	"github.com/spigell/lazyhunt/internal/server"
)

const (
	PromptBuild  = "Build Resume from Scratch"
	PromptUpdate = "Update Resume Skills from Job URL"
	PromptExit   = "Exit"
)

var featurePrompt = promptui.Select{
	Label: "Choose a Feature",
	Items: []string{PromptBuild, PromptUpdate, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run lazyhunt interactively",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// run is the interactive entry point of the cli.
func run(ctx context.Context) error {
	logger, config := setup()

	logger.Info("starting the lazyhunt", zap.String("version", version))

	_, feature, err := featurePrompt.Run()
	if err != nil {
		return err
	}

	switch feature {
	case PromptBuild:
		data, err := askResumeData()
		if err != nil {
			return err
		}
		out, err := ask("Output PDF (empty for a temp file)", "", nil)
		if err != nil {
			return err
		}
		_, err = buildResume(logger, data, out)
		return err
	case PromptUpdate:
		url, err := ask("Paste Job Post URL", "", required)
		if err != nil {
			return err
		}
		resume, err := ask("Resume (.docx)", "", existingFile)
		if err != nil {
			return err
		}
		out, err := ask("Output file", server.UpdatedFileName, required)
		if err != nil {
			return err
		}
		return updateSkills(ctx, logger, newOrchestrator(logger, config), url, resume, out)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return nil
	default:
		return fmt.Errorf("invalid feature: %s", feature)
	}
}

// askResumeData collects the resume form field by field.
func askResumeData() (*render.Data, error) {
	f := &form{}

	data := &render.Data{
		Name:     f.ask("Full Name", required),
		Location: f.ask("Location", nil),
		Phone:    f.ask("Phone Number", nil),
		Email:    f.ask("Email Address", nil),
		Summary:  f.ask("Professional Summary", nil),
	}

	experiences := f.count("Number of Experiences", render.MaxExperience)
	for i := 1; i <= experiences; i++ {
		data.Experience = append(data.Experience, render.Experience{
			Company:  f.ask(fmt.Sprintf("Experience %d: Company", i), nil),
			Location: f.ask(fmt.Sprintf("Experience %d: Location", i), nil),
			Role:     f.ask(fmt.Sprintf("Experience %d: Role", i), nil),
			Duration: f.ask(fmt.Sprintf("Experience %d: Duration", i), nil),
			Tasks:    strings.ReplaceAll(f.ask(fmt.Sprintf("Experience %d: Responsibilities (separated by ;)", i), nil), ";", "\n"),
		})
	}

	educations := f.count("Number of Education Entries", render.MaxEducation)
	for i := 1; i <= educations; i++ {
		data.Education = append(data.Education, render.Education{
			Degree:      f.ask(fmt.Sprintf("Education %d: Degree", i), nil),
			Institution: f.ask(fmt.Sprintf("Education %d: Institution", i), nil),
			Duration:    f.ask(fmt.Sprintf("Education %d: Duration", i), nil),
		})
	}

	data.Skills = strings.Split(f.ask("Enter skills separated by commas", nil), ",")

	if f.err != nil {
		return nil, f.err
	}

	data.Normalize()
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}

// form asks questions until the first error and keeps it.
type form struct {
	err error
}

func (f *form) ask(label string, validate promptui.ValidateFunc) string {
	if f.err != nil {
		return ""
	}
	answer, err := ask(label, "", validate)
	f.err = err
	return answer
}

func (f *form) count(label string, limit int) int {
	answer := f.ask(label, between(1, limit))
	if f.err != nil {
		return 0
	}
	n, _ := strconv.Atoi(strings.TrimSpace(answer))
	return n
}

func ask(label, def string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
	}
	answer, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func required(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("a value is required")
	}
	return nil
}

func existingFile(input string) error {
	info, err := os.Stat(strings.TrimSpace(input))
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("a file is required")
	}
	return nil
}

func between(low, high int) promptui.ValidateFunc {
	return func(input string) error {
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return errors.New("a number is required")
		}
		if n < low || n > high {
			return fmt.Errorf("a number from %d to %d is required", low, high)
		}
		return nil
	}
}
