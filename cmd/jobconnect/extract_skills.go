package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobconnect/internal/ai"
	"github.com/jonathan/jobconnect/internal/types"
)

type extractSkillsOutput struct {
	Skills []types.Skill `json:"skills"`
	Source ai.Source     `json:"source"`
}

func newExtractSkillsCmd(flags *globalFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "extract-skills [text]",
		Short: "Extract skills from free text and print them as JSON",
		Long:  "Extract skills from free text and print them as JSON. Text comes from the arguments, or from --file (use - for standard input).",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), file, args)
			if err != nil {
				return err
			}

			rt, err := flags.setup()
			if err != nil {
				return err
			}
			defer func() { _ = rt.log.Sync() }()

			service, closeAI, err := newAIService(cmd.Context(), rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer closeAI()

			skills, source := service.ExtractSkills(cmd.Context(), text)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(extractSkillsOutput{Skills: skills, Source: source})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read text from this file (- for standard input)")
	return cmd
}

func readText(stdin io.Reader, file string, args []string) (string, error) {
	var text string
	switch {
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		text = string(data)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		text = string(data)
	default:
		text = strings.Join(args, " ")
	}

	if strings.TrimSpace(text) == "" {
		return "", errors.New("no text given")
	}
	return text, nil
}
