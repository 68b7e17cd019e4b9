package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/jobconnect/internal/ai"
	"github.com/jonathan/jobconnect/internal/config"
)

// execute runs the root command in-process and returns everything it printed.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "jobconnect version: unknown\n", out)
}

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate", "create-user", "extract-skills", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().ShorthandLookup("d"))
	assert.NotNil(t, root.PersistentFlags().ShorthandLookup("j"))
}

func TestCommandsRequireDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AI_PROVIDER", "none")

	for _, args := range [][]string{
		{"serve"},
		{"migrate"},
		{"create-user", "--name", "Ann", "--email", "ann@example.com", "--account-type", "employer", "--password-stdin"},
	} {
		t.Run(args[0], func(t *testing.T) {
			_, err := execute(t, "password123\n", args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DATABASE_URL is required")
		})
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestExtractSkills(t *testing.T) {
	t.Setenv("AI_PROVIDER", "none")

	decode := func(t *testing.T, out string) extractSkillsOutput {
		t.Helper()
		var got extractSkillsOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		return got
	}
	names := func(o extractSkillsOutput) []string {
		n := make([]string, 0, len(o.Skills))
		for _, s := range o.Skills {
			n = append(n, s.Name)
		}
		return n
	}

	t.Run("arguments", func(t *testing.T) {
		out, err := execute(t, "", "extract-skills", "Python", "and", "docker", "in", "production")
		require.NoError(t, err)
		got := decode(t, out)
		assert.Equal(t, ai.SourceFallback, got.Source)
		assert.Equal(t, []string{"Python", "Docker"}, names(got))
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.txt")
		require.NoError(t, os.WriteFile(path, []byte("Led a team shipping PostgreSQL and Git tooling"), 0o600))

		out, err := execute(t, "", "extract-skills", "--file", path)
		require.NoError(t, err)
		assert.Equal(t, []string{"SQL", "PostgreSQL", "Git"}, names(decode(t, out)))
	})

	t.Run("stdin", func(t *testing.T) {
		out, err := execute(t, "SQL on AWS", "extract-skills", "-f", "-")
		require.NoError(t, err)
		assert.Equal(t, []string{"SQL", "AWS"}, names(decode(t, out)))
	})

	t.Run("no text", func(t *testing.T) {
		_, err := execute(t, "   ", "extract-skills", "-f", "-")
		assert.EqualError(t, err, "no text given")
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := execute(t, "", "extract-skills", "--file", filepath.Join(t.TempDir(), "nope.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

func TestNewAIServiceFallsBackWithoutCredentials(t *testing.T) {
	tests := []struct {
		name     string
		settings config.AISettings
	}{
		{name: "disabled", settings: config.AISettings{Provider: config.ProviderNone}},
		{name: "gemini without key", settings: config.AISettings{Provider: config.ProviderGemini}},
		{name: "anthropic without key", settings: config.AISettings{Provider: config.ProviderAnthropic}},
		{name: "vertex without project", settings: config.AISettings{Provider: config.ProviderVertex}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{AI: tt.settings}
			cfg.AI.Timeout = 5 * time.Second

			service, closeAI, err := newAIService(context.Background(), cfg, zap.NewNop())
			require.NoError(t, err)
			require.NotNil(t, closeAI)
			defer closeAI()

			status := service.Status()
			assert.False(t, status.Enabled)
			assert.Equal(t, config.ProviderNone, status.Provider)
		})
	}
}
