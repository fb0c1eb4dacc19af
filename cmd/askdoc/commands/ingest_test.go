// ABOUTME: Tests for the ingest and serve commands' fail-fast behavior
// ABOUTME: Missing required configuration must abort before any pipeline work
package commands

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func clearRequiredEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"ASKDOC_SOURCE_URL", "TELEGRAM_BOT_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestIngestCmd_FailsFastOnMissingConfig(t *testing.T) {
	clearRequiredEnv(t)

	cmd := NewIngestCmd()
	err := cmd.RunE(cmd, nil)
	if err == nil {
		t.Fatal("expected missing-configuration error")
	}
	for _, want := range []string{"OPENAI_API_KEY", "ASKDOC_SOURCE_URL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should enumerate %s: %v", want, err)
		}
	}
}

func TestIngestCmd_VerboseLogsConfiguration(t *testing.T) {
	clearRequiredEnv(t)
	t.Setenv("ASKDOC_TABLE_NAME", "verbose_check_table")

	verbose = true
	defer func() { verbose = false }()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	cmd := NewIngestCmd()
	if err := cmd.RunE(cmd, nil); err == nil {
		t.Fatal("expected missing-configuration error")
	}
	if !strings.Contains(buf.String(), "verbose_check_table") {
		t.Errorf("verbose run should log the resolved configuration, got: %q", buf.String())
	}
}

func TestServeCmd_FailsFastOnMissingConfig(t *testing.T) {
	clearRequiredEnv(t)

	cmd := NewServeCmd()
	err := cmd.RunE(cmd, nil)
	if err == nil {
		t.Fatal("expected missing-configuration error")
	}
	if !strings.Contains(err.Error(), "TELEGRAM_BOT_TOKEN") {
		t.Errorf("error should enumerate TELEGRAM_BOT_TOKEN: %v", err)
	}
}

func TestMCPCmd_FailsFastOnMissingConfig(t *testing.T) {
	clearRequiredEnv(t)

	cmd := NewMCPCmd()
	err := cmd.RunE(cmd, nil)
	if err == nil {
		t.Fatal("expected missing-configuration error")
	}
	if !strings.Contains(err.Error(), "POSTGRES_USER") {
		t.Errorf("error should enumerate POSTGRES_USER: %v", err)
	}
}
