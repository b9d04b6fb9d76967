package cmd

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/taskclaw/internal/config"
	"github.com/nibzard/taskclaw/internal/exitcode"
)

func TestConfigPrintsEffectiveValues(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "--storage", "aggregate", "--format", "yaml", "config")

	var cfg config.Config
	if _, err := toml.Decode(out, &cfg); err != nil {
		t.Fatalf("config output is not TOML: %v\n%s", err, out)
	}
	if cfg.Storage != config.StorageAggregate || cfg.DataFormat != config.FormatYAML {
		t.Errorf("storage %q format %q", cfg.Storage, cfg.DataFormat)
	}
	if cfg.DataDir != env.dataDir {
		t.Errorf("data_dir = %q, want %q", cfg.DataDir, env.dataDir)
	}
}

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t)

	if got := env.mustRun(t, "config", "init"); got != "Wrote config to "+env.configPath+"\n" {
		t.Errorf("config init = %q", got)
	}
	data, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != config.ExampleConfig() {
		t.Error("written config differs from the example")
	}

	_, stderr, code := env.run(t, "config", "init")
	if code != exitcode.UserError || !strings.Contains(stderr, "--force") {
		t.Errorf("second init: exit %d stderr %q", code, stderr)
	}

	env.mustRun(t, "config", "init", "--force")
}

func TestConfigSchema(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "config", "schema")

	var schema struct {
		Required []string `json:"required"`
	}
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("schema output is not JSON: %v", err)
	}
	for _, field := range []string{"id", "title", "completed"} {
		found := false
		for _, r := range schema.Required {
			if r == field {
				found = true
			}
		}
		if !found {
			t.Errorf("schema does not require %q", field)
		}
	}
}
