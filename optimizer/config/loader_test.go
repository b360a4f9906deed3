package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sentium-labs/bridge-optimizer/optimizer/config"
)

const tomlMetadata = `
[chains.ethereum]
id = 0
avg_latency_ms = 15000.0
avg_cost = 50000.0
reliability = 0.99

[chains.sentium]
id = 4
avg_latency_ms = 500.0
avg_cost = 10000.0
reliability = 0.99
`

const jsonMetadata = `{
  "chains": {
    "polkadot": {"id": 1, "avg_latency_ms": 6000, "avg_cost": 30000, "reliability": 0.98}
  }
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadRegistryTOML(t *testing.T) {
	path := writeTemp(t, "chains.toml", tomlMetadata)

	reg, err := config.LoadRegistry(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(reg) != 2 {
		t.Fatalf("expected 2 chains, got %d", len(reg))
	}
	if reg["sentium"].ID != 4 || reg["sentium"].Reliability != 0.99 {
		t.Errorf("unexpected sentium metadata: %+v", reg["sentium"])
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeTemp(t, "chains.json", jsonMetadata)

	reg, err := config.LoadRegistry(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reg["polkadot"].AvgCost != 30000 {
		t.Errorf("unexpected polkadot metadata: %+v", reg["polkadot"])
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	_, err := config.LoadRegistry(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRegistryEmpty(t *testing.T) {
	path := writeTemp(t, "empty.toml", "")
	_, err := config.LoadRegistry(path)
	if err == nil {
		t.Fatal("expected error for empty metadata")
	}
}

func TestLoadRegistryRejectsOversizedID(t *testing.T) {
	path := writeTemp(t, "bad.toml", `
[chains.bigchain]
id = 40
avg_latency_ms = 1.0
avg_cost = 1.0
reliability = 0.5
`)
	_, err := config.LoadRegistry(path)
	if err == nil {
		t.Fatal("expected error for id outside one-hot capacity")
	}
}
