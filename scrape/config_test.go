package scrape

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFile(t *testing.T) {
	// WHAT: A YAML file overrides terms, timings and site definitions.
	// WHY: Deployments tune scraping without a rebuild.
	path := filepath.Join(t.TempDir(), "scrape.yaml")
	data := `
terms: [arroz, feijão]
delay: 500ms
timeout: 10s
interval: 2h
run_on_start: true
sites:
  - name: Loja Teste
    base_url: https://loja.test/
    selectors:
      search_input: "input[name=q]"
      wait_for: ".item"
      item: ".item"
      name: ".nome"
      price: ".preco"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Terms) != 2 || cfg.Terms[1] != "feijão" {
		t.Errorf("terms = %v", cfg.Terms)
	}
	if cfg.Delay != 500*time.Millisecond || cfg.Timeout != 10*time.Second || cfg.Interval != 2*time.Hour {
		t.Errorf("timings = %v/%v/%v", cfg.Delay, cfg.Timeout, cfg.Interval)
	}
	if !cfg.RunOnStart {
		t.Error("run_on_start not read")
	}
	if len(cfg.Sites) != 1 || cfg.Sites[0].Name != "Loja Teste" {
		t.Errorf("sites = %+v", cfg.Sites)
	}
	if cfg.Sites[0].Selectors.Item != ".item" {
		t.Errorf("selectors = %+v", cfg.Sites[0].Selectors)
	}
}

func TestConfigDefaults(t *testing.T) {
	// WHAT: Unset fields fall back to the production defaults.
	// WHY: An empty config file must still produce a runnable setup.
	var cfg Config
	cfg.Defaults()

	if cfg.Delay != 2*time.Second || cfg.Timeout != 30*time.Second || cfg.Interval != 6*time.Hour {
		t.Errorf("timings = %v/%v/%v", cfg.Delay, cfg.Timeout, cfg.Interval)
	}
	if len(cfg.Terms) != len(StapleTerms) {
		t.Errorf("terms = %v, want staples", cfg.Terms)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	// WHAT: A missing file is an error, not silent defaults.
	// WHY: A typo'd CONFIG_FILE path should fail loudly at startup.
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
