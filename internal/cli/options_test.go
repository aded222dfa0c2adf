// internal/cli/options_test.go
package cli

import (
	"testing"

	"github.com/spf13/pflag"

	"alndiff/internal/config"
	"alndiff/internal/logging"
	"alndiff/internal/source"
)

func mustParse(t *testing.T, cfg *config.Config, args ...string) *Options {
	t.Helper()
	var o Options
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Register(fs, &o)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if fs.NArg() == 2 {
		o.InputA, o.InputB = fs.Arg(0), fs.Arg(1)
	}
	o.Apply(fs, cfg)
	return &o
}

func TestDefaultsKeepConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = "exon"
	cfg.Strict = true
	o := mustParse(t, &cfg, "a.jsonl", "b.jsonl")
	if cfg.Mode != "exon" || !cfg.Strict {
		t.Errorf("unset flags must not override the config file, got %+v", cfg)
	}
	if err := Validate(o, cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	mustParse(t, &cfg,
		"--mode", "full", "--rows", "query", "--strict",
		"--disambiguate", "score,e_value", "--quality", "pct_identity",
		"-o", "jsonl", "--no-header", "--stats", "none", "--no-match-exit-code", "0",
		"-q", "a.jsonl", "b.jsonl",
	)
	if cfg.Mode != "full" || cfg.Rows != "query" || !cfg.Strict {
		t.Errorf("reconcile flags not applied: %+v", cfg)
	}
	if len(cfg.Disambiguating) != 2 || cfg.Disambiguating[1] != "e_value" {
		t.Errorf("disambiguate = %v", cfg.Disambiguating)
	}
	if cfg.Output.Format != "jsonl" || cfg.Output.Header || cfg.Output.Stats != "none" || cfg.Output.NoMatchExitCode != 0 {
		t.Errorf("output flags not applied: %+v", cfg.Output)
	}
	if LogLevel(cfg) != logging.LevelError {
		t.Errorf("--quiet should log errors only")
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string][]string{
		"bad output":      {"-o", "fasta", "a.jsonl", "b.jsonl"},
		"bad stats":       {"--stats", "xml", "a.jsonl", "b.jsonl"},
		"bad mode":        {"--mode", "codon", "a.jsonl", "b.jsonl"},
		"two stdin":       {"-", "-"},
		"split on stdin":  {"--split-boundaries", "-", "b.jsonl"},
		"bad format":      {"--format-b", "sam", "a.jsonl", "b.sam"},
		"quiet+verbose":   {"-q", "-v", "a.jsonl", "b.jsonl"},
		"bad exit code":   {"--no-match-exit-code", "300", "a.jsonl", "b.jsonl"},
		"negative tol":    {"--real-tolerance", "-0.1", "a.jsonl", "b.jsonl"},
		"bad overlap row": {"--overlap-rows", "x", "a.jsonl", "b.jsonl"},
	}
	for name, args := range cases {
		cfg := config.Default()
		o := mustParse(t, &cfg, args...)
		if err := Validate(o, cfg); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestFormats(t *testing.T) {
	cfg := config.Default()
	o := mustParse(t, &cfg, "--format", "blast", "--format-b", "jsonl", "a.txt", "b.txt")
	a, b, err := o.Formats()
	if err != nil || a != source.FormatBLAST || b != source.FormatJSONL {
		t.Fatalf("formats = %q %q (%v)", a, b, err)
	}
}
