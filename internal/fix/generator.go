// Package fix drafts missing MLOps artifacts with a text generation model.
package fix

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	OutDir      string
}

type target struct {
	component string
	path      string
}

// targets maps audit categories to the artifact drafted for them. Other
// categories have no generator and are skipped.
var targets = map[string]target{
	"docker": {component: "Dockerfile", path: "Dockerfile"},
	"mlflow": {component: "mlflow.yaml", path: "mlflow.yaml"},
	"tests":  {component: "pytest unit tests", path: "tests/test_example.py"},
}

// Supported reports whether category has a generator.
func Supported(category string) bool {
	_, ok := targets[category]
	return ok
}

type Generator struct {
	LLM    TextGenerator
	OutDir string
	// Log receives one line per written file; nil discards.
	Log io.Writer
}

func NewGenerator(llm TextGenerator, outDir string) *Generator {
	if outDir == "" {
		outDir = "fixes"
	}
	return &Generator{LLM: llm, OutDir: outDir}
}

// Run drafts an artifact for each supported category in missing, in order,
// and returns the written paths. The first failure stops the run; files
// already written stay on disk and are returned.
func (g *Generator) Run(ctx context.Context, missing []string) ([]string, error) {
	if g.LLM == nil {
		return nil, fmt.Errorf("fix: no text generator configured")
	}

	var written []string
	for _, category := range missing {
		t, ok := targets[category]
		if !ok {
			continue
		}
		prompt, err := renderPrompt(t, missing)
		if err != nil {
			return written, err
		}
		content, err := g.LLM.Generate(ctx, prompt)
		if err != nil {
			return written, fmt.Errorf("generate %s: %w", t.path, err)
		}

		path := filepath.Join(g.OutDir, filepath.FromSlash(t.path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(stripCodeFence(content)), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
		if g.Log != nil {
			fmt.Fprintf(g.Log, "Wrote %s\n", path)
		}
	}
	return written, nil
}

// stripCodeFence removes one surrounding Markdown code fence, which models
// add despite being told not to.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return ensureNewline(trimmed)
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[len(lines)-1]) != "```" {
		return ensureNewline(trimmed)
	}
	return ensureNewline(strings.Join(lines[1:len(lines)-1], "\n"))
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
