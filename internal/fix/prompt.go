package fix

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompts/fix.tmpl
var promptFS embed.FS

var promptTmpl = template.Must(
	template.New("fix.tmpl").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(promptFS, "prompts/fix.tmpl"),
)

type promptData struct {
	Component string
	Target    string
	Missing   []string
}

// renderPrompt builds the generation prompt from the component and the
// audit's missing list only; repository contents never reach the model.
func renderPrompt(t target, missing []string) (string, error) {
	var b strings.Builder
	if err := promptTmpl.Execute(&b, promptData{Component: t.component, Target: t.path, Missing: missing}); err != nil {
		return "", fmt.Errorf("render prompt for %s: %w", t.component, err)
	}
	return b.String(), nil
}
