package scan

import "strings"

// Entry is a single file presented to the classifier.
type Entry struct {
	// Name is the base name of the file.
	Name string
	// Dir is the slash-separated directory path relative to the root ("." for the root).
	Dir string
	// Path is the slash-separated file path relative to the root.
	Path string
}

// Rule is one step of the classification chain.
//
// Match decides whether the rule claims the entry. Once a rule claims an entry no
// later rule is consulted, even when Record declines to produce a path.
type Rule struct {
	Name     string
	Category Category
	Match    func(e Entry) bool
	// Record returns the path stored in the bucket. Nil means the entry's own path.
	Record func(e Entry) (string, bool)
}

// DefaultRules is the classification chain, highest priority first.
var DefaultRules = []Rule{
	{
		Name:     "python-source",
		Category: CategoryPythonScripts,
		Match: func(e Entry) bool {
			return strings.HasSuffix(strings.ToLower(e.Name), ".py")
		},
	},
	{
		Name:     "container-definition",
		Category: CategoryDockerFiles,
		Match: func(e Entry) bool {
			return e.Name == "Dockerfile" || e.Name == "docker-compose.yml"
		},
	},
	{
		Name:     "yaml-config",
		Category: CategoryConfigFiles,
		Match: func(e Entry) bool {
			low := strings.ToLower(e.Name)
			return strings.HasSuffix(low, ".yaml") || strings.HasSuffix(low, ".yml")
		},
	},
	{
		Name:     "test-location",
		Category: CategoryTestFiles,
		Match: func(e Entry) bool {
			return strings.Contains(strings.ToLower(e.Dir), "test") || strings.HasPrefix(e.Name, "test_")
		},
	},
	{
		Name:     "dataset-file",
		Category: CategoryDataFolders,
		Match: func(e Entry) bool {
			return containsAny(strings.ToLower(e.Name), ".csv", ".json", ".data")
		},
		Record: func(e Entry) (string, bool) {
			if !strings.Contains(strings.ToLower(e.Dir), "data") {
				return "", false
			}
			return e.Dir, true
		},
	},
	{
		Name:     "model-artifact",
		Category: CategoryModelFiles,
		Match: func(e Entry) bool {
			return containsAny(strings.ToLower(e.Name), ".pkl", ".h5", ".joblib", ".pth")
		},
	},
}

// Classifier buckets files into categories using an ordered rule list.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over rules. With no rules it uses DefaultRules.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Rules returns the rule chain in priority order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify returns the category and recorded path for e. ok is false when no
// rule claims the entry or the claiming rule declines to record it.
func (c *Classifier) Classify(e Entry) (cat Category, recorded string, ok bool) {
	for _, r := range c.rules {
		if !r.Match(e) {
			continue
		}
		if r.Record == nil {
			return r.Category, e.Path, true
		}
		p, ok := r.Record(e)
		if !ok {
			return "", "", false
		}
		return r.Category, p, true
	}
	return "", "", false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
