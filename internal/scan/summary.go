package scan

// Category names a pattern bucket in a Summary.
type Category string

const (
	CategoryPythonScripts Category = "python_scripts"
	CategoryConfigFiles   Category = "config_files"
	CategoryDockerFiles   Category = "docker_files"
	CategoryTestFiles     Category = "test_files"
	CategoryDataFolders   Category = "data_folders"
	CategoryModelFiles    Category = "model_files"
)

// Categories is the fixed bucket set, in classification priority order.
var Categories = []Category{
	CategoryPythonScripts,
	CategoryDockerFiles,
	CategoryConfigFiles,
	CategoryTestFiles,
	CategoryDataFolders,
	CategoryModelFiles,
}

// Summary is the structural description of a repository working tree.
//
// Paths are repository-relative and slash separated. Files and Directories keep
// walk order; the root itself is never listed. Patterns always holds every
// category, possibly with an empty list.
type Summary struct {
	Files       []string              `json:"files"`
	Directories []string              `json:"directories"`
	Patterns    map[Category][]string `json:"ml_patterns"`
	TotalFiles  int                   `json:"total_files"`
	TotalDirs   int                   `json:"total_dirs"`
}

// NewSummary returns an empty summary with every pattern bucket initialized.
func NewSummary() *Summary {
	s := &Summary{
		Files:       []string{},
		Directories: []string{},
		Patterns:    make(map[Category][]string, len(Categories)),
	}
	for _, c := range Categories {
		s.Patterns[c] = []string{}
	}
	return s
}

// Bucket returns the paths recorded for c. ok is false when the bucket key is
// absent, which only happens for summaries decoded from malformed input.
func (s *Summary) Bucket(c Category) (paths []string, ok bool) {
	if s == nil || s.Patterns == nil {
		return nil, false
	}
	paths, ok = s.Patterns[c]
	return paths, ok
}

func (s *Summary) addFile(rel string) {
	s.Files = append(s.Files, rel)
	s.TotalFiles = len(s.Files)
}

func (s *Summary) addDir(rel string) {
	s.Directories = append(s.Directories, rel)
	s.TotalDirs = len(s.Directories)
}
