package icons

import (
	"path/filepath"
)

const DefaultOutputDir = "src/icons"

// Job maps one source directory to one icon set prefix.
type Job struct {
	Dir    string `yaml:"dir" json:"dir" validate:"required"`
	Prefix string `yaml:"prefix" json:"prefix" validate:"required,lowercase"`
}

func (j Job) OutputPath(outputDir string) string {
	return filepath.Join(outputDir, j.Prefix+".json")
}

func (j Job) String() string {
	return j.Dir + " -> " + j.Prefix
}

// DefaultJobs are the icon sets shipped with the site.
func DefaultJobs() []Job {
	return []Job{
		{Dir: "svg/aws", Prefix: "aws"},
		{Dir: "svg/google-cloud", Prefix: "google-cloud"},
		{Dir: "svg/supabase", Prefix: "supabase"},
		{Dir: "svg/withsy", Prefix: "withsy"},
	}
}
