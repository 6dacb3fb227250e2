package config

import (
	"encoding/json"
	"errors"
	"fmt"
	fs2 "io/fs"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/spf13/afero"
	"github.com/withsy/sitekit/pkg/git"
	path2 "github.com/withsy/sitekit/pkg/path"
	"github.com/withsy/sitekit/pkg/store"
)

func (c *Config) Path() string {
	return c.path
}

func (c *Config) Persist() error {
	return c.PersistToFs(c.fs)
}

func (c *Config) PersistToFs(fs afero.Fs) error {
	return path2.WriteYaml(fs, c.path, c)
}

// Validate checks the rules struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	for _, f := range c.Experimental.Fonts {
		for _, w := range f.Weights {
			if w%100 != 0 {
				errs = append(errs, fmt.Errorf("font '%s': weight %d is not a multiple of 100", f.Name, w))
			}
		}
	}

	seen := make(map[string]bool)
	for _, j := range c.Icons.Jobs {
		if seen[j.Prefix] {
			errs = append(errs, fmt.Errorf("icon prefix '%s' is used by more than one job", j.Prefix))
		}
		seen[j.Prefix] = true
	}

	for _, i := range c.Integrations {
		if i.Name != IntegrationMDX {
			continue
		}
		if _, err := c.MarkdownOptions(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func LoadFromFile(fs afero.Fs, path string) (*Config, error) {
	var config Config

	err := path2.ReadYaml(fs, path, &config)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.fs = fs
	config.path = path

	return &config, nil
}

// LoadOrCreate reads the configuration at path, writing the default one
// first when the file does not exist yet.
func LoadOrCreate(fs afero.Fs, path string) (*Config, error) {
	config, err := LoadFromFile(fs, path)
	if err != nil && !errors.Is(err, fs2.ErrNotExist) {
		return nil, err
	}

	if err == nil {
		return config, ensureStoreIsInGitignore(fs, config)
	}

	config = Default()
	config.fs = fs
	config.path = path

	err = config.Persist()
	if err != nil {
		return nil, fmt.Errorf("failed to persist config: %w", err)
	}

	return config, ensureStoreIsInGitignore(fs, config)
}

// LoadOrDefault reads the configuration at path, falling back to the
// default configuration without touching the filesystem.
func LoadOrDefault(fs afero.Fs, path string) (*Config, error) {
	config, err := LoadFromFile(fs, path)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, fs2.ErrNotExist) {
		return nil, err
	}

	config = Default()
	config.fs = fs
	config.path = path
	return config, nil
}

func ensureStoreIsInGitignore(fs afero.Fs, c *Config) error {
	root := filepath.Dir(c.path)
	if repo, err := git.FindRepoFromPath(fs, root); err == nil {
		root = repo.Path
	}

	storeDir := filepath.Dir(c.Content.Store)
	if storeDir == "." || storeDir == "" {
		storeDir = filepath.Dir(store.DefaultPath)
	}

	return git.EnsureGivenPatternIsInGitignore(fs, root, filepath.ToSlash(storeDir)+"/")
}

// ResolvePath picks the configuration file: the explicit flag value, then
// the environment, then the default file name in the working directory.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultFileName
}

// JSONSchema describes the configuration file for editors.
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: false,
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "sitekit configuration"

	return json.MarshalIndent(schema, "", "  ")
}
