// Package config holds the declarative site configuration: integrations,
// deployment adapter, web fonts and the settings of the icon and content
// toolchains.
package config

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/withsy/sitekit/pkg/content"
	"github.com/withsy/sitekit/pkg/icons"
	"github.com/withsy/sitekit/pkg/markdown"
	"github.com/withsy/sitekit/pkg/store"
)

const (
	DefaultFileName = "sitekit.yml"
	EnvConfigPath   = "SITEKIT_CONFIG"
	EnvRunID        = "SITEKIT_RUN_ID"

	IntegrationMDX   = "mdx"
	IntegrationReact = "react"
)

type Config struct {
	fs   afero.Fs
	path string

	Integrations []Integration `yaml:"integrations" json:"integrations" validate:"dive"`
	Adapter      Adapter       `yaml:"adapter" json:"adapter"`
	Experimental Experimental  `yaml:"experimental,omitempty" json:"experimental,omitempty"`
	Vite         Vite          `yaml:"vite,omitempty" json:"vite,omitempty"`
	Icons        Icons         `yaml:"icons" json:"icons"`
	Content      Content       `yaml:"content" json:"content"`
}

type Integration struct {
	Name    string         `yaml:"name" json:"name" validate:"required"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// Decode converts the free form options into out.
func (i Integration) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(i.Options); err != nil {
		return errors.Wrapf(err, "invalid options for integration '%s'", i.Name)
	}

	return nil
}

type Adapter struct {
	Name    string         `yaml:"name" json:"name" validate:"required"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

type Experimental struct {
	Fonts []Font `yaml:"fonts,omitempty" json:"fonts,omitempty" validate:"dive"`
}

type Font struct {
	Provider    string   `yaml:"provider" json:"provider" validate:"required,oneof=google bunny"`
	Name        string   `yaml:"name" json:"name" validate:"required"`
	CSSVariable string   `yaml:"cssVariable" json:"cssVariable" validate:"required,startswith=--"`
	Weights     []int    `yaml:"weights" json:"weights" validate:"required,min=1,dive,min=100,max=900"`
	Styles      []string `yaml:"styles,omitempty" json:"styles,omitempty" validate:"dive,oneof=normal italic"`
	Display     string   `yaml:"display,omitempty" json:"display,omitempty" validate:"omitempty,oneof=auto block swap fallback optional"`
	Fallbacks   []string `yaml:"fallbacks,omitempty" json:"fallbacks,omitempty"`
}

type Vite struct {
	Plugins []string `yaml:"plugins,omitempty" json:"plugins,omitempty"`
}

type Icons struct {
	OutputDir string      `yaml:"outputDir" json:"outputDir" validate:"required"`
	Jobs      []icons.Job `yaml:"jobs" json:"jobs" validate:"required,min=1,dive"`
}

type Content struct {
	// Declarations points to a collections file; the built in registry is
	// used when it is empty or the file does not exist.
	Declarations string `yaml:"declarations,omitempty" json:"declarations,omitempty"`
	Store        string `yaml:"store" json:"store" validate:"required"`
}

// MDXOptions are the options of the mdx integration.
type MDXOptions struct {
	SyntaxHighlight SyntaxHighlight `yaml:"syntaxHighlight"`
	RemarkPlugins   []string        `yaml:"remarkPlugins"`
	RehypePlugins   []string        `yaml:"rehypePlugins"`
	Theme           string          `yaml:"theme"`
}

type SyntaxHighlight struct {
	Type         string   `yaml:"type"`
	ExcludeLangs []string `yaml:"excludeLangs"`
}

// Default mirrors the configuration the site ships with.
func Default() *Config {
	return &Config{
		Integrations: []Integration{
			{
				Name: IntegrationMDX,
				Options: map[string]any{
					"syntaxHighlight": map[string]any{
						"type":         "shiki",
						"excludeLangs": []any{"mermaid"},
					},
					"remarkPlugins": []any{"remark-toc"},
					"rehypePlugins": []any{"rehype-mermaid"},
				},
			},
			{Name: IntegrationReact},
		},
		Adapter: Adapter{Name: "vercel"},
		Experimental: Experimental{
			Fonts: []Font{
				{
					Provider:    "google",
					Name:        "Roboto",
					CSSVariable: "--font-roboto",
					Weights:     []int{400, 700},
				},
			},
		},
		Icons: Icons{
			OutputDir: icons.DefaultOutputDir,
			Jobs:      icons.DefaultJobs(),
		},
		Content: Content{
			Store: store.DefaultPath,
		},
	}
}

func (c *Config) Integration(name string) (Integration, bool) {
	return lo.Find(c.Integrations, func(i Integration) bool {
		return i.Name == name
	})
}

// MarkdownOptions derives the renderer settings from the mdx integration.
// Without the integration documents are rendered without any extras.
func (c *Config) MarkdownOptions() (markdown.Options, error) {
	mdx, ok := c.Integration(IntegrationMDX)
	if !ok {
		return markdown.Options{HighlightEngine: markdown.EngineNone}, nil
	}

	var opts MDXOptions
	if err := mdx.Decode(&opts); err != nil {
		return markdown.Options{}, err
	}

	engine := opts.SyntaxHighlight.Type
	if engine == "" {
		engine = markdown.EngineChroma
	}

	return markdown.Options{
		HighlightEngine: engine,
		Theme:           lo.CoalesceOrEmpty(opts.Theme, markdown.DefaultTheme),
		ExcludeLangs:    opts.SyntaxHighlight.ExcludeLangs,
		TOC:             lo.Contains(opts.RemarkPlugins, "remark-toc"),
		Mermaid:         lo.Contains(opts.RehypePlugins, "rehype-mermaid"),
	}, nil
}

// Registry returns the collections declared for the site.
func (c *Config) Registry(fs afero.Fs) (*content.Registry, error) {
	if c.Content.Declarations == "" {
		return content.DefaultRegistry(), nil
	}

	exists, err := afero.Exists(fs, c.Content.Declarations)
	if err != nil {
		return nil, err
	}
	if !exists {
		return content.DefaultRegistry(), nil
	}

	return content.LoadRegistry(fs, c.Content.Declarations)
}

// SelectJobs keeps the jobs whose prefix is listed, or all of them when
// prefixes is empty.
func (c *Config) SelectJobs(prefixes []string) ([]icons.Job, error) {
	if len(prefixes) == 0 {
		return c.Icons.Jobs, nil
	}

	known := lo.Map(c.Icons.Jobs, func(j icons.Job, _ int) string { return j.Prefix })
	if unknown, _ := lo.Difference(prefixes, known); len(unknown) > 0 {
		return nil, errors.Errorf("unknown icon prefixes: %v", unknown)
	}

	return lo.Filter(c.Icons.Jobs, func(j icons.Job, _ int) bool {
		return lo.Contains(prefixes, j.Prefix)
	}), nil
}
