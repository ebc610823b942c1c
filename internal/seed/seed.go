// Package seed loads the static content collections served by the site.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"genai_portfolio/internal/domain"
	"genai_portfolio/internal/listing"
)

//go:embed content.yaml
var embedded []byte

type Categories struct {
	Blog     []string `yaml:"blog"`
	Prompts  []string `yaml:"prompts"`
	UseCases []string `yaml:"use_cases"`
}

type Dataset struct {
	Categories Categories        `yaml:"categories"`
	Blog       []domain.BlogPost `yaml:"blog"`
	Prompts    []domain.Prompt   `yaml:"prompts"`
	UseCases   []domain.UseCase  `yaml:"use_cases"`
}

// Default returns the dataset compiled into the binary.
func Default() (*Dataset, error) {
	return Parse(embedded)
}

// Load reads a dataset from path, or the embedded one when path is empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// CategorySet returns the filter values offered for kind.
func (d *Dataset) CategorySet(kind domain.Kind) listing.CategorySet {
	switch kind {
	case domain.KindBlog:
		return listing.NewCategorySet(d.Categories.Blog...)
	case domain.KindPrompt:
		return listing.NewCategorySet(d.Categories.Prompts...)
	default:
		return listing.NewCategorySet(d.Categories.UseCases...)
	}
}

// Validate checks id uniqueness and that every item is reachable through
// its collection's category filter.
func (d *Dataset) Validate() error {
	if err := validate(d.Blog, d.CategorySet(domain.KindBlog)); err != nil {
		return fmt.Errorf("validate blog: %w", err)
	}
	if err := validate(d.Prompts, d.CategorySet(domain.KindPrompt)); err != nil {
		return fmt.Errorf("validate prompts: %w", err)
	}
	if err := validate(d.UseCases, d.CategorySet(domain.KindUseCase)); err != nil {
		return fmt.Errorf("validate use cases: %w", err)
	}
	return nil
}

func validate[T domain.Searchable](items []T, set listing.CategorySet) error {
	if err := listing.ValidateIDs(items); err != nil {
		return err
	}
	return listing.Validate(set, items)
}
