package sources

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SeedSource is one raw source reference inside a seed file. The reference
// goes through the resolver at registration time, so it may be a feed URL, a
// channel URL, a handle, or a bare channel identifier.
type SeedSource struct {
	URL   string `yaml:"url"`
	Title string `yaml:"title"`
}

// SeedFile registers a set of sources for one owner at startup.
type SeedFile struct {
	Owner   string       `yaml:"owner"`
	Sources []SeedSource `yaml:"sources"`
}

// Loader handles loading and validation of source seed files
type Loader struct {
	seedsDir string
}

func NewLoader(seedsDir string) *Loader {
	return &Loader{seedsDir: seedsDir}
}

// LoadAll loads all YAML seed files from the seeds directory
func (l *Loader) LoadAll() (map[string]*SeedFile, error) {
	seeds := make(map[string]*SeedFile)

	if _, err := os.Stat(l.seedsDir); os.IsNotExist(err) {
		return seeds, nil // Seeds are optional
	}

	files, err := filepath.Glob(filepath.Join(l.seedsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.seedsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		seed, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(seed); err != nil {
			return nil, fmt.Errorf("invalid seed file %s: %w", file, err)
		}

		seeds[file] = seed
		log.Printf("Loaded seed file %s (%d sources)", file, len(seed.Sources))
	}

	return seeds, nil
}

func (l *Loader) loadFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &seed, nil
}

func (l *Loader) validate(seed *SeedFile) error {
	if seed.Owner == "" {
		return fmt.Errorf("owner is required")
	}

	for i, source := range seed.Sources {
		if source.URL == "" {
			return fmt.Errorf("source at index %d is missing a url", i)
		}
	}

	return nil
}
