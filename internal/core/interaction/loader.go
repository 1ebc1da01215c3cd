package interaction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/interactions/pkg/concurrent"
)

// LoadJSON decodes a single profile. Fields missing from the document keep
// their DefaultConfig values.
func LoadJSON(r io.Reader) (Config, error) {
	c := DefaultConfig()
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode json profile: %w", err)
	}
	return finish(c)
}

// LoadYAML decodes a single profile. Fields missing from the document keep
// their DefaultConfig values.
func LoadYAML(r io.Reader) (Config, error) {
	c := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode yaml profile: %w", err)
	}
	return finish(c)
}

// LoadFile picks the decoder from the file extension. A profile without a
// name is named after its file.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	var c Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		c, err = LoadJSON(f)
	case ".yaml", ".yml":
		c, err = LoadYAML(f)
	default:
		return Config{}, fmt.Errorf("%w: unsupported profile extension %q", ErrInvalidConfig, filepath.Ext(path))
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

// LoadDir loads every profile in dir concurrently and returns them sorted by
// name. Any failing file fails the whole load.
func LoadDir(ctx context.Context, dir string) ([]Config, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}

	configs, err := concurrent.Map(ctx, paths, 4, func(_ context.Context, path string) (Config, error) {
		return LoadFile(path)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}

func finish(c Config) (Config, error) {
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c.Normalize(), nil
}
