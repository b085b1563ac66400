// Package channels loads the ordered list of source channels the harvester
// polls. Channel order in the file is the processing order.
package channels

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Channel describes a single source channel (a subreddit-style community).
type Channel struct {
	Name     string `yaml:"name"`
	PageSize int    `yaml:"page_size"`
}

type channelsFile struct {
	Channels []Channel `yaml:"channels"`
}

// Load reads the channel list from a YAML file, applying the default page
// size to entries that do not override it.
func Load(path string, defaultPageSize int) ([]Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read channels file: %w", err)
	}

	var file channelsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse channels file: %w", err)
	}

	if len(file.Channels) == 0 {
		return nil, fmt.Errorf("channels file %s lists no channels", path)
	}

	seen := make(map[string]bool, len(file.Channels))
	for i := range file.Channels {
		ch := &file.Channels[i]
		if ch.Name == "" {
			return nil, fmt.Errorf("channel at index %d has no name", i)
		}
		if seen[ch.Name] {
			return nil, fmt.Errorf("duplicate channel %q", ch.Name)
		}
		seen[ch.Name] = true

		if ch.PageSize <= 0 {
			ch.PageSize = defaultPageSize
		}
	}

	return file.Channels, nil
}
