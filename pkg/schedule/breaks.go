package schedule

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type breakEntry struct {
	Name string `koanf:"name"`
	From string `koanf:"from"`
	To   string `koanf:"to"`
}

// LoadExclusionWindows reads the institutional break calendar from a YAML
// file. The dates are versioned configuration data maintained alongside the
// deployment, never inferred. A missing file yields an empty set, so
// conversions with skip_breaks enabled simply exclude nothing.
func LoadExclusionWindows(path string) ([]ExclusionWindow, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Warnf("break calendar not found at %s, skip_breaks will exclude nothing", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load break calendar: %w", err)
	}

	var entries []breakEntry
	if err := k.Unmarshal("breaks", &entries); err != nil {
		return nil, fmt.Errorf("failed to parse break calendar: %w", err)
	}

	windows := make([]ExclusionWindow, 0, len(entries))
	for _, entry := range entries {
		from, err := time.Parse(time.DateOnly, entry.From)
		if err != nil {
			return nil, fmt.Errorf("break %q has invalid from date: %w", entry.Name, err)
		}
		to, err := time.Parse(time.DateOnly, entry.To)
		if err != nil {
			return nil, fmt.Errorf("break %q has invalid to date: %w", entry.Name, err)
		}
		if to.Before(from) {
			return nil, fmt.Errorf("break %q ends before it starts", entry.Name)
		}
		windows = append(windows, ExclusionWindow{Name: entry.Name, From: toDate(from), To: toDate(to)})
	}

	log.Infof("loaded %d exclusion windows from %s", len(windows), path)
	return windows, nil
}
