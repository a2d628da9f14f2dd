package config

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	libraryObject = "presets"
	indexProperty = "index"
)

var (
	// ErrPresetNotFound indicates a library lookup for an unknown name.
	ErrPresetNotFound = errors.New("config: preset not found")

	// ErrInvalidPresetName indicates a name that cannot be used as a storage key.
	ErrInvalidPresetName = errors.New("config: preset names may contain only letters, digits, '-' and '_'")
)

var presetName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Library stores user presets as yaml blobs. With a nil gdata manager it
// keeps them in memory only.
type Library struct {
	mgr *gdata.Manager
	mem map[string][]byte
}

// OpenLibrary opens the per-user data directory for appName. If that fails
// the library falls back to memory and the failure is logged.
func OpenLibrary(appName string) *Library {
	mgr, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Library] Warning: cannot open preset storage: %v (presets will not persist)", err)
		mgr = nil
	}
	return NewLibrary(mgr)
}

func NewLibrary(mgr *gdata.Manager) *Library {
	return &Library{mgr: mgr, mem: make(map[string][]byte)}
}

// Persistent reports whether saved presets survive the process.
func (l *Library) Persistent() bool { return l.mgr != nil }

func (l *Library) Save(name string, cfg *Config) error {
	if !presetName.MatchString(name) || name == indexProperty {
		return fmt.Errorf("%w: %q", ErrInvalidPresetName, name)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	saved := *cfg
	saved.Name = name
	data, err := yaml.Marshal(&saved)
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}
	if err := l.put(name, data); err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}

	names, err := l.List()
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return l.writeIndex(append(names, name))
}

// Load returns a saved preset, falling back to the built-in presets.
func (l *Library) Load(name string) (*Config, error) {
	data, ok, err := l.get(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load preset: %w", err)
	}
	if !ok {
		if p := GetPreset(name); p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return Parse(data)
}

// List returns the saved preset names in sorted order.
func (l *Library) List() ([]string, error) {
	data, ok, err := l.get(indexProperty)
	if err != nil || !ok {
		return []string{}, err
	}
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to read preset index: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (l *Library) writeIndex(names []string) error {
	sort.Strings(names)
	data, err := yaml.Marshal(names)
	if err != nil {
		return err
	}
	return l.put(indexProperty, data)
}

func (l *Library) put(prop string, data []byte) error {
	if l.mgr == nil {
		l.mem[prop] = data
		return nil
	}
	return l.mgr.SaveObjectProp(libraryObject, prop, data)
}

func (l *Library) get(prop string) ([]byte, bool, error) {
	if l.mgr == nil {
		data, ok := l.mem[prop]
		return data, ok, nil
	}
	if !l.mgr.ObjectPropExists(libraryObject, prop) {
		return nil, false, nil
	}
	data, err := l.mgr.LoadObjectProp(libraryObject, prop)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
