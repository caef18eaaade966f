package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/daylist/internal/shared"
	"gopkg.in/yaml.v3"
)

// Load reads taste profiles from path. The format is chosen by extension:
// .json (array or {"playlists": [...]}), .yaml/.yml, or .toml ([[playlists]]).
//
// Every entry is decoded over [Default] so omitted fields keep their defaults,
// then validated.
func Load(path string) ([]TasteProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var profiles []TasteProfile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", "":
		profiles, err = decodeJSON(data)
	case ".yaml", ".yml":
		profiles, err = decodeYAML(data)
	case ".toml":
		profiles, err = decodeTOML(data)
	default:
		return nil, fmt.Errorf("%w: unsupported profiles format %q", shared.ErrInvalidConfig, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidConfig, path, err)
	}

	if err := validateAll(profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Find returns the profile with the given name, compared case-insensitively.
func Find(profiles []TasteProfile, name string) (TasteProfile, bool) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return TasteProfile{}, false
}

func validateAll(profiles []TasteProfile) error {
	if len(profiles) == 0 {
		return shared.ErrNoProfiles
	}

	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return fmt.Errorf("%w: duplicate profile name %q", shared.ErrInvalidProfile, p.Name)
		}
		seen[key] = true
	}
	return nil
}

func decodeJSON(data []byte) ([]TasteProfile, error) {
	var raw []json.RawMessage

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Playlists []json.RawMessage `json:"playlists"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, err
		}
		raw = wrapper.Playlists
	} else if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}

	profiles := make([]TasteProfile, 0, len(raw))
	for i, r := range raw {
		p := Default()
		if err := json.Unmarshal(r, &p); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func decodeYAML(data []byte) ([]TasteProfile, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.MappingNode {
		var list *yaml.Node
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == "playlists" {
				list = root.Content[i+1]
				break
			}
		}
		if list == nil {
			return nil, fmt.Errorf("missing playlists key")
		}
		root = list
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a list of profiles")
	}

	profiles := make([]TasteProfile, 0, len(root.Content))
	for i, item := range root.Content {
		p := Default()
		if err := item.Decode(&p); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func decodeTOML(data []byte) ([]TasteProfile, error) {
	var doc struct {
		Playlists []toml.Primitive `toml:"playlists"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, err
	}

	profiles := make([]TasteProfile, 0, len(doc.Playlists))
	for i, prim := range doc.Playlists {
		p := Default()
		if err := md.PrimitiveDecode(prim, &p); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
