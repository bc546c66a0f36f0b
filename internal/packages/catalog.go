package packages

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Catalog is a parsed Gradle version catalog (gradle/libs.versions.toml).
// It backfills dependency versions when a build descriptor carries none.
type Catalog struct {
	versions  map[string]string
	libraries map[string]catalogLibrary
}

type catalogLibrary struct {
	Module  string      `toml:"module"`
	Group   string      `toml:"group"`
	Name    string      `toml:"name"`
	Version interface{} `toml:"version"`
}

type catalogFile struct {
	Versions  map[string]string         `toml:"versions"`
	Libraries map[string]catalogLibrary `toml:"libraries"`
}

// LoadCatalog reads the version catalog under the project root. A missing
// catalog is not an error; lookups on a nil catalog yield nothing.
func LoadCatalog(projectRoot string) (*Catalog, error) {
	path := filepath.Join(projectRoot, "gradle", "libs.versions.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return &Catalog{versions: file.Versions, libraries: file.Libraries}, nil
}

// VersionOf looks up the pinned version for group:artifact, empty when
// the catalog does not pin it.
func (c *Catalog) VersionOf(group, artifact string) string {
	if c == nil {
		return ""
	}

	coord := group + ":" + artifact
	for _, lib := range c.libraries {
		if lib.Module != coord && !(lib.Group == group && lib.Name == artifact) {
			continue
		}
		switch v := lib.Version.(type) {
		case string:
			return v
		case map[string]interface{}:
			if ref, ok := v["ref"].(string); ok {
				return c.versions[ref]
			}
		}
	}
	return ""
}

// Modules lists every module coordinate the catalog pins, for diagnostics
func (c *Catalog) Modules() []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, lib := range c.libraries {
		if lib.Module != "" {
			out = append(out, lib.Module)
		} else if lib.Group != "" && lib.Name != "" {
			out = append(out, lib.Group+":"+lib.Name)
		}
	}
	// catalog order is map order; deterministic output helps tests
	sort.Strings(out)
	return out
}
