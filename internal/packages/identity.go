// Package packages derives package descriptors for resolved elements:
// which package manager owns a symbol, under what name and version, and
// where its sources live.
package packages

import (
	"path/filepath"
	"strings"
	"sync"

	"jxref/internal/config"
	"jxref/internal/lsif"
	"jxref/internal/semantic"
)

// Identity is a resolved package identity. A zero Manager means the
// identity is unresolved, which is legal: the occurrence proceeds without
// a package-qualified moniker.
type Identity struct {
	Manager lsif.PackageManager
	Name    string
	Version string
	URL     string
	// SchemeID is the identity key the repository dedupes descriptors by
	SchemeID string
}

// Resolved reports whether a package identity was derived
func (id Identity) Resolved() bool { return id.Manager != "" }

// Resolver derives package identities from element origins. Descriptor
// lookups go through the semantic engine; missing manifests degrade to
// empty fields, never errors.
type Resolver struct {
	analyzer  semantic.Analyzer
	buildTool config.BuildTool
	catalog   *Catalog

	projectOnce     sync.Once
	projectIdentity Identity // derived on first use, under projectOnce
	projectRoot     string
}

// NewResolver creates a resolver for one run
func NewResolver(analyzer semantic.Analyzer, buildTool config.BuildTool, projectRoot string, catalog *Catalog) *Resolver {
	return &Resolver{
		analyzer:    analyzer,
		buildTool:   buildTool,
		catalog:     catalog,
		projectRoot: projectRoot,
	}
}

// Resolve derives the package identity of an element given its origin.
func (r *Resolver) Resolve(el *semantic.Element, origin semantic.Origin) Identity {
	switch origin {
	case semantic.OriginPlatform:
		return r.resolvePlatform(el)
	case semantic.OriginLibrary:
		return r.resolveLibrary(el)
	default:
		return Identity{}
	}
}

func (r *Resolver) resolvePlatform(el *semantic.Element) Identity {
	manifest, err := r.analyzer.PlatformManifestOf(el)
	if err != nil || manifest == nil {
		return Identity{}
	}
	return Identity{
		Manager:  lsif.JDK,
		Name:     manifest.ModuleName,
		Version:  manifest.ImplementationVersion,
		SchemeID: platformSchemeID(manifest, el),
	}
}

// platformSchemeID keys platform descriptors by module plus top-level
// type, so distinct classes of one runtime module stay distinguishable.
func platformSchemeID(m *semantic.PlatformManifest, el *semantic.Element) string {
	top := el
	for top.Parent != nil {
		top = top.Parent
	}
	if top.QualifiedName != "" {
		return m.ModuleName + "." + top.QualifiedName
	}
	return m.ModuleName
}

func (r *Resolver) resolveLibrary(el *semantic.Element) Identity {
	if el.ArchivePath == "" {
		return r.libraryFromCoordinates(el)
	}

	// Maven repositories keep the descriptor next to the jar; the Gradle
	// cache extracts one directory level deeper.
	hint := filepath.Dir(el.ArchivePath)
	manager := lsif.Maven
	if r.buildTool == config.Gradle {
		hint = filepath.Dir(hint)
		manager = lsif.Gradle
	}

	desc, err := r.analyzer.ContainingBuildDescriptor(hint)
	if err != nil || desc == nil {
		return Identity{}
	}

	version := desc.Version
	if version == "" && r.catalog != nil {
		version = r.catalog.VersionOf(desc.GroupID, desc.ArtifactID)
	}

	name := desc.GroupID + "/" + desc.ArtifactID
	return Identity{
		Manager:  manager,
		Name:     name,
		Version:  version,
		URL:      desc.SCMURL,
		SchemeID: name,
	}
}

// libraryFromCoordinates serves engines that record package coordinates
// instead of archive locations. The version catalog still backfills a
// missing version.
func (r *Resolver) libraryFromCoordinates(el *semantic.Element) Identity {
	coords, err := r.analyzer.LibraryCoordinatesOf(el)
	if err != nil || coords == nil {
		return Identity{}
	}

	manager := lsif.Maven
	if r.buildTool == config.Gradle {
		manager = lsif.Gradle
	}

	version := coords.Version
	if version == "" && r.catalog != nil {
		if group, artifact, ok := strings.Cut(coords.Name, "/"); ok {
			version = r.catalog.VersionOf(group, artifact)
		}
	}

	return Identity{
		Manager:  manager,
		Name:     coords.Name,
		Version:  version,
		SchemeID: coords.Name,
	}
}

// ProjectIdentity derives the identity this project publishes its own
// exported symbols under. Derived once and cached for the run; callers
// arrive from concurrent traversal workers.
func (r *Resolver) ProjectIdentity() Identity {
	r.projectOnce.Do(func() {
		desc, err := r.analyzer.ContainingBuildDescriptor(r.projectRoot)
		if err != nil || desc == nil {
			return
		}
		manager := lsif.Maven
		if r.buildTool == config.Gradle {
			manager = lsif.Gradle
		}
		name := desc.GroupID + "/" + desc.ArtifactID
		r.projectIdentity = Identity{
			Manager:  manager,
			Name:     name,
			Version:  desc.Version,
			URL:      desc.SCMURL,
			SchemeID: name,
		}
	})
	return r.projectIdentity
}

// OverrideManager rebrands an identity under the project's own build
// tool. Used in publish mode: an exported symbol belongs to this
// project's package no matter where its bits were found on disk.
func (r *Resolver) OverrideManager(id Identity) Identity {
	if r.buildTool == config.Gradle {
		id.Manager = lsif.Gradle
	} else {
		id.Manager = lsif.Maven
	}
	return id
}
