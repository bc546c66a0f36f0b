package export

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"jxref/internal/errors"
	"jxref/internal/lsif"
)

// Summary is the yaml-rendered shape of one dump
type Summary struct {
	ProjectRoot string         `yaml:"projectRoot"`
	Tool        string         `yaml:"tool"`
	Documents   int            `yaml:"documents"`
	Vertices    map[string]int `yaml:"vertices"`
	Edges       map[string]int `yaml:"edges"`
	Monikers    map[string]int `yaml:"monikers"`
	Packages    map[string]int `yaml:"packages"`
}

// Summarize tallies the element stream
func Summarize(elements []Element) *Summary {
	s := &Summary{
		Vertices: map[string]int{},
		Edges:    map[string]int{},
		Monikers: map[string]int{},
		Packages: map[string]int{},
	}

	for i := range elements {
		el := &elements[i]
		if el.Type == string(lsif.EdgeElement) {
			s.Edges[el.Label]++
			continue
		}

		s.Vertices[el.Label]++
		switch lsif.Label(el.Label) {
		case lsif.LabelMetaData:
			s.ProjectRoot = el.ProjectRoot
			if el.ToolInfo != nil {
				s.Tool = el.ToolInfo.Name + " " + el.ToolInfo.Version
			}
		case lsif.LabelDocument:
			s.Documents++
		case lsif.LabelMoniker:
			s.Monikers[el.Kind]++
		case lsif.LabelPackageInformation:
			s.Packages[el.Manager]++
		}
	}
	return s
}

// WriteYAML renders the summary
func WriteYAML(s *Summary, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return errors.New(errors.EmitFailed, "encode summary", err)
	}
	return enc.Close()
}

// WriteStatsFile summarizes a dump into a yaml file
func WriteStatsFile(elements []Element, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New(errors.EmitFailed, fmt.Sprintf("create stats file %s", path), err)
	}
	defer f.Close()
	return WriteYAML(Summarize(elements), f)
}
