package service

import (
	"strings"

	"github.com/hwalton/wildtubs-configurator/pkg/catalog"
)

// NormalizeCode trims surrounding whitespace. Every code comparison goes through it.
func NormalizeCode(code string) string {
	return strings.TrimSpace(code)
}

// MaterialIndex maps a normalized material code to its catalog record.
type MaterialIndex map[string]catalog.Material

// BuildMaterialIndex indexes materials by normalized code.
// When two records normalize to the same code the later one wins.
func BuildMaterialIndex(materials []catalog.Material) MaterialIndex {
	idx := make(MaterialIndex, len(materials))
	for _, m := range materials {
		idx[NormalizeCode(m.Code)] = m
	}
	return idx
}

// Lookup returns the material for code after normalizing it.
func (idx MaterialIndex) Lookup(code string) (catalog.Material, bool) {
	m, ok := idx[NormalizeCode(code)]
	return m, ok
}

// SectionGroup is the set of assemblies rendered as one selection control.
type SectionGroup struct {
	Section    string             `json:"section"`
	Assemblies []catalog.Assembly `json:"assemblies"`
}

// GroupBySections groups assemblies by section. Groups keep the order in which
// each section first appears; members keep their input order.
func GroupBySections(assemblies []catalog.Assembly) []SectionGroup {
	pos := map[string]int{}
	var out []SectionGroup
	for _, a := range assemblies {
		i, ok := pos[a.Section]
		if !ok {
			i = len(out)
			pos[a.Section] = i
			out = append(out, SectionGroup{Section: a.Section})
		}
		out[i].Assemblies = append(out[i].Assemblies, a)
	}
	return out
}
