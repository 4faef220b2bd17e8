package service

import (
	"errors"
	"fmt"

	"github.com/hwalton/wildtubs-configurator/pkg/catalog"
)

// ErrUnknownKind is returned for a product kind with no loaded catalog.
var ErrUnknownKind = errors.New("unknown product kind")

// Catalog is the immutable data of one product kind.
type Catalog struct {
	Kind             string
	Materials        []catalog.Material
	Assemblies       []catalog.Assembly
	Index            MaterialIndex
	Sections         []SectionGroup // display order
	DefaultLaborRate float64

	calc      *Calculator
	sectionOf map[string]map[string]bool // section -> assembly ids
}

// NewCatalog indexes the loaded documents for kind.
func NewCatalog(kind string, materials *catalog.MaterialsDoc, assemblies *catalog.AssembliesDoc, calc *Calculator) *Catalog {
	if materials == nil {
		materials = &catalog.MaterialsDoc{}
	}
	if assemblies == nil {
		assemblies = &catalog.AssembliesDoc{}
	}
	if calc == nil {
		calc = NewCalculator(DefaultConventions())
	}
	c := &Catalog{
		Kind:             kind,
		Materials:        materials.Materials,
		Assemblies:       assemblies.Assemblies,
		Index:            BuildMaterialIndex(materials.Materials),
		Sections:         SortSectionsForDisplay(GroupBySections(assemblies.Assemblies)),
		DefaultLaborRate: materials.LaborRate(),
		calc:             calc,
		sectionOf:        map[string]map[string]bool{},
	}
	for _, g := range c.Sections {
		ids := map[string]bool{}
		for _, a := range g.Assemblies {
			ids[a.ID] = true
		}
		c.sectionOf[g.Section] = ids
	}
	return c
}

// Calculator returns the calculator bound to this catalog.
func (c *Catalog) Calculator() *Calculator { return c.calc }

// Recompute prices the chosen ids against this catalog.
func (c *Catalog) Recompute(chosenIDs []string, laborRate float64) Result {
	return c.calc.Recompute(chosenIDs, c.Assemblies, c.Index, laborRate)
}

// NewSession starts a session with nothing selected and the default labor rate.
func (c *Catalog) NewSession() *Session {
	return &Session{
		cat:       c,
		laborRate: c.DefaultLaborRate,
		selected:  map[string]string{},
	}
}

// Selection is the chosen assembly id of one section; empty means none.
type Selection struct {
	Section string `json:"section"`
	Value   string `json:"value"`
}

// State is a snapshot of a session that can be restored with SetState.
type State struct {
	LaborRate  float64     `json:"labor_rate"`
	Selections []Selection `json:"selections"`
}

// Session holds the user's current choices for one product kind.
// It is not safe for concurrent use.
type Session struct {
	cat       *Catalog
	laborRate float64
	selected  map[string]string
}

// Catalog returns the catalog the session configures.
func (s *Session) Catalog() *Catalog { return s.cat }

// LaborRate returns the current labor rate.
func (s *Session) LaborRate() float64 { return s.laborRate }

// SetLaborRate replaces the labor rate; non-finite values become 0.
func (s *Session) SetLaborRate(rate float64) { s.laborRate = SanitizeRate(rate) }

// Select sets the choice for section. An empty id clears it.
func (s *Session) Select(section, id string) error {
	ids, ok := s.cat.sectionOf[section]
	if !ok {
		return fmt.Errorf("section %q not found", section)
	}
	if id == "" {
		delete(s.selected, section)
		return nil
	}
	if !ids[id] {
		return fmt.Errorf("assembly %q not in section %q", id, section)
	}
	s.selected[section] = id
	return nil
}

// Selected returns the chosen id for section, or "".
func (s *Session) Selected(section string) string { return s.selected[section] }

// ChosenIDs lists the non-empty selections in display section order.
func (s *Session) ChosenIDs() []string {
	var out []string
	for _, g := range s.cat.Sections {
		if id := s.selected[g.Section]; id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Recompute prices the current selections at the current rate.
func (s *Session) Recompute() Result {
	return s.cat.Recompute(s.ChosenIDs(), s.laborRate)
}

// GetState snapshots the rate and one selection per section.
func (s *Session) GetState() State {
	st := State{LaborRate: s.laborRate, Selections: make([]Selection, 0, len(s.cat.Sections))}
	for _, g := range s.cat.Sections {
		st.Selections = append(st.Selections, Selection{Section: g.Section, Value: s.selected[g.Section]})
	}
	return st
}

// SetState restores a snapshot. Sections missing from st are cleared,
// unknown sections are ignored and values that are not an option of their
// section clear that section.
func (s *Session) SetState(st State) {
	s.laborRate = SanitizeRate(st.LaborRate)
	s.selected = map[string]string{}
	for _, sel := range st.Selections {
		ids, ok := s.cat.sectionOf[sel.Section]
		if !ok || sel.Value == "" || !ids[sel.Value] {
			continue
		}
		s.selected[sel.Section] = sel.Value
	}
}

// Workspace keeps one remembered state per product kind and an active session.
// Switching kinds saves the active state and restores the target's.
// It is not safe for concurrent use.
type Workspace struct {
	catalogs map[string]*Catalog
	saved    map[string]State
	active   *Session
}

// NewWorkspace returns a workspace over the loaded catalogs with no active kind.
func NewWorkspace(catalogs map[string]*Catalog) *Workspace {
	return &Workspace{catalogs: catalogs, saved: map[string]State{}}
}

// Active returns the active session, nil before the first Switch.
func (w *Workspace) Active() *Session { return w.active }

// Kind returns the active product kind, "" before the first Switch.
func (w *Workspace) Kind() string {
	if w.active == nil {
		return ""
	}
	return w.active.cat.Kind
}

// Switch makes kind active, restoring its remembered state if any.
func (w *Workspace) Switch(kind string) (*Session, error) {
	cat, ok := w.catalogs[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if w.active != nil {
		if w.active.cat.Kind == kind {
			return w.active, nil
		}
		w.saved[w.active.cat.Kind] = w.active.GetState()
	}
	sess := cat.NewSession()
	if st, ok := w.saved[kind]; ok {
		sess.SetState(st)
	}
	w.active = sess
	return sess, nil
}
