package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hwalton/wildtubs-configurator/internal/service"
	"github.com/hwalton/wildtubs-configurator/internal/utils"
)

type optionView struct {
	ID       string
	Name     string
	Selected bool
}

type sectionView struct {
	Name    string
	Options []optionView
}

type laborView struct {
	Code  string
	Hours float64
	Unit  string
}

// pageData is what configurator.html renders.
type pageData struct {
	Title     string
	Kind      string
	Kinds     []string
	Error     string
	Sections  []sectionView
	LaborRate float64
	Result    service.Result
	Chosen    string
	Materials []service.PricedLine
	Labor     []laborView
	Offer     string
}

func (h *Handler) configuratorHandler(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	var data pageData
	err := h.withSession(w, r, kind, func(s *service.Session) {
		data = h.buildPage(kind, s)
	})
	if err != nil {
		h.pageError(w, kind, err)
		return
	}
	h.render(w, data)
}

func (h *Handler) configuratorSubmitHandler(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	var data pageData
	var invalid []string
	err := h.withSession(w, r, kind, func(s *service.Session) {
		for _, g := range s.Catalog().Sections {
			key := "section:" + g.Section
			if _, ok := r.PostForm[key]; !ok {
				continue
			}
			if err := s.Select(g.Section, r.PostForm.Get(key)); err != nil {
				logSelectErr(kind, err)
				_ = s.Select(g.Section, "")
				invalid = append(invalid, g.Section)
			}
		}
		if _, ok := r.PostForm["labor_rate"]; ok {
			s.SetLaborRate(service.ParseLaborRate(r.PostForm.Get("labor_rate")))
		}
		data = h.buildPage(kind, s)
	})
	if err != nil {
		h.pageError(w, kind, err)
		return
	}
	if len(invalid) > 0 {
		data.Error = "Neteisingas pasirinkimas: " + strings.Join(invalid, ", ")
	}
	h.render(w, data)
}

// resetHandler forgets every kind's choices for this browser.
func (h *Handler) resetHandler(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if c, err := r.Cookie(sessionCookie); err == nil {
		h.sessions.drop("cookie:" + c.Value)
	}
	utils.ClearCookie(w, r, sessionCookie)
	http.Redirect(w, r, "/configurator/"+kind, http.StatusSeeOther)
}

func (h *Handler) buildPage(kind string, s *service.Session) pageData {
	cat := s.Catalog()
	res := s.Recompute()
	data := pageData{
		Title:     "Wildtubs konfigūratorius: " + kind,
		Kind:      kind,
		Kinds:     h.kinds,
		LaborRate: s.LaborRate(),
		Result:    res,
		Chosen:    service.ChosenSummary(res),
		Materials: service.SortPricedByCode(res.Materials),
		Offer:     service.OfferDraft(kind, res),
	}
	for _, g := range cat.Sections {
		sv := sectionView{Name: g.Section}
		selected := s.Selected(g.Section)
		for _, a := range g.Assemblies {
			sv.Options = append(sv.Options, optionView{ID: a.ID, Name: a.Name, Selected: a.ID == selected})
		}
		data.Sections = append(data.Sections, sv)
	}
	for _, l := range service.SortMergedByCode(res.Labor) {
		data.Labor = append(data.Labor, laborView{Code: l.Code, Hours: l.Qty, Unit: cat.Calculator().LaborUnit(l)})
	}
	return data
}

func (h *Handler) render(w http.ResponseWriter, data pageData) {
	if h.templates == nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "configurator.html", data); err != nil {
		log.Printf("render configurator: %v", err)
	}
}

func (h *Handler) pageError(w http.ResponseWriter, kind string, err error) {
	if errors.Is(err, service.ErrUnknownKind) {
		http.Error(w, "unknown product kind: "+kind, http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
