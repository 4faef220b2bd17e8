package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hwalton/wildtubs-configurator/internal/service"
)

// laborRateField accepts a JSON number or a string such as "12,5".
type laborRateField struct {
	set   bool
	value float64
}

func (f *laborRateField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	f.set = true
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f.value = service.ParseLaborRate(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		f.value = 0
		return nil
	}
	f.value = service.SanitizeRate(n)
	return nil
}

type recomputeRequest struct {
	ChosenIDs []string       `json:"chosen_ids"`
	LaborRate laborRateField `json:"labor_rate"`
}

type recomputeResponse struct {
	Kind string `json:"kind"`
	service.Result
	Offer string `json:"offer"`
}

type optionJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sectionJSON struct {
	Section string       `json:"section"`
	Options []optionJSON `json:"options"`
}

type stateResponse struct {
	State service.State `json:"state"`
	recomputeResponse
}

func (h *Handler) apiKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"kinds": h.kinds, "default": h.defaultKind})
}

func (h *Handler) apiSections(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.apiCatalog(w, r)
	if !ok {
		return
	}
	out := make([]sectionJSON, 0, len(cat.Sections))
	for _, g := range cat.Sections {
		sj := sectionJSON{Section: g.Section, Options: make([]optionJSON, 0, len(g.Assemblies))}
		for _, a := range g.Assemblies {
			sj.Options = append(sj.Options, optionJSON{ID: a.ID, Name: a.Name})
		}
		out = append(out, sj)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"kind":               cat.Kind,
		"default_labor_rate": cat.DefaultLaborRate,
		"sections":           out,
	})
}

func (h *Handler) apiRecompute(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.apiCatalog(w, r)
	if !ok {
		return
	}
	var req recomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	rate := cat.DefaultLaborRate
	if req.LaborRate.set {
		rate = req.LaborRate.value
	}
	writeJSON(w, http.StatusOK, newRecomputeResponse(cat.Kind, cat.Recompute(req.ChosenIDs, rate)))
}

func (h *Handler) apiGetState(w http.ResponseWriter, r *http.Request) {
	h.apiState(w, r, nil)
}

func (h *Handler) apiPutState(w http.ResponseWriter, r *http.Request) {
	var st service.State
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	h.apiState(w, r, &st)
}

// apiState optionally restores st into the caller's session, then reports it.
func (h *Handler) apiState(w http.ResponseWriter, r *http.Request, st *service.State) {
	kind := chi.URLParam(r, "kind")
	var resp stateResponse
	err := h.withSession(w, r, kind, func(s *service.Session) {
		if st != nil {
			s.SetState(*st)
		}
		resp = stateResponse{State: s.GetState(), recomputeResponse: newRecomputeResponse(kind, s.Recompute())}
	})
	if errors.Is(err, service.ErrUnknownKind) {
		writeJSONError(w, http.StatusNotFound, "unknown product kind: "+kind)
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) apiCatalog(w http.ResponseWriter, r *http.Request) (*service.Catalog, bool) {
	kind := chi.URLParam(r, "kind")
	cat, ok := h.catalog(kind)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown product kind: "+kind)
	}
	return cat, ok
}

func newRecomputeResponse(kind string, res service.Result) recomputeResponse {
	return recomputeResponse{Kind: kind, Result: res, Offer: service.OfferDraft(kind, res)}
}
