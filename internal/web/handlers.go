package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/benchlab/dilute/internal/store"
	"github.com/benchlab/dilute/internal/units"
	webassets "github.com/benchlab/dilute/web"
)

// Handler serves the calculator page and its JSON API. It only ever reads
// from the registry; all writes go through the CLI manager.
type Handler struct {
	store *store.Store
	page  *template.Template
}

// NewHandler creates a Handler with the embedded calculator page parsed.
func NewHandler(st *store.Store) *Handler {
	return &Handler{
		store: st,
		page:  template.Must(template.ParseFS(webassets.Templates, "templates/index.html")),
	}
}

// NewRouter builds the HTTP handler for the calculator.
func NewRouter(st *store.Store) http.Handler {
	h := NewHandler(st)

	r := chi.NewRouter()
	r.Use(Recovery)
	r.Use(Logging)

	r.Get("/", h.Index)
	r.Route("/api", func(r chi.Router) {
		r.Get("/compounds", h.ListCompounds)
		r.Get("/compounds/{shortname}", h.GetCompound)
		r.Post("/calculate", h.Calculate)
		r.Get("/imports", h.ListImports)
	})

	return r
}

// Index renders the calculator page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, nil); err != nil {
		WriteError(w, http.StatusInternalServerError, CategoryInternalError, "render page")
	}
}

// ListCompounds returns every compound, ordered by shortname.
func (h *Handler) ListCompounds(w http.ResponseWriter, r *http.Request) {
	compounds, err := h.store.Compounds.ListAll(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, CategoryInternalError, err.Error())
		return
	}

	results := make([]any, 0, len(compounds))
	for _, c := range compounds {
		results = append(results, c)
	}
	WriteJSON(w, http.StatusOK, &CollectionResponse{Results: results})
}

// GetCompound returns a single compound by shortname.
func (h *Handler) GetCompound(w http.ResponseWriter, r *http.Request) {
	shortname := chi.URLParam(r, "shortname")

	c, err := h.store.Compounds.GetByShortname(r.Context(), shortname)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, CategoryNotFound,
				fmt.Sprintf("no compound with shortname %q", shortname))
			return
		}
		WriteError(w, http.StatusInternalServerError, CategoryInternalError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

// ListImports returns the bulk import audit log, newest first.
func (h *Handler) ListImports(w http.ResponseWriter, r *http.Request) {
	batches, err := h.store.ImportLog.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, CategoryInternalError, err.Error())
		return
	}

	results := make([]any, 0, len(batches))
	for _, b := range batches {
		results = append(results, b)
	}
	WriteJSON(w, http.StatusOK, &CollectionResponse{Results: results})
}

// CalculateRequest carries the calculator form state. Either shortname or an
// explicit molecular weight selects the compound. ActualMassMG, when set, is
// the operator's real weigh-in used to back-compute the volume to add.
type CalculateRequest struct {
	Shortname       string  `json:"shortname,omitempty"`
	MolecularWeight float64 `json:"molecularWeight,omitempty"`
	ConcentrationMM float64 `json:"concentrationMM"`
	VolumeML        float64 `json:"volumeML"`
	ActualMassMG    float64 `json:"actualMassMG,omitempty"`
}

// CalculateResponse is the calculator output. VolumeToAddML is only present
// when an actual weigh-in was supplied.
type CalculateResponse struct {
	MolecularWeight float64  `json:"molecularWeight"`
	RequiredMassG   float64  `json:"requiredMassG"`
	RequiredMassMG  float64  `json:"requiredMassMG"`
	VolumeToAddML   *float64 `json:"volumeToAddML,omitempty"`
	VolumeToAddUL   *float64 `json:"volumeToAddUL,omitempty"`
}

// Calculate computes the mass to weigh in, and the volume to add when an
// actual weigh-in is supplied.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CategoryValidationError, "invalid JSON body")
		return
	}

	if req.ConcentrationMM < 0 || req.VolumeML < 0 || req.ActualMassMG < 0 || req.MolecularWeight < 0 {
		WriteError(w, http.StatusBadRequest, CategoryValidationError, "inputs must be non-negative")
		return
	}

	mw := req.MolecularWeight
	if req.Shortname != "" {
		c, err := h.store.Compounds.GetByShortname(r.Context(), req.Shortname)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteError(w, http.StatusNotFound, CategoryNotFound,
					fmt.Sprintf("no compound with shortname %q", req.Shortname))
				return
			}
			WriteError(w, http.StatusInternalServerError, CategoryInternalError, err.Error())
			return
		}
		mw = c.MolecularWeight
	}

	massG := units.MassRequired(req.ConcentrationMM, req.VolumeML, mw)
	resp := CalculateResponse{
		MolecularWeight: mw,
		RequiredMassG:   massG,
		RequiredMassMG:  massG * 1000,
	}

	if req.ActualMassMG > 0 {
		volML := units.VolumeRequired(req.ActualMassMG/1000.0, req.ConcentrationMM, mw)
		volUL := volML * 1000
		resp.VolumeToAddML = &volML
		resp.VolumeToAddUL = &volUL
	}

	WriteJSON(w, http.StatusOK, &resp)
}
