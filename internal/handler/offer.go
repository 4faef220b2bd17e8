package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hwalton/wildtubs-configurator/internal/export"
	"github.com/hwalton/wildtubs-configurator/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) offerExcelHandler(w http.ResponseWriter, r *http.Request) {
	h.serveOffer(w, r, "xlsx", xlsxContentType, export.GenerateExcel)
}

func (h *Handler) offerPDFHandler(w http.ResponseWriter, r *http.Request) {
	h.serveOffer(w, r, "pdf", "application/pdf", export.GeneratePDF)
}

func (h *Handler) serveOffer(w http.ResponseWriter, r *http.Request, ext, contentType string, gen func(export.OfferData) ([]byte, error)) {
	kind := chi.URLParam(r, "kind")
	var data export.OfferData
	err := h.withSession(w, r, kind, func(s *service.Session) {
		data = export.NewOfferData(kind, s.Recompute(), s.Catalog().Calculator(), time.Now())
	})
	if err != nil {
		h.pageError(w, kind, err)
		return
	}
	b, err := gen(data)
	if err != nil {
		log.Printf("offer %s %s: %v", kind, ext, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="pasiulymas_%s.%s"`, kind, ext))
	_, _ = w.Write(b)
}
