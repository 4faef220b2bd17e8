package export

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hwalton/wildtubs-configurator/internal/service"
)

// MaterialRow is one priced line of the offer's bill of materials.
type MaterialRow struct {
	Code     string
	Name     string
	Qty      float64
	Unit     string
	UnitCost float64
	LineCost float64
	Found    bool
}

// LaborRow is one labor line of the offer.
type LaborRow struct {
	Code  string
	Hours float64
	Unit  string
}

// OfferData holds everything an offer export renders.
type OfferData struct {
	Title         string
	Kind          string
	Reference     string
	CreatedDate   string
	Chosen        []string
	Materials     []MaterialRow
	Labor         []LaborRow
	MaterialsCost float64
	LaborHours    float64
	LaborRate     float64
	LaborCost     float64
	TotalCost     float64
	Draft         string
}

// NewOfferData converts a computed result into export rows sorted by code.
func NewOfferData(kind string, res service.Result, calc *service.Calculator, now time.Time) OfferData {
	d := OfferData{
		Title:         "Pasiūlymas " + strings.ToUpper(kind),
		Kind:          kind,
		Reference:     "WT-" + strings.ToUpper(uuid.NewString()[:8]),
		CreatedDate:   now.Format("2006-01-02"),
		Chosen:        append([]string(nil), res.ChosenNames...),
		MaterialsCost: res.MaterialsCost,
		LaborHours:    res.LaborHours,
		LaborRate:     res.LaborRate,
		LaborCost:     res.LaborCost,
		TotalCost:     res.TotalCost,
		Draft:         service.OfferDraft(kind, res),
	}
	for _, p := range service.SortPricedByCode(res.Materials) {
		d.Materials = append(d.Materials, MaterialRow{
			Code: p.Code, Name: p.Name, Qty: p.Qty, Unit: p.Unit,
			UnitCost: p.UnitCost, LineCost: p.LineCost, Found: p.Found,
		})
	}
	for _, l := range service.SortMergedByCode(res.Labor) {
		d.Labor = append(d.Labor, LaborRow{Code: l.Code, Hours: l.Qty, Unit: calc.LaborUnit(l)})
	}
	return d
}
