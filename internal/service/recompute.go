package service

import "github.com/hwalton/wildtubs-configurator/pkg/catalog"

// Result is everything a presentation layer needs to render one configuration.
type Result struct {
	ChosenNames   []string     `json:"chosen_names"`
	MaterialsCost float64      `json:"materials_cost"`
	LaborHours    float64      `json:"labor_hours"`
	LaborRate     float64      `json:"labor_rate"`
	LaborCost     float64      `json:"labor_cost"`
	TotalCost     float64      `json:"total_cost"`
	Materials     []PricedLine `json:"materials"`
	Labor         []MergedLine `json:"labor"`
}

// Recompute runs the whole pipeline for the chosen assembly ids.
// Ids that match no assembly are dropped without error.
func (c *Calculator) Recompute(chosenIDs []string, assemblies []catalog.Assembly, idx MaterialIndex, laborRate float64) Result {
	byID := make(map[string]int, len(assemblies))
	for i, a := range assemblies {
		if _, dup := byID[a.ID]; !dup {
			byID[a.ID] = i
		}
	}

	res := Result{
		ChosenNames: []string{},
		Materials:   []PricedLine{},
		Labor:       []MergedLine{},
		LaborRate:   SanitizeRate(laborRate),
	}

	var items []catalog.LineItem
	for _, id := range chosenIDs {
		if id == "" {
			continue
		}
		i, ok := byID[id]
		if !ok {
			continue
		}
		res.ChosenNames = append(res.ChosenNames, assemblies[i].Name)
		items = append(items, assemblies[i].Items...)
	}

	var materialLines []MergedLine
	for _, line := range MergeLineItems(items) {
		if c.Classify(line) == Labor {
			res.Labor = append(res.Labor, line)
			continue
		}
		materialLines = append(materialLines, line)
	}

	priced, materialsCost := c.PriceMaterials(materialLines, idx)
	res.Materials = priced
	res.MaterialsCost = materialsCost
	res.LaborHours = SumLaborHours(res.Labor)

	totals := ComputeTotals(res.LaborHours, res.LaborRate, res.MaterialsCost)
	res.LaborCost = totals.LaborCost
	res.TotalCost = totals.TotalCost
	return res
}
