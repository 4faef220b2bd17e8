package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hwalton/wildtubs-configurator/internal/app"
	"github.com/hwalton/wildtubs-configurator/internal/export"
	"github.com/hwalton/wildtubs-configurator/internal/service"
)

func newSectionsCmd(o *rootOptions) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List the sections and options of a product kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := o.context(cmd)
			defer cancel()
			cat, err := app.LoadCatalog(ctx, o.cfg, o.client, o.kindOrDefault(kind))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, g := range cat.Sections {
				fmt.Fprintf(w, "%s\n", g.Section)
				for _, a := range g.Assemblies {
					fmt.Fprintf(w, "  %s\t%s\n", a.ID, a.Name)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "product kind (default from DEFAULT_KIND)")
	return cmd
}

func newPriceCmd(o *rootOptions) *cobra.Command {
	var (
		kind   string
		picks  []string
		rate   string
		format string
		outFn  string
	)
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a set of chosen assemblies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := o.context(cmd)
			defer cancel()
			k := o.kindOrDefault(kind)
			cat, err := app.LoadCatalog(ctx, o.cfg, o.client, k)
			if err != nil {
				return err
			}
			laborRate := cat.DefaultLaborRate
			if cmd.Flags().Changed("rate") {
				laborRate = service.ParseLaborRate(rate)
			}
			res := cat.Recompute(picks, laborRate)

			var out io.Writer = cmd.OutOrStdout()
			if outFn != "" {
				f, err := os.Create(outFn)
				if err != nil {
					return fmt.Errorf("create %s: %w", outFn, err)
				}
				defer f.Close()
				out = f
			}

			switch strings.ToLower(format) {
			case "text":
				return writeText(out, k, res, cat.Calculator())
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			case "xlsx":
				return writeExport(out, export.GenerateExcel, export.NewOfferData(k, res, cat.Calculator(), time.Now()))
			case "pdf":
				return writeExport(out, export.GeneratePDF, export.NewOfferData(k, res, cat.Calculator(), time.Now()))
			default:
				return fmt.Errorf("unknown format %q (text, json, xlsx, pdf)", format)
			}
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "product kind (default from DEFAULT_KIND)")
	cmd.Flags().StringArrayVar(&picks, "pick", nil, "assembly id to include (repeatable, taken verbatim)")
	cmd.Flags().StringVar(&rate, "rate", "", "labor rate in EUR per hour (default from catalog)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, xlsx or pdf")
	cmd.Flags().StringVar(&outFn, "out", "", "write to file instead of stdout")
	return cmd
}

func writeExport(w io.Writer, gen func(export.OfferData) ([]byte, error), data export.OfferData) error {
	b, err := gen(data)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func writeText(w io.Writer, kind string, res service.Result, calc *service.Calculator) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "KODAS\tPAVADINIMAS\tKIEKIS\tVNT\tKAINA\tSUMA\t")
	for _, p := range service.SortPricedByCode(res.Materials) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", p.Code, p.Name, service.FormatQty(p.Qty), p.Unit, service.FormatEUR(p.UnitCost), service.FormatEUR(p.LineCost))
	}
	if len(res.Labor) > 0 {
		fmt.Fprintln(tw, "\t\t\t\t\t\t")
		fmt.Fprintln(tw, "DARBAS\t\tKIEKIS\tVNT\t\t\t")
		for _, l := range service.SortMergedByCode(res.Labor) {
			fmt.Fprintf(tw, "%s\t\t%s\t%s\t\t\t\n", l.Code, service.FormatHours(l.Qty), calc.LaborUnit(l))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s", service.OfferDraft(kind, res))
	return err
}
