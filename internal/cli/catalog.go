package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoshopper/internal/catalog"
	"github.com/rshade/ecoshopper/internal/cli/pagination"
	"github.com/rshade/ecoshopper/internal/shop"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Product catalog commands"}
	cmd.AddCommand(NewCatalogListCmd(), newCatalogCategoriesCmd(), newCatalogExportCmd(), newCatalogValidateCmd())
	return cmd
}

type catalogListParams struct {
	category string
	sort     string
	page     pagination.Params
	output   string
}

// catalogListJSON is the --output json document.
type catalogListJSON struct {
	Products   []shop.ScoredProduct `json:"products"`
	Pagination pagination.Meta      `json:"pagination"`
}

// catalogListSummary is the first --output ndjson line.
type catalogListSummary struct {
	Type       string          `json:"type"`
	Pagination pagination.Meta `json:"pagination"`
}

// NewCatalogListCmd creates the catalog list command.
func NewCatalogListCmd() *cobra.Command {
	var params catalogListParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products with their EcoScores",
		Example: `  # Greenest products first
  ecoshopper catalog list --sort score:desc

  # Kitchen products, cheapest first, as NDJSON
  ecoshopper catalog list --category kitchen --sort price:asc --output ndjson

  # Second page of three
  ecoshopper catalog list --page 2 --page-size 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogList(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.category, "category", "", "only list this category")
	cmd.Flags().StringVar(&params.sort, "sort", "",
		"sort by field[:asc|desc]; fields: "+fmt.Sprint(pagination.NewProductSorter().ValidFields()))
	cmd.Flags().IntVar(&params.page.Limit, "limit", 0, "maximum number of products (0 = all)")
	cmd.Flags().IntVar(&params.page.Offset, "offset", 0, "number of products to skip")
	cmd.Flags().IntVar(&params.page.Page, "page", 0, "page number (requires --page-size)")
	cmd.Flags().IntVar(&params.page.PageSize, "page-size", 0, "products per page")
	cmd.Flags().StringVarP(&params.output, "output", "o", outputTable, "Output format: table, json, or ndjson")

	return cmd
}

func runCatalogList(cmd *cobra.Command, params catalogListParams) error {
	if err := validateOutputFormat(params.output); err != nil {
		return err
	}
	if err := params.page.Validate(); err != nil {
		return fmt.Errorf("invalid pagination: %w", err)
	}
	field, order, err := pagination.ParseSort(params.sort, pagination.SortOrderDesc)
	if err != nil {
		return err
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	products, err := pagination.NewProductSorter().Sort(a.shop.Scored(params.category), field, order)
	if err != nil {
		return err
	}
	meta := pagination.NewMeta(params.page, len(products))
	products = pagination.Apply(params.page, products)

	w := cmd.OutOrStdout()
	switch params.output {
	case outputJSON:
		return writeJSON(w, catalogListJSON{Products: products, Pagination: meta})
	case outputNDJSON:
		if err := writeNDJSON(w, catalogListSummary{Type: "summary", Pagination: meta}); err != nil {
			return err
		}
		return writeNDJSON(w, products...)
	default:
		return renderProductTable(w, products, meta)
	}
}

func renderProductTable(w io.Writer, products []shop.ScoredProduct, meta pagination.Meta) error {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tCATEGORY\tPRICE\tSCORE\tLEVEL")
	fmt.Fprintln(tw, "--\t----\t-----\t--------\t-----\t-----\t-----")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%.2f\t%d\t%s\n",
			p.ID, truncate(p.Name, maxNameLen), p.Brand, p.Category, p.Price, p.Result.Score, p.Result.Level)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}

	if meta.TotalPages > 1 {
		fmt.Fprintf(w, "\nPage %d of %d (%d products)\n", meta.CurrentPage, meta.TotalPages, meta.TotalItems)
	}
	return nil
}

func newCatalogCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			for _, c := range a.shop.Catalog().Categories() {
				cmd.Println(c)
			}
			return nil
		},
	}
}

func newCatalogExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog as JSON or YAML",
		Long: `Writes the active catalog to stdout. The output is a valid --catalog file
and a starting point for a custom catalog.`,
		Example: `  ecoshopper catalog export --format yaml > my-catalog.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			data, err := catalog.Marshal(a.shop.Catalog(), catalog.Format(format))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", string(catalog.FormatJSON), "json or yaml")
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog file against the catalog schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("catalog validation failed: %w", err)
			}
			cmd.Printf("✅ Catalog is valid (%d products)\n", cat.Len())
			return nil
		},
	}
}
