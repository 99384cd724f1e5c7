package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shilpkaar/marketplace-api/internal/client"
)

var (
	productQuery    client.ProductQuery
	productCurrency string
	newProduct      client.NewProduct
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the catalog",
	Args:  cobra.NoArgs,
	RunE:  runProducts,
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "List a new product (artisans only)",
	Args:  cobra.NoArgs,
	RunE:  runProductsCreate,
}

func init() {
	f := productsCmd.Flags()
	f.StringVarP(&productQuery.Q, "query", "q", "", "Free-text search")
	f.StringVar(&productQuery.Category, "category", "", "Category filter")
	f.IntVar(&productQuery.Page, "page", 1, "Page number")
	f.IntVar(&productQuery.PageSize, "page-size", 20, "Items per page")

	cf := productsCreateCmd.Flags()
	cf.StringVar(&newProduct.Name, "name", "", "Product name (required)")
	cf.StringVar(&newProduct.Description, "description", "", "Description")
	cf.Float64Var(&newProduct.Price, "price", 0, "Price")
	cf.StringVar(&productCurrency, "currency", "INR", "Currency code")
	cf.IntVar(&newProduct.Stock, "stock", 1, "Units in stock")
	cf.StringVar(&newProduct.Category, "category", "", "Category")
	cf.StringSliceVar(&newProduct.Tags, "tag", nil, "Tag (repeatable)")
	_ = productsCreateCmd.MarkFlagRequired("name")

	productsCmd.AddCommand(productsCreateCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	page, err := a.api.ListProducts(cmd.Context(), productQuery)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, p := range page.Products {
		fmt.Fprintf(tw, "%s\t%s\t%.2f %s\t%s\n", p.ID, p.Name, p.Price, p.Currency, p.Category)
	}
	fmt.Fprintf(tw, "page %d of %d (%d products)\n", page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.Total)
	return tw.Flush()
}

func runProductsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if _, err := a.restore(cmd.Context()); err != nil {
		return err
	}
	np := newProduct
	np.Currency = productCurrency
	p, err := a.api.CreateProduct(cmd.Context(), np)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), p.ID)
	return nil
}
