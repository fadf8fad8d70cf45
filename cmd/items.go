// =============================================================================
// PLN Usage Report - Items Command
// =============================================================================
//
// This file defines the commands that manage the line item collection.
// Items are addressed by their 1-based number as shown by 'items list'.
//
// COMMAND USAGE:
//   plnreport items list
//   plnreport items add --name <name> --price <price> --unit <unit> [--qty N]
//   plnreport items edit <no> [--name ...] [--price ...] [--qty ...] [--unit ...]
//   plnreport items delete <no>
//
// Prices accept plain integers as well as "Rp 50.000" style amounts.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ginjaninja78/pln-usage-report/internal/importer"
	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	itemName     string
	itemPrice    string
	itemQuantity int64
	itemUnit     string
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var itemsCmd = &cobra.Command{
	Use:     "items",
	Aliases: []string{"item"},
	Short:   "Manage the list of goods and services",
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the line items with their totals",
	Args:  cobra.NoArgs,
	RunE:  runItemsList,
}

var itemsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a line item",
	Args:  cobra.NoArgs,
	RunE:  runItemsAdd,
}

var itemsEditCmd = &cobra.Command{
	Use:   "edit <no>",
	Short: "Change fields of the item with the given number",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsEdit,
}

var itemsDeleteCmd = &cobra.Command{
	Use:     "delete <no>",
	Aliases: []string{"rm"},
	Short:   "Remove the item with the given number",
	Args:    cobra.ExactArgs(1),
	RunE:    runItemsDelete,
}

func init() {
	addItemFlags(itemsAddCmd.Flags())
	itemsAddCmd.MarkFlagRequired("name")
	itemsAddCmd.MarkFlagRequired("price")
	itemsAddCmd.MarkFlagRequired("unit")

	addItemFlags(itemsEditCmd.Flags())

	itemsCmd.AddCommand(itemsListCmd, itemsAddCmd, itemsEditCmd, itemsDeleteCmd)
	rootCmd.AddCommand(itemsCmd)
}

// addItemFlags registers the line item fields on fs.
func addItemFlags(fs *pflag.FlagSet) {
	fs.StringVar(&itemName, "name", "", "Name of the good or service (Nama Barang/Jasa)")
	fs.StringVar(&itemPrice, "price", "", "Unit price in rupiah (Harga STN)")
	fs.Int64Var(&itemQuantity, "qty", model.DefaultQuantity, "Quantity (Qty)")
	fs.StringVar(&itemUnit, "unit", "", "Unit of measure, e.g. m, pcs (Satuan)")
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

func runItemsList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	table := report.Render(sess.Snapshot(), now()).Items
	if len(table.Rows) == 0 {
		fmt.Fprintln(out, table.Placeholder)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, col := range table.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)
	for _, row := range table.Rows {
		cells := row.Cells()
		for i, cell := range cells {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s %s\n", table.Summary.Label, table.Summary.Total)
	return nil
}

func runItemsAdd(cmd *cobra.Command, args []string) error {
	price, err := importer.ParseAmount(itemPrice)
	if err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}

	item := model.LineItem{
		Name:      itemName,
		UnitPrice: price,
		Quantity:  itemQuantity,
		Unit:      itemUnit,
	}
	sess, err := openSession()
	if err != nil {
		return err
	}
	if err := sess.AddItem(item); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added item %d: %s\n", sess.Len(), item.Name)
	return nil
}

func runItemsEdit(cmd *cobra.Command, args []string) error {
	index, err := parseItemNumber(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}

	item, err := sess.Item(index)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		item.Name = itemName
	}
	if flags.Changed("price") {
		price, err := importer.ParseAmount(itemPrice)
		if err != nil {
			return fmt.Errorf("invalid price: %w", err)
		}
		item.UnitPrice = price
	}
	if flags.Changed("qty") {
		item.Quantity = itemQuantity
	}
	if flags.Changed("unit") {
		item.Unit = itemUnit
	}

	if err := sess.UpdateItem(index, item); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated item %d: %s\n", index+1, item.Name)
	return nil
}

func runItemsDelete(cmd *cobra.Command, args []string) error {
	index, err := parseItemNumber(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}

	item, err := sess.Item(index)
	if err != nil {
		return err
	}
	if err := sess.DeleteItem(index); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %d: %s\n", index+1, item.Name)
	return nil
}

// parseItemNumber converts a 1-based item number into a collection index.
func parseItemNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid item number %q", arg)
	}
	return n - 1, nil
}
