// =============================================================================
// PLN Usage Report - Customer Command
// =============================================================================
//
// COMMAND USAGE:
//   plnreport customer show
//   plnreport customer set [flags]
//
// Only the flags given on the command line are changed; the other fields
// keep their stored value. --clear resets every field first.
//
// EXAMPLES:
//   plnreport customer set --name "Budi Santoso" --id 5123 --power "1300 VA"
//   plnreport customer set --clear --name "Siti"
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	customerName       string
	customerID         string
	customerPower      string
	customerOccupation string
	customerContract   string
	customerClear      bool
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Show or edit the customer information",
}

var customerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the stored customer information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		return printFields(cmd.OutOrStdout(), report.CustomerFields(sess.Customer()))
	},
}

var customerSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one or more customer fields",
	Args:  cobra.NoArgs,
	RunE:  runCustomerSet,
}

func init() {
	f := customerSetCmd.Flags()
	f.StringVar(&customerName, "name", "", "Customer name (Nama)")
	f.StringVar(&customerID, "id", "", "Customer ID (ID Pelanggan)")
	f.StringVar(&customerPower, "power", "", "Power rating, e.g. \"1300 VA\" (Daya)")
	f.StringVar(&customerOccupation, "occupation", "", "Occupation (Pekerjaan)")
	f.StringVar(&customerContract, "contract", "", "Contract number (No. Kontrak)")
	f.BoolVar(&customerClear, "clear", false, "Clear all fields before applying the others")

	customerCmd.AddCommand(customerShowCmd, customerSetCmd)
	rootCmd.AddCommand(customerCmd)
}

// runCustomerSet merges the changed flags into the stored customer.
func runCustomerSet(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}

	c := sess.Customer()
	if customerClear {
		c = model.Customer{}
	}

	flags := cmd.Flags()
	for name, target := range map[string]*string{
		"name":       &c.Name,
		"id":         &c.CustomerID,
		"power":      &c.PowerRating,
		"occupation": &c.Occupation,
		"contract":   &c.ContractNumber,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*target = value
	}

	if err := sess.SetCustomer(c); err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}

	return printFields(cmd.OutOrStdout(), report.CustomerFields(c))
}

// printFields writes aligned "label: value" lines.
func printFields(out io.Writer, fields []report.Field) error {
	tw := tabwriter.NewWriter(out, 0, 4, 1, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f.Label, f.Value)
	}
	return tw.Flush()
}
