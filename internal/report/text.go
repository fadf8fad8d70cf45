package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText prints d as plain text, the terminal counterpart of the on-screen
// report.
func (d *Document) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, d.Title)
	fmt.Fprintln(bw, d.Organization)
	fmt.Fprintln(bw, d.Date)
	fmt.Fprintln(bw, strings.Repeat("=", len(d.Title)))
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, d.Customer.Heading)
	tw := tabwriter.NewWriter(bw, 0, 0, 2, ' ', 0)
	for _, f := range d.Customer.Fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f.Label, f.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, d.Items.Heading)
	tw = tabwriter.NewWriter(bw, 0, 0, 2, ' ', tabwriter.Debug)
	fmt.Fprintln(tw, strings.Join(d.Items.Columns, "\t"))
	if len(d.Items.Rows) == 0 {
		fmt.Fprintln(tw, d.Items.Placeholder)
	}
	for _, row := range d.Items.Rows {
		fmt.Fprintln(tw, strings.Join(row.Cells(), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if s := d.Items.Summary; s != nil {
		fmt.Fprintf(bw, "%s %s\n", s.Label, s.Total)
	}
	fmt.Fprintln(bw)

	tw = tabwriter.NewWriter(bw, 0, 0, 8, ' ', 0)
	captions := make([]string, 0, len(d.Signatures))
	names := make([]string, 0, len(d.Signatures))
	for _, s := range d.Signatures {
		captions = append(captions, s.Caption)
		names = append(names, s.Name)
	}
	fmt.Fprintln(tw, strings.Join(captions, "\t"))
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, strings.Join(names, "\t"))
	if err := tw.Flush(); err != nil {
		return err
	}

	return bw.Flush()
}
