package cli

import (
	"fmt"
	"strconv"
	"strings"

	"ecommerce-dashboard/internal/display"
	"ecommerce-dashboard/internal/models"
)

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

// document accumulates a markdown report.
type document struct {
	b strings.Builder
}

func (d *document) h1(s string) { fmt.Fprintf(&d.b, "# %s\n\n", s) }
func (d *document) h2(s string) { fmt.Fprintf(&d.b, "## %s\n\n", s) }

func (d *document) para(format string, args ...any) {
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteString("\n\n")
}

func (d *document) table(align []alignment, header []string, rows [][]string) {
	if len(rows) == 0 {
		d.para("_No data for this period._")
		return
	}
	d.row(header)
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
		if i < len(align) && align[i] == alignRight {
			seps[i] = "---:"
		}
	}
	d.row(seps)
	for _, r := range rows {
		d.row(r)
	}
	d.b.WriteString("\n")
}

func (d *document) row(cells []string) {
	d.b.WriteString("|")
	for _, c := range cells {
		d.b.WriteString(" ")
		d.b.WriteString(strings.ReplaceAll(c, "|", `\|`))
		d.b.WriteString(" |")
	}
	d.b.WriteString("\n")
}

func (d *document) String() string { return d.b.String() }

func bold(s string) string { return "**" + s + "**" }

func rangeLine(r models.DateRange) string {
	return fmt.Sprintf("Approved orders from %s to %s.", r.Start.Format(models.DateLayout), r.End.Format(models.DateLayout))
}

func summaryMarkdown(rep *models.Report, f display.Formatter, locations int) string {
	var d document
	d.h1("Summary")
	d.para("%s", rangeLine(rep.Range))
	d.table([]alignment{alignLeft, alignRight}, []string{bold("Metric"), bold("Value")}, [][]string{
		{"Transactions", strconv.Itoa(rep.Rows)},
		{"Orders", strconv.Itoa(rep.Totals.Orders)},
		{"Revenue", f.Money(rep.Totals.Revenue)},
		{"Product categories", strconv.Itoa(len(rep.Products))},
		{"States", strconv.Itoa(len(rep.States))},
		{"Customers with spend", strconv.Itoa(len(rep.Spend))},
		{"Located customers", strconv.Itoa(locations)},
	})
	return d.String()
}

func dailyMarkdown(rep *models.Report, f display.Formatter) string {
	var d document
	d.h1("Daily Orders")
	d.para("%s", rangeLine(rep.Range))
	rows := make([][]string, 0, len(rep.Daily))
	for _, day := range rep.Daily {
		rows = append(rows, []string{day.Date.Format(models.DateLayout), strconv.Itoa(day.OrderCount), f.Money(day.Revenue)})
	}
	d.table([]alignment{alignLeft, alignRight, alignRight}, []string{"Date", "Orders", "Revenue"}, rows)
	return d.String()
}

func categoryRows(cats []models.CategoryQuantity) [][]string {
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{c.CategoryName, strconv.Itoa(c.TotalQuantity)})
	}
	return rows
}

func productsMarkdown(rep *models.Report, n int) string {
	var d document
	d.h1("Product Performance")
	d.para("%s", rangeLine(rep.Range))
	align := []alignment{alignLeft, alignRight}
	header := []string{"Category", "Items sold"}
	d.h2("Best Performing")
	d.table(align, header, categoryRows(rep.Products.Best(n)))
	d.h2("Worst Performing")
	d.table(align, header, categoryRows(rep.Products.Worst(n)))
	return d.String()
}

func demographicsMarkdown(rep *models.Report, n int) string {
	var d document
	d.h1("Customer Demographics")
	d.para("%s", rangeLine(rep.Range))
	align := []alignment{alignLeft, alignRight}

	d.h2("By State")
	states := make([][]string, 0, len(rep.States))
	for _, s := range rep.States {
		states = append(states, []string{s.State, strconv.Itoa(s.CustomerCount)})
	}
	d.table(align, []string{"State", "Customers"}, states)

	d.h2("Top Cities")
	top := limit(rep.Cities, n)
	cities := make([][]string, 0, len(top))
	for _, c := range top {
		cities = append(cities, []string{c.City, strconv.Itoa(c.CustomerCount)})
	}
	d.table(align, []string{"City", "Customers"}, cities)
	return d.String()
}

func spendMarkdown(rep *models.Report, f display.Formatter, n int) string {
	var d document
	d.h1("Customer Spend")
	d.para("%s", rangeLine(rep.Range))
	top := limit(rep.Spend, n)
	rows := make([][]string, 0, len(top))
	for _, s := range top {
		rows = append(rows, []string{"`" + s.CustomerID + "`", f.Money(s.Price)})
	}
	d.table([]alignment{alignLeft, alignRight}, []string{"Customer", "Total spend"}, rows)
	return d.String()
}

func satisfactionMarkdown(rep *models.Report) string {
	var d document
	d.h1("Customer Satisfaction")
	d.para("%s", rangeLine(rep.Range))
	align := []alignment{alignLeft, alignRight}

	d.h2("Review Scores")
	reviews := make([][]string, 0, len(rep.Reviews))
	for _, r := range rep.Reviews {
		reviews = append(reviews, []string{strconv.Itoa(r.ReviewScore), strconv.Itoa(r.CustomerCount)})
	}
	d.table(align, []string{"Score", "Customers"}, reviews)

	d.h2("Order Status")
	statuses := make([][]string, 0, len(rep.Statuses))
	for _, s := range rep.Statuses {
		statuses = append(statuses, []string{s.Status, strconv.Itoa(s.CustomerCount)})
	}
	d.table(align, []string{"Status", "Customers"}, statuses)
	return d.String()
}

func limit[T any](rows []T, n int) []T {
	if n < 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}
