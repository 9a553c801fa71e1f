package report

import (
	"fmt"
	"io"
	"time"

	"github.com/Skotchmaster/restaurant_admin/internal/models"
)

const footerNote = "This report was automatically generated by the Restaurant Management System."

type Renderer struct {
	Now func() time.Time

	// plain leaves page streams uncompressed so their text can be inspected.
	plain bool
}

func NewRenderer() *Renderer {
	return &Renderer{Now: time.Now}
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Renderer) GeneratedAt() time.Time { return r.now() }

func (r *Renderer) document(title string) *document {
	d := newDocument(title)
	if r.plain {
		d.pdf.SetCompression(false)
	}
	return d
}

var orderColumns = []column{
	{title: "Order ID", width: 16, align: "C"},
	{title: "Customer", width: 36, align: "L"},
	{title: "Status", width: 22, align: "C"},
	{title: "Items", width: 56, align: "L"},
	{title: "Total", width: 28, align: "R"},
	{title: "Date", width: 22, align: "C"},
}

// OrdersReport writes the summary and per-order table for orders.
// status is the filter the caller applied, empty for all orders.
func (r *Renderer) OrdersReport(w io.Writer, orders []models.Order, status models.OrderStatus) error {
	d := r.document("Restaurant Orders Report")
	now := r.now()

	d.title("Restaurant Orders Report")
	d.paragraph("", 10, "Generated on: "+now.Format("January 2, 2006 at 15:04"))
	if status != "" {
		d.paragraph("", 10, "Status filter: "+statusTitle(status))
	} else {
		d.paragraph("", 10, "Status filter: All orders")
	}

	sum := summarize(orders)
	d.heading("Summary")
	metrics := []column{{title: "Metric", width: 90, align: "L"}, {title: "Value", width: 90, align: "R"}}
	d.header(metrics)
	d.row(metrics, []string{"Total Orders", fmt.Sprintf("%d", sum.Orders)}, "", false, nil)
	d.row(metrics, []string{"Total Revenue", formatMoney(sum.Revenue)}, "", true, nil)
	for i, st := range models.OrderStatuses {
		d.row(metrics, []string{statusTitle(st) + " Orders", fmt.Sprintf("%d", sum.ByStatus[st])}, "", i%2 == 0, nil)
	}

	d.heading("Order Details")
	if len(orders) == 0 {
		d.paragraph("I", 10, "No orders found.")
	} else {
		d.header(orderColumns)
		for i, o := range orders {
			d.row(orderColumns, []string{
				fmt.Sprintf("#%d", o.ID),
				o.CustomerName,
				statusTitle(o.Status),
				itemsSummary(o.Lines),
				formatMoney(o.Total),
				o.CreatedAt.Format("01/02/2006"),
			}, "", i%2 == 1, orderColumns)
		}
	}

	d.pdf.Ln(8)
	d.paragraph("I", 9, footerNote)

	return d.pdf.Output(w)
}

var receiptColumns = []column{
	{title: "Item", width: 80, align: "L"},
	{title: "Quantity", width: 25, align: "C"},
	{title: "Unit Price", width: 37.5, align: "R"},
	{title: "Subtotal", width: 37.5, align: "R"},
}

// OrderReceipt prints the order with the unit prices frozen on its lines.
func (r *Renderer) OrderReceipt(w io.Writer, o models.Order) error {
	title := fmt.Sprintf("Order Receipt #%d", o.ID)
	d := r.document(title)

	d.title(title)
	d.paragraph("", 10, "Generated on: "+r.now().Format("January 2, 2006 at 15:04"))

	notes := o.Notes
	if notes == "" {
		notes = "None"
	}
	info := []column{{title: "", width: 45, align: "L"}, {title: "", width: 135, align: "L"}}
	d.pdf.Ln(4)
	d.row(info, []string{"Customer", o.CustomerName}, "B", false, nil)
	d.row(info, []string{"Order Date", o.CreatedAt.Format("January 2, 2006 15:04")}, "B", false, nil)
	d.row(info, []string{"Status", statusTitle(o.Status)}, "B", false, nil)
	d.row(info, []string{"Notes", notes}, "B", false, nil)

	d.heading("Items")
	d.header(receiptColumns)
	for i, l := range o.Lines {
		name := l.MenuName()
		if name == "" {
			name = fmt.Sprintf("Menu item #%d", l.MenuItemID)
		}
		d.row(receiptColumns, []string{
			name,
			fmt.Sprintf("%d", l.Quantity),
			formatMoney(l.UnitPrice),
			formatMoney(l.Subtotal()),
		}, "", i%2 == 1, receiptColumns)
	}
	totalCols := []column{{width: 142.5, align: "R"}, {width: 37.5, align: "R"}}
	d.row(totalCols, []string{"Total", formatMoney(o.Total)}, "B", true, nil)

	d.pdf.Ln(8)
	d.paragraph("I", 9, footerNote)

	return d.pdf.Output(w)
}

func ReportFilename(status models.OrderStatus, at time.Time) string {
	label := string(status)
	if label == "" {
		label = "all"
	}
	return fmt.Sprintf("orders_%s_%s.pdf", label, at.Format("20060102"))
}

func ReceiptFilename(id uint, at time.Time) string {
	return fmt.Sprintf("order_%d_%s.pdf", id, at.Format("20060102"))
}
