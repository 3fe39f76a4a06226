package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dmitrijs2005/gatepass/internal/client/client"
	"github.com/dmitrijs2005/gatepass/internal/client/editor"
	"github.com/dmitrijs2005/gatepass/internal/client/guard"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dustin/go-humanize"
)

var (
	colorAccent = lipgloss.Color("#5f9fb0")
	colorMuted  = lipgloss.Color("#6c757d")
	colorError  = lipgloss.Color("#d16d7a")
	colorOK     = lipgloss.Color("#2ecc71")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorOK)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	outCellStyle = cellStyle.Foreground(colorMuted)
	chromeStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
)

const appTitle = "Gate Pass Inventory"

// renderChrome is the header shown on every screen: title, screen and who is
// logged in.
func renderChrome(s models.Session, screen guard.Screen, now time.Time) string {
	who := mutedStyle.Render("not logged in")
	if !s.Anonymous() {
		who = fmt.Sprintf("%s (%s) · logged in %s", s.Name(), s.Role, humanize.RelTime(s.LoginTime(), now, "ago", "from now"))
	}
	body := titleStyle.Render(appTitle) + "  " + mutedStyle.Render(string(screen)) + "\n" + who
	return chromeStyle.Render(body)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// renderRecord shows a pass header followed by its numbered line items.
func renderRecord(r models.PassRecord) string {
	var b strings.Builder

	header := newTable("Field", "Value").Rows(
		[]string{"Pass No", orDash(r.PassNo)},
		[]string{"Date In", orDash(r.DateIn.String())},
		[]string{"Project", orDash(r.ProjectName)},
		[]string{"Customer", orDash(r.Customer.Name)},
		[]string{"Unit Address", orDash(r.Customer.UnitAddress)},
		[]string{"Location", orDash(r.Customer.Location)},
		[]string{"Phone", orDash(r.Customer.Phone)},
	)
	b.WriteString(header.String())
	b.WriteString("\n")

	items := newTable("#", "Type", "Item", "Part No", "Serial No", "Defect", "Out", "Date Out", "Rectification")
	for i, it := range r.Items {
		items.Row(
			strconv.Itoa(i+1),
			string(it.EquipmentType),
			orDash(it.ItemName),
			orDash(it.PartNumber),
			orDash(it.SerialNumber),
			orDash(it.DefectDetails),
			yesNo(it.ItemOut),
			orDash(it.DateOut.String()),
			orDash(it.ItemRectificationDetails),
		)
	}
	b.WriteString(items.String())

	if r.CreatedBy != "" || r.UpdatedBy != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("created by %s, updated by %s", orDash(r.CreatedBy), orDash(r.UpdatedBy))))
	}
	return b.String()
}

// renderReport shows search results one line item per row; returned items
// are dimmed.
func renderReport(res *models.SearchResult) string {
	rows := models.ReportRows(res.Data)
	if len(rows) == 0 {
		return mutedStyle.Render("No records found.")
	}

	t := newTable("Pass No", "Date In", "Project", "Customer", "Type", "Item", "Part No", "Serial No", "Status", "Date Out")
	for _, r := range rows {
		t.Row(
			r.PassNo,
			r.DateIn.String(),
			orDash(r.ProjectName),
			orDash(r.CustomerName),
			string(r.EquipmentType),
			orDash(r.ItemName),
			orDash(r.PartNumber),
			orDash(r.SerialNumber),
			string(r.Status),
			orDash(r.DateOut.String()),
		)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if row >= 0 && row < len(rows) && rows[row].Status == models.StatusOut {
			return outCellStyle
		}
		return cellStyle
	})

	summary := mutedStyle.Render(fmt.Sprintf("%d record(s), %d item(s)", res.Count, len(rows)))
	return t.String() + "\n" + summary
}

func renderCatalog(c models.Catalog) string {
	if len(c.Items) == 0 {
		return mutedStyle.Render("No catalog items for " + c.Project + ".")
	}
	t := newTable("Type", "Item", "Part No")
	for _, it := range c.Items {
		t.Row(it.ItemType, it.ItemName, it.PartNo)
	}
	return t.String()
}

func renderList(title string, values []string) string {
	if len(values) == 0 {
		return mutedStyle.Render("No " + strings.ToLower(title) + ".")
	}
	t := newTable(title)
	for _, v := range values {
		t.Row(v)
	}
	return t.String()
}

// describeError turns an error into the line shown to the operator. Server
// messages are shown verbatim, transport failures get a generic text.
func describeError(err error) string {
	var verr *editor.ValidationError
	if errors.As(err, &verr) {
		lines := make([]string, 0, len(verr.Violations)+1)
		lines = append(lines, errorStyle.Render("Please fix the following:"))
		for _, v := range verr.Violations {
			lines = append(lines, "  - "+v.String())
		}
		return strings.Join(lines, "\n")
	}
	if apiErr, ok := client.IsAPIError(err); ok {
		return errorStyle.Render(apiErr.Message)
	}
	if errors.Is(err, client.ErrUnavailable) {
		return errorStyle.Render("Network error: the server could not be reached. Please try again.")
	}
	return errorStyle.Render(err.Error())
}
