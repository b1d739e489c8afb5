package widgets

import (
	"regexp"
	"strings"

	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/format"
)

// CostRowView is a formatted cost table row.
type CostRowView struct {
	Item  string
	Range string
	Notes string
}

// CostTableView renders a pricing table.
type CostTableView struct {
	Caption string
	Rows    []CostRowView
}

// CostTable formats the rows of t. It returns nil when there is nothing to show.
func CostTable(t *cms.CostTable) *CostTableView {
	if t == nil || len(t.Rows) == 0 {
		return nil
	}
	v := &CostTableView{Caption: t.Caption}
	for _, r := range t.Rows {
		v.Rows = append(v.Rows, CostRowView{
			Item:  r.Item,
			Range: format.PriceRange(r.Low, r.High, r.Unit),
			Notes: r.Notes,
		})
	}
	return v
}

// StepView is a numbered process step.
type StepView struct {
	Number      int
	Title       string
	Description string
	Duration    string
}

// ProcessGrid numbers steps by position, starting at 1.
func ProcessGrid(steps []cms.ProcessStep) []StepView {
	out := make([]StepView, 0, len(steps))
	for i, s := range steps {
		out = append(out, StepView{
			Number:      i + 1,
			Title:       s.Title,
			Description: s.Description,
			Duration:    s.Duration,
		})
	}
	return out
}

// ComparisonRow splits a comparison row into its label and value cells.
type ComparisonRow struct {
	Label string
	Cells []string
}

type ComparisonView struct {
	Caption string
	Columns []string
	Rows    []ComparisonRow
}

// ComparisonTable pads or trims every row to the column count so the table
// stays rectangular.
func ComparisonTable(c *cms.Comparison) *ComparisonView {
	if c == nil || len(c.Rows) == 0 {
		return nil
	}
	width := len(c.Columns)
	v := &ComparisonView{Caption: c.Caption, Columns: c.Columns}
	for _, row := range c.Rows {
		if len(row) == 0 {
			continue
		}
		cells := append([]string(nil), row[1:]...)
		if width > 1 {
			for len(cells) < width-1 {
				cells = append(cells, "")
			}
			cells = cells[:width-1]
		}
		v.Rows = append(v.Rows, ComparisonRow{Label: row[0], Cells: cells})
	}
	return v
}

// NeighborhoodCard is one neighborhood on a city landing page.
type NeighborhoodCard struct {
	Anchor      string
	Name        string
	Description string
	Highlights  []string
}

func NeighborhoodGrid(ns []cms.Neighborhood) []NeighborhoodCard {
	out := make([]NeighborhoodCard, 0, len(ns))
	for _, n := range ns {
		out = append(out, NeighborhoodCard{
			Anchor:      slug(n.Name),
			Name:        n.Name,
			Description: n.Description,
			Highlights:  n.Highlights,
		})
	}
	return out
}

// ServiceTypeCard is one service variant with its starting price.
type ServiceTypeCard struct {
	Name        string
	Description string
	StartingAt  string
}

func ServiceTypeGrid(ts []cms.ServiceType) []ServiceTypeCard {
	out := make([]ServiceTypeCard, 0, len(ts))
	for _, t := range ts {
		card := ServiceTypeCard{Name: t.Name, Description: t.Description}
		if t.StartingAt > 0 {
			card.StartingAt = "From " + format.Dollars(t.StartingAt)
		}
		out = append(out, card)
	}
	return out
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
