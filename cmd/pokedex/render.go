package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Sternrassler/pokeapi-explorer/internal/web/components"
	"github.com/Sternrassler/pokeapi-explorer/pkg/catalog"
	"github.com/Sternrassler/pokeapi-explorer/pkg/pagination"
)

// styles for terminal output.
type styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Muted  lipgloss.Style
	Active lipgloss.Style
	Error  lipgloss.Style
	Bar    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:  lipgloss.NewStyle().Bold(true),
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Cell:   lipgloss.NewStyle().Padding(0, 1),
		Muted:  lipgloss.NewStyle().Faint(true),
		Active: lipgloss.NewStyle().Bold(true).Reverse(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Bar:    lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
	}
}

// table renders rows under headers with padded columns.
type table struct {
	headers []string
	rows    [][]string
}

func (t *table) add(row ...string) {
	t.rows = append(t.rows, row)
}

func (t *table) render(st styles) string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	// Padding(0, 1) adds a column on each side.
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	for i, h := range t.headers {
		sb.WriteString(st.Header.Width(widths[i]).Render(h))
	}
	sb.WriteString("\n")

	total := 0
	for _, w := range widths {
		total += w
	}
	sb.WriteString(st.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				sb.WriteString(st.Cell.Width(widths[i]).Render(cell))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func printListing(w io.Writer, st styles, page *catalog.ListingPage, search string, pageSize int) {
	if search != "" {
		if len(page.Items) == 0 {
			fmt.Fprintln(w, st.Error.Render(fmt.Sprintf("No results for %q", search)))
			return
		}
		fmt.Fprintln(w, st.Title.Render("Found: "+components.DisplayName(page.Items[0].DisplayName)))
	}

	t := &table{headers: []string{"ID", "Name", "Ref"}}
	for _, item := range page.Items {
		t.add(catalog.FormatID(item.SequentialID), components.DisplayName(item.DisplayName), item.DetailRef)
	}
	fmt.Fprint(w, t.render(st))

	if search == "" {
		printPager(w, st, pagination.NewPager(page.PageIndex, pageSize, page.TotalCount), "Pokémon")
	}
}

func printPager(w io.Writer, st styles, p pagination.Pager, label string) {
	if p.TotalCount == 0 {
		return
	}
	fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("Showing %s to %s of %s %s",
		components.FormatCount(p.FirstItem()), components.FormatCount(p.LastItem()),
		components.FormatCount(p.TotalCount), label)))

	window := p.Window()
	if len(window) == 0 {
		return
	}
	parts := make([]string, 0, len(window))
	for _, e := range window {
		switch {
		case e.Ellipsis:
			parts = append(parts, "…")
		case e.Active:
			parts = append(parts, st.Active.Render("["+strconv.Itoa(e.Page)+"]"))
		default:
			parts = append(parts, strconv.Itoa(e.Page))
		}
	}
	fmt.Fprintln(w, "Pages: "+strings.Join(parts, " "))
}

// statBarWidth is the width of a full stat bar in cells.
const statBarWidth = 30

func printDetail(w io.Writer, st styles, d *catalog.DetailRecord) {
	fmt.Fprintln(w, st.Title.Render(catalog.FormatID(d.ID)+" "+components.DisplayName(d.Name)))
	fmt.Fprintf(w, "Height:          %s\n", components.FormatMeters(d.HeightMeters()))
	fmt.Fprintf(w, "Weight:          %s\n", components.FormatKilograms(d.WeightKilograms()))
	fmt.Fprintf(w, "Base Experience: %d\n", d.BaseExperience)

	types := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		types = append(types, components.DisplayName(t))
	}
	fmt.Fprintf(w, "Types:           %s\n", strings.Join(types, ", "))

	abilities := make([]string, 0, len(d.Abilities))
	for _, a := range d.Abilities {
		name := components.DisplayName(a.Name)
		if a.Hidden {
			name += " (Hidden)"
		}
		abilities = append(abilities, name)
	}
	fmt.Fprintf(w, "Abilities:       %s\n", strings.Join(abilities, ", "))
	if art := d.ArtworkURL(); art != "" {
		fmt.Fprintf(w, "Artwork:         %s\n", art)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Title.Render("Base Stats"))
	for _, s := range d.Stats {
		filled := int(s.Percent() / 100 * statBarWidth)
		bar := st.Bar.Render(strings.Repeat("█", filled)) + st.Muted.Render(strings.Repeat("░", statBarWidth-filled))
		fmt.Fprintf(w, "%-16s %3d %s\n", components.DisplayName(s.Name), s.Base, bar)
	}
}

func printTriggers(w io.Writer, st styles, tp *catalog.TriggerPage, pageSize int) {
	fmt.Fprintln(w, st.Title.Render("Evolution Triggers"))
	t := &table{headers: []string{"ID", "Name", "Species"}}
	for _, trig := range tp.Items {
		t.add(strconv.Itoa(trig.ID), trig.DisplayName, strconv.Itoa(trig.SpeciesCount))
	}
	fmt.Fprint(w, t.render(st))
	printPager(w, st, pagination.NewPager(tp.PageIndex, pageSize, tp.TotalCount), "triggers")
}
