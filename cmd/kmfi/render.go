package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"kmfi/internal/scoring"
)

type styles struct {
	header lipgloss.Style
	good   lipgloss.Style
	fair   lipgloss.Style
	poor   lipgloss.Style
	dim    lipgloss.Style
	plain  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		good:   r.NewStyle().Foreground(lipgloss.Color("10")),
		fair:   r.NewStyle().Foreground(lipgloss.Color("3")),
		poor:   r.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("8")),
		plain:  r.NewStyle(),
	}
}

func (s styles) score(p scoring.Percent) lipgloss.Style {
	switch {
	case !p.Scored:
		return s.dim
	case p.Value >= 70:
		return s.good
	case p.Value >= 40:
		return s.fair
	default:
		return s.poor
	}
}

// cell is the padding every table cell gets.
func cell(st lipgloss.Style) lipgloss.Style { return st.Padding(0, 1) }

func renderRanking(w io.Writer, regime scoring.Regime, ranked []scoring.RankedCompany) {
	s := newStyles(w)
	fmt.Fprintln(w, s.header.Render(fmt.Sprintf("KMFI ranking (%s)", regime)))
	if len(ranked) == 0 {
		fmt.Fprintln(w, s.dim.Render("no companies scored"))
		return
	}
	rows := make([][]string, 0, len(ranked))
	for _, rc := range ranked {
		rank := "-"
		if rc.Rank > 0 {
			rank = strconv.Itoa(rc.Rank)
		}
		note := ""
		if rc.Composite.Value.Scored && !rc.Composite.Completeness {
			note = "incomplete"
		}
		rows = append(rows, []string{
			rank, rc.CompanyName, string(rc.Tier),
			rc.SelfScore.String(), rc.ProductTestScore.String(), rc.IEGTotal.Percent.String(),
			rc.Composite.Value.String(), note,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.dim).
		Headers("RANK", "COMPANY", "TIER", "SELF", "PT", "IEG", "COMPOSITE", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell(s.header)
			}
			rc := ranked[row]
			switch col {
			case 3:
				return cell(s.score(rc.SelfScore))
			case 4:
				return cell(s.score(rc.ProductTestScore))
			case 5:
				return cell(s.score(rc.IEGTotal.Percent))
			case 6:
				return cell(s.score(rc.Composite.Value).Bold(true))
			case 7:
				return cell(s.dim)
			}
			return cell(s.plain)
		})
	fmt.Fprintln(w, t.Render())
}

func renderAverages(w io.Writer, regime scoring.Regime, avg scoring.Averages) {
	s := newStyles(w)
	fmt.Fprintln(w, s.header.Render(fmt.Sprintf("KMFI industry average (%s)", regime)))
	fields := []struct {
		name  string
		value scoring.Percent
		n     int
	}{
		{"Self", avg.Self, avg.Counts.Self},
		{"Product testing", avg.PT, avg.Counts.PT},
		{"IEG", avg.IEG, avg.Counts.IEG},
		{"Composite", avg.Composite, avg.Counts.Composite},
	}
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.name, f.value.String(), strconv.Itoa(f.n)})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.dim).
		Headers("FIELD", "AVERAGE", "COMPANIES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cell(s.header)
			case col == 1:
				return cell(s.score(fields[row].value))
			}
			return cell(s.plain)
		})
	fmt.Fprintln(w, t.Render())
}
