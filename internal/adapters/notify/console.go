package notify

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/ports"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out     io.Writer
	table   bool // tablas completas en vez de una línea por fixture
	explain bool // motivos por asignación
}

var _ ports.Notifier = (*Console)(nil)

// NewConsole crea un notificador que escribe en w.
func NewConsole(w io.Writer, table, explain bool) *Console {
	return &Console{out: w, table: table, explain: explain}
}

// Notify imprime el plan en el modo configurado.
func (c *Console) Notify(_ context.Context, plan domain.Plan) error {
	if len(plan.Lineups) == 0 {
		fmt.Fprintln(c.out, "no fixtures to plan")
		return nil
	}

	fixtures := make(map[domain.FixtureID]domain.Fixture, len(plan.Fixtures))
	for _, fx := range plan.Fixtures {
		fixtures[fx.ID] = fx
	}

	for _, l := range plan.Lineups {
		fx, ok := fixtures[l.FixtureID]
		if !ok {
			fx = domain.Fixture{ID: l.FixtureID, Date: l.Date}
		}
		if c.table {
			c.printLineupTable(fx, l)
		} else {
			c.printCompact(fx, l)
		}
	}

	c.printDiagnostics(plan.Diagnostics)
	return nil
}

// printCompact imprime un fixture en una línea.
func (c *Console) printCompact(fx domain.Fixture, l domain.Lineup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s %s %s] %s", fx.Date.Format("01-02"), fx.ID, fx.Importance, provenanceIcon(l.Provenance))
	for _, as := range l.Assignments {
		fmt.Fprintf(&sb, " %s:%s", as.Role, as.Agent)
		if as.Flags != 0 {
			fmt.Fprintf(&sb, "(%s)", flagIcons(as.Flags))
		}
	}
	if len(l.Unfilled) > 0 {
		roles := make([]string, len(l.Unfilled))
		for i, u := range l.Unfilled {
			roles[i] = string(u.Role)
		}
		fmt.Fprintf(&sb, " | unfilled: %s", strings.Join(roles, ","))
	}
	fmt.Fprintf(&sb, " | obj %.2f", l.Objective)
	fmt.Fprintln(c.out, sb.String())
}

// printLineupTable imprime la tabla completa de un fixture.
func (c *Console) printLineupTable(fx domain.Fixture, l domain.Lineup) {
	fmt.Fprintf(c.out, "\n=== %s | %s (%s) ===\n", fx.Label(), l.Provenance, shortID(l.ID))

	table := tablewriter.NewWriter(c.out)
	if c.explain {
		table.Header("#", "Role", "Agent", "Score", "Flags", "Why")
	} else {
		table.Header("#", "Role", "Agent", "Score", "Flags")
	}

	row := 0
	for _, as := range l.Assignments {
		row++
		cells := []any{
			fmt.Sprintf("%d", row),
			string(as.Role),
			string(as.Agent),
			fmt.Sprintf("%.2f", as.Score),
			as.Flags.String(),
		}
		if c.explain {
			cells = append(cells, truncate(strings.Join(as.Reasons, "; "), 60))
		}
		table.Append(cells...)
	}
	for _, u := range l.Unfilled {
		row++
		cells := []any{fmt.Sprintf("%d", row), string(u.Role), "UNFILLED", "-", "-"}
		if c.explain {
			cells = append(cells, truncate(u.Reason, 60))
		}
		table.Append(cells...)
	}
	table.Render()

	fmt.Fprintf(c.out, "  objective %.2f | avg %.2f | %d/%d roles\n",
		l.Objective, l.AverageScore(), len(l.Assignments), len(l.Assignments)+len(l.Unfilled))
}

// printDiagnostics imprime el resumen del horizonte.
func (c *Console) printDiagnostics(d domain.Diagnostics) {
	fmt.Fprintf(c.out, "\n--- DIAGNOSTICS ---\n")
	fmt.Fprintf(c.out, "  Average effective score: %.2f\n", d.AverageScore)
	fmt.Fprintf(c.out, "  Unfilled roles:          %d\n", d.Unfilled)

	if c.table && len(d.Appearances) > 0 {
		ids := make([]string, 0, len(d.Appearances))
		for id := range d.Appearances {
			ids = append(ids, string(id))
		}
		sort.Slice(ids, func(i, j int) bool {
			ai, aj := d.Appearances[domain.AgentID(ids[i])], d.Appearances[domain.AgentID(ids[j])]
			if ai != aj {
				return ai > aj
			}
			return ids[i] < ids[j]
		})

		tbl := tablewriter.NewWriter(c.out)
		tbl.Header("Agent", "Apps")
		for _, id := range ids {
			tbl.Append(id, fmt.Sprintf("%d", d.Appearances[domain.AgentID(id)]))
		}
		tbl.Render()
	}

	for _, r := range d.Reasons {
		fmt.Fprintf(c.out, "  >> %s\n", r)
	}
	for _, issue := range d.Issues {
		fmt.Fprintf(c.out, "  !! %s @ %s: %s\n", issue.Agent, issue.Fixture, issue.Reason)
	}
	fmt.Fprintln(c.out)
}

// PrintHistory imprime las ejecuciones guardadas y los lineups persistidos.
func (c *Console) PrintHistory(runs []domain.PlanRun, lineups []domain.Lineup) {
	if len(runs) == 0 && len(lineups) == 0 {
		fmt.Fprintln(c.out, "\n  No saved plans yet. Run `plan --save` first.")
		return
	}

	if len(runs) > 0 {
		fmt.Fprintf(c.out, "\n=== PLAN RUNS ===\n")
		tbl := tablewriter.NewWriter(c.out)
		tbl.Header("Run", "Created", "Fixtures", "Avg", "Unfilled")
		for _, r := range runs {
			tbl.Append(
				shortID(r.ID),
				r.CreatedAt.Format("2006-01-02 15:04"),
				fmt.Sprintf("%d", r.Fixtures),
				fmt.Sprintf("%.2f", r.AverageScore),
				fmt.Sprintf("%d", r.Unfilled),
			)
		}
		tbl.Render()
	}

	if len(lineups) > 0 {
		fmt.Fprintf(c.out, "\n=== LINEUPS ===\n")
		tbl := tablewriter.NewWriter(c.out)
		tbl.Header("Fixture", "Date", "Status", "Lineup", "Obj")
		for _, l := range lineups {
			parts := make([]string, 0, len(l.Assignments))
			for _, as := range l.Assignments {
				parts = append(parts, fmt.Sprintf("%s:%s", as.Role, as.Agent))
			}
			tbl.Append(
				string(l.FixtureID),
				l.Date.Format(domain.DateLayout),
				l.Provenance.String(),
				truncate(strings.Join(parts, " "), 70),
				fmt.Sprintf("%.2f", l.Objective),
			)
		}
		tbl.Render()
	}
	fmt.Fprintln(c.out)
}

// --- helpers ---

func provenanceIcon(p domain.Provenance) string {
	switch p {
	case domain.ProvenanceConfirmed:
		return "[L]"
	case domain.ProvenanceOverridden:
		return "[M]"
	}
	return "[A]"
}

// flagIcons abrevia los flags para el modo compacto.
func flagIcons(fl domain.Flags) string {
	var sb strings.Builder
	for _, f := range []struct {
		flag domain.Flags
		icon string
	}{
		{domain.FlagNeedsRest, "R"},
		{domain.FlagLowSharpness, "S"},
		{domain.FlagManualOverride, "M"},
		{domain.FlagStaleReadiness, "?"},
		{domain.FlagShadowDiscounted, "$"},
	} {
		if fl.Has(f.flag) {
			sb.WriteString(f.icon)
		}
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
