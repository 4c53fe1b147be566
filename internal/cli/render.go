package cli

import (
	"fmt"

	"github.com/idilsaglam/todostore/internal/model"
	"github.com/idilsaglam/todostore/internal/store"
	"github.com/idilsaglam/todostore/internal/ui"
)

const maxTitleWidth = 80

// row pairs a record with its store index so grouped output keeps real indexes.
type row struct {
	index int
	rec   model.Record
}

func listLines(st *store.Store, group bool) []string {
	t := ui.Current()
	records := st.All()
	d, p := st.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(records),
	)

	rows := make([]row, len(records))
	for i, r := range records {
		rows[i] = row{index: i, rec: r}
	}

	lines := []string{header, t.Muted.Render(ui.ProgressBar(d, d+p, 28)), ""}
	if group {
		lines = append(lines, groupLines(rows)...)
	} else {
		lines = append(lines, flatLines(rows)...)
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `todo add \"Buy milk\" -d \"2 litres\"`"))
	return lines
}

func flatLines(rows []row) []string {
	t := ui.Current()
	if len(rows) == 0 {
		return []string{t.Muted.Render("no todos")}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		box, style := t.BoxUnchecked, t.Muted
		if r.rec.Done {
			box, style = t.BoxChecked, t.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			t.Muted.Render(fmt.Sprintf("%2d.", r.index)), style.Render(box), truncate(r.rec.Title)))
	}
	return out
}

func groupLines(rows []row) []string {
	t := ui.Current()
	var pend, done []row
	for _, r := range rows {
		if r.rec.Done {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	section := func(name string, rs []row) []string {
		lines := []string{t.Accent.Render(name)}
		if len(rs) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		return append(lines, flatLines(rs)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxTitleWidth {
		return string(r[:maxTitleWidth-3]) + "..."
	}
	return s
}
