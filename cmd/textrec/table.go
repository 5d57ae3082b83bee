package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"textrec/internal/domain"
)

// resultTable lays out ranked items as "#", the output fields, then "similarity".
// Terminals get rounded borders; piped output stays plain ASCII.
func resultTable(res *domain.Result, outputs []string, fancy bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleDefault)
	if fancy {
		tw.SetStyle(table.StyleRounded)
	}

	header := table.Row{"#"}
	for _, name := range outputs {
		header = append(header, name)
	}
	tw.AppendHeader(append(header, "similarity"))

	for i, it := range res.Items {
		row := table.Row{i + 1}
		for _, f := range it.Fields {
			row = append(row, f.Value)
		}
		tw.AppendRow(append(row, it.Similarity))
	}

	last := len(outputs) + 2
	configs := []table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: last, Align: text.AlignRight},
	}
	for n := 2; n < last; n++ {
		configs = append(configs, table.ColumnConfig{Number: n, WidthMax: 80})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
