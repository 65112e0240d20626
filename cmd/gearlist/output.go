package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/brick/gearlist/internal/document"
	"github.com/brick/gearlist/internal/domain/models"
	"github.com/brick/gearlist/internal/notify"
)

// printItems writes the list grouped by category, categories in order of
// first appearance.
func printItems(w io.Writer, items []models.EquipmentRecord, progress models.Progress) {
	var order []string
	groups := make(map[string][]models.EquipmentRecord)
	for _, item := range items {
		if _, ok := groups[item.Category]; !ok {
			order = append(order, item.Category)
		}
		groups[item.Category] = append(groups[item.Category], item)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, category := range order {
		fmt.Fprintf(tw, "%s\n", category)
		for _, item := range groups[category] {
			mark := " "
			if item.IsSelected() {
				mark = "x"
			}
			fmt.Fprintf(tw, "  [%s]\t%d\t%s\t%d/%d\t%s\n",
				mark, item.ID, item.Description, item.Taken(), item.Quantity, item.Condition)
		}
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d of %d selected\n", progress.Selected, progress.Total)
}

func printLogs(w io.Writer, entries []models.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No logs found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBMITTED\tBY\tJOB\tITEMS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\n",
			e.ID, e.SubmittedAt.Local().Format(time.DateTime), e.SubmittedBy, e.JobLabel, e.TotalSelected, e.TotalItems)
		for _, item := range e.Records() {
			fmt.Fprintf(tw, "\t\t\t  %s\t\n", document.ItemLine(item))
		}
	}
	tw.Flush()
}

func printNotices(w io.Writer, notices []notify.Notice) {
	for _, n := range notices {
		fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(string(n.Level)), n.Message)
	}
}
