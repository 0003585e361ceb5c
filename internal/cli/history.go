package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tejaswankalluri/portclean/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent kill attempts",
	Long:  "Display the journal of processes portclean has tried to kill in past runs.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of events to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore()
	if err != nil {
		return err
	}

	data, err := store.Load()
	if err != nil {
		return err
	}

	events := data.Events
	if historyLimit > 0 && len(events) > historyLimit {
		events = events[len(events)-historyLimit:]
	}

	if len(events) == 0 {
		fmt.Println("No kill history yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tPORT\tPID\tCOMMAND\tRESULT")
	for _, e := range events {
		result := "killed"
		if !e.Killed {
			result = "failed"
			if e.Detail != "" {
				result = "failed: " + e.Detail
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Port, e.PID, e.Command, result)
	}
	return w.Flush()
}
