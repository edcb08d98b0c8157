package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/filmscout/filmscout/color"
	"github.com/filmscout/filmscout/history"
	"github.com/filmscout/filmscout/icon"
	"github.com/filmscout/filmscout/source"
	"github.com/filmscout/filmscout/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.Flags().IntP("limit", "n", 0, "Only show this many entries")
	historyCmd.Flags().StringP("remove", "r", "", "Remove the entry of this title url")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the titles opened by scrape, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		if u := lo.Must(cmd.Flags().GetString("remove")); u != "" {
			handleErr(history.Remove(u))
			fmt.Printf("%s removed %s\n", icon.Get(icon.Success), u)
			return
		}

		entries, err := history.List()
		handleErr(err)

		if n := lo.Must(cmd.Flags().GetInt("limit")); n > 0 && n < len(entries) {
			entries = entries[:n]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(entries))
			return
		}

		if len(entries) == 0 {
			fmt.Println(style.Faint("nothing opened yet"))
			return
		}

		for _, e := range entries {
			glyph := icon.Get(icon.Series)
			if e.Type == source.Movie {
				glyph = icon.Get(icon.Film)
			}

			fmt.Printf(
				"%s %s %s %s\n",
				glyph,
				style.Bold(e.String()),
				style.Faint(e.OpenedAt.Local().Format("2006-01-02 15:04")),
				style.Fg(color.Gray)(e.URL),
			)
		}
	},
}
