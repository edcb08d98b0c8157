package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/filmscout/filmscout/color"
	"github.com/filmscout/filmscout/icon"
	"github.com/filmscout/filmscout/open"
	"github.com/filmscout/filmscout/scraper"
	"github.com/filmscout/filmscout/source"
	"github.com/filmscout/filmscout/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(linksCmd)

	linksCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	linksCmd.Flags().StringP("provider", "p", "", "Only keep links of providers whose name contains this")
	linksCmd.Flags().BoolP("open", "O", false, "Open the first remaining link")
	linksCmd.Flags().StringP("with", "w", "", "Application to open the link with instead of the default handler")
}

// firstLink returns the first link across entries, if any.
func firstLink(entries []*scraper.EpisodeLinks) (*source.StreamLink, bool) {
	for _, e := range entries {
		if len(e.Links) > 0 {
			return e.Links[0], true
		}
	}
	return nil, false
}

var linksCmd = &cobra.Command{
	Use:   "links <episode url>...",
	Short: "Extract the stream links of episode pages",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		episodes := lo.Map(args, func(u string, i int) *source.Episode {
			return &source.Episode{Label: fmt.Sprintf("#%d", i+1), URL: u}
		})

		entries, err := newEngine().Links(episodes)
		handleErr(err)
		closeEngine()

		if p := strings.ToLower(lo.Must(cmd.Flags().GetString("provider"))); p != "" {
			for _, e := range entries {
				e.Links = lo.Filter(e.Links, func(l *source.StreamLink, _ int) bool {
					return strings.Contains(strings.ToLower(l.Provider), p)
				})
			}
		}

		if lo.Must(cmd.Flags().GetBool("open")) {
			link, ok := firstLink(entries)
			if !ok {
				handleErr(errors.New("no stream link to open"))
			}

			handleErr(open.Link(link.URL, lo.Must(cmd.Flags().GetString("with"))))
			fmt.Printf("%s opened %s\n", icon.Get(icon.Link), link.URL)
			return
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(entries))
			return
		}

		for _, e := range entries {
			fmt.Println(style.Bold(e.URL))
			if len(e.Links) == 0 {
				fmt.Printf("  %s\n", style.Faint("no links"))
				continue
			}

			for _, l := range e.Links {
				fmt.Printf(
					"  %s %s %s %s %s\n",
					icon.Get(icon.Link),
					style.Fg(color.Purple)(l.Provider),
					style.Fg(color.Yellow)(l.Quality),
					style.Faint(l.Version),
					l.URL,
				)
			}
		}
	},
}
