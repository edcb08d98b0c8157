package cmd

import (
	"encoding/json"
	"os"

	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/browser/static"
	"github.com/filmscout/filmscout/extract"
	"github.com/filmscout/filmscout/filesystem"
	"github.com/filmscout/filmscout/provider"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.PersistentFlags().StringP("url", "u", "", "Address the page was saved from, used to tell movies from series")
}

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Run the extractors over saved HTML pages without a browser",
}

// savedPage loads the file into a page served at the --url address.
func savedPage(cmd *cobra.Command, path string) browser.Handle {
	data, err := filesystem.API().ReadFile(path)
	handleErr(err)

	h, err := static.New(static.Fixed(string(data))).Launch(browser.LaunchOptions{Headless: true})
	handleErr(err)

	if u := lo.Must(cmd.Flags().GetString("url")); u != "" {
		handleErr(h.Navigate(u))
	} else {
		handleErr(h.Navigate("file://" + path))
	}

	return h
}

func init() {
	parseCmd.AddCommand(parseEpisodesCmd)
}

var parseEpisodesCmd = &cobra.Command{
	Use:   "episodes <file>",
	Short: "List the episodes of a saved title page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		h := savedPage(cmd, args[0])
		defer h.Close()

		episodes, err := extract.New(browser.Fixed(h), browser.Instant(), provider.Configured()).Episodes()
		handleErr(err)
		handleErr(json.NewEncoder(os.Stdout).Encode(episodes))
	},
}

func init() {
	parseCmd.AddCommand(parseLinksCmd)
}

var parseLinksCmd = &cobra.Command{
	Use:   "links <file>",
	Short: "List the stream links of a saved episode page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		h := savedPage(cmd, args[0])
		defer h.Close()

		links, err := extract.New(browser.Fixed(h), browser.Instant(), provider.Configured()).Links(h)
		handleErr(err)
		handleErr(json.NewEncoder(os.Stdout).Encode(links))
	},
}
