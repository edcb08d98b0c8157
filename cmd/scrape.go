package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/filmscout/filmscout/filesystem"
	"github.com/filmscout/filmscout/inline"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/scraper"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringP("query", "q", "", "The search query")
	scrapeCmd.Flags().StringP("type", "t", "any", "Only consider results of this type: any, serial or film")
	scrapeCmd.Flags().StringP("pick", "p", "", "Which result to open, see below")
	scrapeCmd.Flags().StringP("episodes", "e", "", "Which episodes to keep, see below")
	scrapeCmd.Flags().BoolP("links", "l", false, "Extract the stream links of every kept episode")
	scrapeCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	scrapeCmd.Flags().StringP("output", "o", "", "File to write the output to")

	lo.Must0(scrapeCmd.RegisterFlagCompletionFunc("query", completionQuery))
	lo.Must0(scrapeCmd.RegisterFlagCompletionFunc("type", completionContentType))
}

// parsePick splits "year:2019" or "exact:El Camino" into a picker. A bare number picks by index.
func parsePick(value string) (inline.ResultPicker, error) {
	switch value {
	case "first", "last":
		return inline.ParseResultPicker(value, "")
	}

	if kind, arg, ok := strings.Cut(value, ":"); ok {
		return inline.ParseResultPicker(kind, arg)
	}

	return inline.ParseResultPicker("index", value)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [query]",
	Short: "Search, open a result and print its episodes without any interaction",
	Long: `Search, open a result and print its episodes without any interaction.

Result pickers:
  first - first result
  last - last result
  [number] - result by index (starting from 0)
  year:[year] - first result of that year, or the first result when none matches
  exact:[title] - result whose title matches, ignoring case

Episode selectors:
  first - first episode in the list
  last - last episode in the list
  all - all episodes in the list
  [number] - episode by index (starting from 0)
  [from]-[to] - episodes by index range
  @[substring]@ - episodes whose label or title contain the substring
  [label] - the episode with that label, e.g. S01E02

Without a picker the result listing is printed.`,
	ValidArgsFunction: completionQuery,
	Run: func(cmd *cobra.Command, args []string) {
		q := queryOf(cmd, args)

		var out io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			out = file
		}

		picker := mo.None[inline.ResultPicker]()
		if pick := lo.Must(cmd.Flags().GetString("pick")); pick != "" {
			fn, err := parsePick(pick)
			handleErr(err)
			picker = mo.Some(fn)
		}

		episodes := mo.None[inline.EpisodesFilter]()
		if description := lo.Must(cmd.Flags().GetString("episodes")); description != "" {
			fn, err := inline.ParseEpisodesFilter(description)
			handleErr(err)
			episodes = mo.Some(fn)
		}

		options := &inline.Options{
			Out:            out,
			Source:         newEngine(),
			Json:           lo.Must(cmd.Flags().GetBool("json")),
			Query:          q,
			Filter:         contentTypeOf(cmd),
			ResultPicker:   picker,
			EpisodesFilter: episodes,
			Links:          lo.Must(cmd.Flags().GetBool("links")),
			WriteHistory:   viper.GetBool(key.HistorySave),
		}

		handleErr(inline.Run(options))
		closeEngine()
	},
}

func init() {
	scrapeCmd.AddCommand(scrapeSchemaCmd)

	scrapeSchemaCmd.Flags().BoolP("lookup", "L", false, "Schema of the HTTP search response instead")
}

var scrapeSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the scrape output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "episode", "output", "title", "content":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		var schema *jsonschema.Schema
		if lo.Must(cmd.Flags().GetBool("lookup")) {
			schema = reflector.Reflect(&scraper.Content{})
		} else {
			schema = reflector.Reflect(&inline.Output{})
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
