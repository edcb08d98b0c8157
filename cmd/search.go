package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/filmscout/filmscout/color"
	"github.com/filmscout/filmscout/icon"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/log"
	"github.com/filmscout/filmscout/query"
	"github.com/filmscout/filmscout/source"
	"github.com/filmscout/filmscout/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func completionQuery(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// a half typed --type is not worth failing completion over
	raw, _ := cmd.Flags().GetString("type")
	filter, _ := source.ParseContentType(raw)
	return query.SuggestMany(toComplete, filter), cobra.ShellCompDirectiveNoFileComp
}

func completionContentType(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"any", "serial", "film"}, cobra.ShellCompDirectiveNoFileComp
}

// queryOf joins the arguments or falls back to the --query flag.
func queryOf(cmd *cobra.Command, args []string) string {
	q := strings.TrimSpace(strings.Join(args, " "))
	if q == "" {
		q = strings.TrimSpace(lo.Must(cmd.Flags().GetString("query")))
	}

	if q == "" {
		handleErr(errors.New("query is required as an argument or --query flag"))
	}

	if err := query.Remember(q, contentTypeOf(cmd)); err != nil {
		log.Warnf("remembering query: %s", err)
	}

	return q
}

func contentTypeOf(cmd *cobra.Command) source.ContentType {
	t, err := source.ParseContentType(lo.Must(cmd.Flags().GetString("type")))
	handleErr(err)
	return t
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("query", "q", "", "The search query")
	searchCmd.Flags().StringP("type", "t", "any", "Only list results of this type: any, serial or film")
	searchCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")

	lo.Must0(searchCmd.RegisterFlagCompletionFunc("query", completionQuery))
	lo.Must0(searchCmd.RegisterFlagCompletionFunc("type", completionContentType))
}

var searchCmd = &cobra.Command{
	Use:               "search [query]",
	Short:             "Search the catalog and list the result tiles",
	ValidArgsFunction: completionQuery,
	Run: func(cmd *cobra.Command, args []string) {
		q := queryOf(cmd, args)
		filter := contentTypeOf(cmd)

		results, err := newEngine().Search(q, filter)
		handleErr(err)
		closeEngine()

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(results))
			return
		}

		if len(results) == 0 {
			fmt.Printf("%s nothing found for %s\n", icon.Get(icon.Fail), style.Fg(color.Yellow)(q))
			return
		}

		for _, r := range results {
			glyph := icon.Get(icon.Series)
			if r.Type == source.Movie {
				glyph = icon.Get(icon.Film)
			}

			fmt.Printf(
				"%s %s %s %s\n",
				style.Faint(fmt.Sprintf("%3d", r.Index)),
				glyph,
				style.Bold(r.String()),
				style.Fg(color.Gray)(r.URL),
			)
		}
	},
}
