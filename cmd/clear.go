package cmd

import (
	"fmt"

	"github.com/filmscout/filmscout/cookie"
	"github.com/filmscout/filmscout/filesystem"
	"github.com/filmscout/filmscout/history"
	"github.com/filmscout/filmscout/icon"
	"github.com/filmscout/filmscout/internal/cache"
	"github.com/filmscout/filmscout/query"
	"github.com/filmscout/filmscout/util"
	"github.com/filmscout/filmscout/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget is a stored artifact that can be wiped from the command line.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() error
}

func removeAll(path func() string) func() error {
	return func() error {
		return filesystem.API().RemoveAll(path())
	}
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), removeAll(where.Cache)},
	{"stream link cache", "links", mo.Some("l"), func() error {
		n := cache.Links().CollectGarbage()
		if n > 0 {
			fmt.Printf("%s dropped %s\n", icon.Get(icon.Link), util.Quantify(n, "expired entry", "expired entries"))
		}
		return filesystem.API().RemoveAll(where.Links())
	}},
	{"queries history", "queries", mo.Some("q"), query.Forget},
	{"opened titles history", "history", mo.Some("s"), history.Forget},
	{"saved cookies", "cookies", mo.Some("k"), func() error {
		return cookie.NewStore(where.Cookies()).Forget()
	}},
	{"browser profile", "profile", mo.None[string](), func() error {
		return util.Delete(where.Profile())
	}},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached and saved artifacts",
	Long:  "Clear cached and saved artifacts.\nClearing the browser profile logs the browser out of the site.",
	Run: func(cmd *cobra.Command, args []string) {
		targets := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(t.argLong))
		})

		if len(targets) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, target := range targets {
			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := target.clear()
			e()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}
	},
}
