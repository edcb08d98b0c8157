package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/filmscout/filmscout/httpapi"
	"github.com/filmscout/filmscout/icon"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/site"
	"github.com/filmscout/filmscout/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "Listen address, e.g. :5001")
	lo.Must0(viper.BindPFlag(key.ServerAddress, serveCmd.Flags().Lookup("address")))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scraper over HTTP",
	Long: `Serve the scraper over HTTP.

Endpoints:
  GET  /api/health
  GET  /api/keep-alive
  POST /api/update-session  {"cookies": [...]} or {"cookie_string": "a=1; b=2"}
  POST /api/scrape/search         {"title": "...", "year": 2019, "type": "serial"}
  POST /api/scrape/links         {"episodes": [{"episode": "S01E01", "url": "..."}]}

The browser is started once and shared by all requests, one at a time.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		exitOnSignal = false
		e := newEngine()

		addr := viper.GetString(key.ServerAddress)
		fmt.Fprintf(os.Stderr, "%s listening on %s\n", icon.Get(icon.Progress), style.Bold(addr))

		handler := httpapi.NewHandler(e, site.CookieDomain())
		handler.Limiter = httpapi.Limit(viper.GetInt(key.ServerRateLimit), viper.GetInt(key.ServerRateBurst))

		err := httpapi.Serve(ctx, addr, handler)
		closeEngine()
		handleErr(err)
	},
}
