// Package cmd implements the command-line interface for filmscout.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/filmscout/filmscout/color"
	"github.com/filmscout/filmscout/constant"
	"github.com/filmscout/filmscout/icon"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/log"
	"github.com/filmscout/filmscout/style"
	"github.com/filmscout/filmscout/util"
	"github.com/filmscout/filmscout/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Record the titles opened by scrape")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().Bool("headless", false, "Run the browser without a window")
	lo.Must0(viper.BindPFlag(key.BrowserHeadless, rootCmd.PersistentFlags().Lookup("headless")))

	rootCmd.PersistentFlags().StringP("profile", "P", "", "Browser profile directory carrying the site identity")
	lo.Must0(viper.BindPFlag(key.BrowserProfile, rootCmd.PersistentFlags().Lookup("profile")))

	rootCmd.PersistentFlags().Bool("restore", true, "Re-inject the last saved cookie set when the browser starts")
	lo.Must0(viper.BindPFlag(key.SessionRestore, rootCmd.PersistentFlags().Lookup("restore")))

	// Leftovers of previous runs.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the filmscout application.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Browser-driven catalog scraper for episodes and stream links",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Browser-driven catalog scraper for episodes and stream links"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		closeEngine()
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
