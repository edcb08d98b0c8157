package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/filmscout/filmscout/auth"
	"github.com/filmscout/filmscout/color"
	"github.com/filmscout/filmscout/cookie"
	"github.com/filmscout/filmscout/filesystem"
	"github.com/filmscout/filmscout/icon"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/site"
	"github.com/filmscout/filmscout/style"
	"github.com/filmscout/filmscout/util"
	"github.com/filmscout/filmscout/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(sessionCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and manage the site session",
}

func printLoginState(loggedIn bool) {
	if loggedIn {
		fmt.Printf("%s %s\n", icon.Get(icon.Success), style.Fg(color.Green)("logged in"))
		return
	}
	fmt.Printf("%s %s\n", icon.Get(icon.Fail), style.Fg(color.Red)("logged out"))
}

func init() {
	sessionCmd.AddCommand(sessionCheckCmd)
	sessionCheckCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
}

var sessionCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Start the browser and check whether it is logged in",
	Run: func(cmd *cobra.Command, args []string) {
		defer closeEngine()
		health, err := newEngine().Health()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(map[string]any{
				"logged_in": health.LoggedIn,
				"state":     health.State.String(),
			}))
			return
		}

		printLoginState(health.LoggedIn)
	},
}

func init() {
	sessionCmd.AddCommand(sessionInjectCmd)
	sessionInjectCmd.Flags().StringP("file", "f", "", "Cookie export to read: a JSON list, a name to value object or a Netscape cookies.txt")
	sessionInjectCmd.Flags().StringP("string", "s", "", `Cookie header string such as "a=1; b=2"`)
	sessionInjectCmd.MarkFlagsMutuallyExclusive("file", "string")
}

var sessionInjectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Apply cookies exported from another browser",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("file") && !cmd.Flags().Changed("string") {
			handleErr(errors.New("either --file or --string must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		var cookies []cookie.Cookie

		if path := lo.Must(cmd.Flags().GetString("file")); path != "" {
			data, err := filesystem.API().ReadFile(path)
			handleErr(err)

			cookies, err = cookie.Parse(data, site.CookieDomain())
			handleErr(err)
		} else {
			cookies = cookie.ParseString(lo.Must(cmd.Flags().GetString("string")), site.CookieDomain())
		}

		if len(cookies) == 0 {
			handleErr(errors.New("no cookies found"))
		}

		defer closeEngine()
		applied, loggedIn, err := newEngine().UpdateSession(cookies)
		handleErr(err)

		fmt.Printf(
			"%s applied %s: %s\n",
			icon.Get(icon.Lock),
			util.Quantify(len(applied), "cookie", "cookies"),
			style.Faint(strings.Join(cookie.Names(applied), ", ")),
		)
		printLoginState(loggedIn)
	},
}

func init() {
	sessionCmd.AddCommand(sessionExportCmd)
	sessionExportCmd.Flags().StringP("output", "o", "", "File to write the cookies to")
}

var sessionExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the cookies the browser holds for the site as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		defer closeEngine()
		cookies, err := newEngine().Export()
		handleErr(err)

		data, err := json.MarshalIndent(cookies, "", "  ")
		handleErr(err)

		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			handleErr(filesystem.API().WriteFile(output, data, 0600))
			fmt.Printf("%s wrote %s to %s\n", icon.Get(icon.Success), util.Quantify(len(cookies), "cookie", "cookies"), output)
			return
		}

		fmt.Println(string(data))
	},
}

func init() {
	sessionCmd.AddCommand(sessionForgetCmd)
	sessionForgetCmd.Flags().BoolP("cookies", "c", false, "Also remove the saved cookie set")
}

var sessionForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the stored password and optionally the saved cookies",
	Run: func(cmd *cobra.Command, args []string) {
		if username := viper.GetString(key.SessionUsername); username != "" {
			if err := auth.DeletePassword(username); err != nil {
				fmt.Printf("%s %s\n", icon.Get(icon.Fail), style.Faint(err.Error()))
			} else {
				fmt.Printf("%s forgot the password of %s\n", icon.Get(icon.Success), username)
			}
		}

		if lo.Must(cmd.Flags().GetBool("cookies")) {
			handleErr(cookie.NewStore(where.Cookies()).Forget())
			fmt.Printf("%s forgot the saved cookies\n", icon.Get(icon.Success))
		}
	},
}
