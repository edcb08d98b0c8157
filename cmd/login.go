package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/filmscout/filmscout/auth"
	"github.com/filmscout/filmscout/icon"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringP("username", "u", "", "Account used to prefill the login form")
	loginCmd.Flags().BoolP("ask", "a", false, "Prompt for the password and keep it in the system keyring")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the site in a visible browser",
	Long: `Open a visible browser on the login page and wait until the login is done.

When an account and its password are known the form is prefilled, but the captcha
and the submit are left to you. The session is kept in the browser profile.`,
	Run: func(cmd *cobra.Command, args []string) {
		if username := lo.Must(cmd.Flags().GetString("username")); username != "" {
			viper.Set(key.SessionUsername, username)
			persist()
		}

		if lo.Must(cmd.Flags().GetBool("ask")) {
			handleErr(askPassword())
		}

		fmt.Printf("%s Waiting for the login to complete in the browser window\n", icon.Get(icon.Lock))
		handleErr(newEngine().Login())
		closeEngine()

		fmt.Printf("%s %s\n", style.Fg(style.SuccessColor)(icon.Get(icon.Success)), "Logged in")
	},
}

func askPassword() error {
	username := viper.GetString(key.SessionUsername)
	if username == "" {
		input := survey.Input{Message: "Account name:"}
		if err := survey.AskOne(&input, &username); err != nil {
			return err
		}

		if username == "" {
			return errors.New("account name is required")
		}

		viper.Set(key.SessionUsername, username)
		persist()
	}

	var password string
	prompt := survey.Password{Message: fmt.Sprintf("Password for %s:", username)}
	if err := survey.AskOne(&prompt, &password); err != nil {
		return err
	}

	if password == "" {
		return nil
	}

	return auth.SetPassword(username, password)
}
