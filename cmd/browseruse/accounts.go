package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kudosx/claude-skill-browser-use/browser"
)

// newLoginCmd opens a visible browser on a persistent profile so the user
// can sign in. Cookies land in the profile directory and later runs with
// --account reuse them.
func newLoginCmd(root *rootFlags) *cobra.Command {
	var (
		account  string
		startURL string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in interactively and save the session under an account name",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.setup(cmd)
			if err != nil {
				return err
			}
			if account == "" {
				return fmt.Errorf("--account is required")
			}

			profiles := browser.NewProfiles(cfg.ProfilesDir)
			session, err := profiles.Create(account)
			if err != nil {
				return err
			}
			defer session.Release()

			mgr := browser.NewManager(browser.Config{
				Headless:        false,
				UserDataDir:     session.UserDataDir,
				NavigateTimeout: time.Duration(cfg.Browser.NavigateTimeout),
				Logger:          logger,
			})
			defer mgr.Close()

			tab, err := browser.OpenTab(cmd.Context(), mgr, startURL)
			if err != nil {
				return err
			}
			defer tab.Close()

			fmt.Fprintf(os.Stderr, "Sign in using the browser window, then press Enter here to save the %q profile...\n", account)

			done := make(chan struct{})
			go func() {
				bufio.NewReader(os.Stdin).ReadString('\n')
				close(done)
			}()
			select {
			case <-done:
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}

			fmt.Printf("Saved login profile %q at %s\n", account, session.UserDataDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account name to save the session under")
	cmd.Flags().StringVar(&startURL, "url", "https://accounts.google.com/", "page to open for signing in")
	return cmd
}

func newAccountsCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List saved login profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.setup(cmd)
			if err != nil {
				return err
			}

			names, err := browser.NewProfiles(cfg.ProfilesDir).List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("no saved accounts (run: browseruse login --account <name>)")
				return nil
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
}
