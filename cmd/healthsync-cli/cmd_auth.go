package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check account credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(res)
			}
			fmt.Fprintf(c.out, "Logged in as %s\n", res.Email)
			if res.OfferBiometric {
				fmt.Fprintln(c.out, "Biometric login is available: run `healthsync-cli biometric enable --email "+res.Email+"`")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) biometricCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "biometric",
		Short: "Manage biometric login",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := c.api.BiometricStatus(cmd.Context())
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(status)
			}
			return c.table([]string{"SUPPORTED", "ENROLLED", "ENABLED", "EMAIL"}, [][]string{{
				yesNo(status.Supported), yesNo(status.Enrolled), yesNo(status.Enabled), status.Email,
			}})
		},
	}

	var email string
	enable := &cobra.Command{
		Use:   "enable",
		Short: "Enable biometric login for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.api.EnableBiometric(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Biometric login enabled")
			return nil
		},
	}
	enable.Flags().StringVar(&email, "email", "", "account email to remember")
	_ = enable.MarkFlagRequired("email")

	login := &cobra.Command{
		Use:   "login",
		Short: "Log in with biometrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := c.api.BiometricLogin(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Logged in as %s\n", email)
			return nil
		},
	}

	disable := &cobra.Command{
		Use:   "disable",
		Short: "Disable biometric login",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.api.DisableBiometric(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Biometric login disabled")
			return nil
		},
	}

	cmd.AddCommand(enable, login, disable)
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
