package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/matst80/gig-finder/pkg/api"
)

var errLoginRequired = errors.New("login required: pass --token or set API_TOKEN")

// authedClient is a client that already carries a bearer token.
func (a *app) authedClient() (*api.Client, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	if c.Token() == nil {
		return nil, errLoginRequired
	}
	return c, nil
}

func newLoginCmd(a *app) *cobra.Command {
	req := api.LoginRequest{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print the bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if _, err := c.Login(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Token().AccessToken)
			if exp, ok := c.TokenExpiry(); ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "expires", exp.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	req := api.RegisterRequest{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			if res.Token != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Token)
			} else if res.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "")
	cmd.Flags().StringVar(&req.Email, "email", "", "")
	cmd.Flags().StringVar(&req.Password, "password", "", "at least 8 characters with lower and upper case, a digit and a special character")
	cmd.Flags().StringVar(&req.PasswordConfirmation, "confirm", "", "password again")
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			me, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "id\t%d\n", me.Id)
			fmt.Fprintf(tw, "name\t%s %s\n", me.FirstName, me.LastName)
			fmt.Fprintf(tw, "email\t%s\n", me.Email)
			groups := make([]string, 0, len(me.UserGroups))
			for _, ug := range me.UserGroups {
				groups = append(groups, fmt.Sprint(ug.GroupId))
			}
			fmt.Fprintf(tw, "groups\t%s\n", strings.Join(groups, ", "))
			fmt.Fprintf(tw, "reservations\t%d\n", len(me.Reservations))
			return tw.Flush()
		},
	}
	cmd.AddCommand(newProfileUpdateCmd(a))
	return cmd
}

// newProfileUpdateCmd changes only the flags that were given.
func newProfileUpdateCmd(a *app) *cobra.Command {
	var first, last, email, image string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update name, email or profile image",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			me, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			req := api.UpdateUserRequest{
				FirstName:       me.FirstName,
				LastName:        me.LastName,
				Email:           me.Email,
				ProfileImageUrl: me.ProfileImageUrl,
			}
			flags := cmd.Flags()
			if flags.Changed("first-name") {
				req.FirstName = first
			}
			if flags.Changed("last-name") {
				req.LastName = last
			}
			if flags.Changed("email") {
				req.Email = email
			}
			if flags.Changed("image") {
				req.ProfileImageUrl = image
			}
			updated, err := c.UpdateUser(cmd.Context(), me.Id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s %s <%s>\n", updated.FirstName, updated.LastName, updated.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&first, "first-name", "", "")
	cmd.Flags().StringVar(&last, "last-name", "", "")
	cmd.Flags().StringVar(&email, "email", "", "")
	cmd.Flags().StringVar(&image, "image", "", "profile image url")
	return cmd
}

func newAddressesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "List or add rehearsal addresses",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			items, err := c.FetchAddresses(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPOSTCODE\tCITY")
			for _, ad := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", ad.Id, ad.Name, ad.Postcode, ad.City)
			}
			return tw.Flush()
		},
	}
	req := api.CreateAddressRequest{}
	create := &cobra.Command{
		Use:   "create",
		Short: "Add an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			ad, err := c.CreateAddress(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created address %d\n", ad.Id)
			return nil
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "")
	create.Flags().StringVar(&req.Postcode, "postcode", "", "")
	create.Flags().StringVar(&req.City, "city", "", "")
	cmd.AddCommand(list, create)
	return cmd
}
