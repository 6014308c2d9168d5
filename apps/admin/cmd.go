package main

import (
	"context"
	"fmt"
	"io"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/admin"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp          = errors.New("help provided")
	errEmptyPassword = errors.New("password cannot be empty")
)

type commandLine struct {
	adminSvc *admin.Service
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "coursedesk-admin",
		Short:         "Manage CourseDesk administrators",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	var addUname string
	addCmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create an administrator; the password is prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := cli.promptPassword()
			if err != nil {
				return err
			}
			return cli.addUser(cmd.Context(), addUname, pwd)
		},
	}
	addCmd.Flags().StringVarP(&addUname, "username", "u", "", "the admin's username")
	_ = addCmd.MarkFlagRequired("username")

	var resetUname string
	resetCmd := &cobra.Command{
		Use:   "resetpassword",
		Short: "Reset an administrator's password; the new password is prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := cli.promptPassword()
			if err != nil {
				return err
			}
			return cli.resetPassword(cmd.Context(), resetUname, pwd)
		},
	}
	resetCmd.Flags().StringVarP(&resetUname, "username", "u", "", "the admin's username")
	_ = resetCmd.MarkFlagRequired("username")

	root.AddCommand(addCmd, resetCmd)
	return root
}

// run executes the command line; args[0] is the program name.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetArgs(args[1:])
	return root.ExecuteContext(context.Background())
}

func (cli *commandLine) promptPassword() (string, error) {
	_, _ = fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	if len(pwd) == 0 {
		return "", errEmptyPassword
	}
	return string(pwd), nil
}

// addUser creates an admin.Admin
func (cli *commandLine) addUser(ctx context.Context, uname, pwd string) error {
	data := admin.NewAdmin{Username: uname, Password: pwd}
	if err := data.Validate(cli.validate); err != nil {
		return err
	}
	adm, err := cli.adminSvc.Create(ctx, data)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "admin %q created (id %d)\n", adm.Username, adm.ID)
	return nil
}

func (cli *commandLine) resetPassword(ctx context.Context, uname, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)
	if msg := admin.CheckPassword(pwd, uname); msg != "" {
		return core.NewValidationError(nil, core.FieldError{Field: "password", Error: msg})
	}
	if _, err := cli.adminSvc.SetPassword(ctx, uname, pwd); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "password of admin %q reset\n", uname)
	return nil
}
