package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobconnect/internal/config"
	"github.com/jonathan/jobconnect/internal/db"
	"github.com/jonathan/jobconnect/internal/logger"
	"github.com/jonathan/jobconnect/internal/server"
	"github.com/jonathan/jobconnect/internal/types"
)

var accountTypeItems = []string{
	string(types.AccountJobSeeker),
	string(types.AccountEmployer),
	string(types.AccountBoth),
}

var validate = validator.New()

func validateName(input string) error {
	name := strings.TrimSpace(input)
	if name == "" {
		return errors.New("name is required")
	}
	if len([]rune(name)) > 100 {
		return errors.New("name must be at most 100 characters")
	}
	return nil
}

func validateEmail(input string) error {
	if err := validate.Var(strings.TrimSpace(input), "required,email"); err != nil {
		return errors.New("a valid email address is required")
	}
	return nil
}

func validatePassword(input string) error {
	if len(input) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(input) > 72 {
		return errors.New("password must be at most 72 bytes")
	}
	return nil
}

func validateAccountType(input string) error {
	for _, item := range accountTypeItems {
		if input == item {
			return nil
		}
	}
	return fmt.Errorf("account type must be one of %s", strings.Join(accountTypeItems, ", "))
}

type createUserOptions struct {
	name          string
	email         string
	accountType   string
	passwordStdin bool
}

func newCreateUserCmd(flags *globalFlags) *cobra.Command {
	opts := &createUserOptions{}

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register an account from the terminal",
		Long:  "Register an account from the terminal. Values not given as flags are prompted for.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.setup()
			if err != nil {
				return err
			}
			defer func() { _ = rt.log.Sync() }()
			if err := rt.cfg.RequireDatabase(); err != nil {
				return err
			}

			req, err := opts.collect(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runCreateUser(cmd, rt, req)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Display name")
	cmd.Flags().StringVar(&opts.email, "email", "", "Login email")
	cmd.Flags().StringVar(&opts.accountType, "account-type", "", "job_seeker, employer or both")
	cmd.Flags().BoolVar(&opts.passwordStdin, "password-stdin", false, "Read the password from standard input")
	return cmd
}

// collect fills the request from flags, prompting for anything missing.
func (o *createUserOptions) collect(stdin io.Reader) (*types.CreateUserRequest, error) {
	req := &types.CreateUserRequest{
		Name:        o.name,
		Email:       o.email,
		AccountType: types.AccountType(o.accountType),
	}

	var err error
	if req.Name == "" {
		if req.Name, err = ask("Name", validateName, 0); err != nil {
			return nil, err
		}
	} else if err := validateName(req.Name); err != nil {
		return nil, err
	}

	if req.Email == "" {
		if req.Email, err = ask("Email", validateEmail, 0); err != nil {
			return nil, err
		}
	} else if err := validateEmail(req.Email); err != nil {
		return nil, err
	}

	if o.passwordStdin {
		if req.Password, err = readPassword(stdin); err != nil {
			return nil, err
		}
	} else if req.Password, err = ask("Password", validatePassword, '*'); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	if req.AccountType == "" {
		sel := promptui.Select{Label: "Account type", Items: accountTypeItems}
		_, picked, err := sel.Run()
		if err != nil {
			return nil, err
		}
		req.AccountType = types.AccountType(picked)
	} else if err := validateAccountType(string(req.AccountType)); err != nil {
		return nil, err
	}
	return req, nil
}

func ask(label string, check promptui.ValidateFunc, mask rune) (string, error) {
	p := promptui.Prompt{Label: label, Validate: check, Mask: mask}
	return p.Run()
}

// readPassword takes the first line of r, without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runCreateUser(cmd *cobra.Command, rt *cliEnv, req *types.CreateUserRequest) error {
	passwords, err := config.NewPasswordConfig(rt.cfg.Password)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, rt.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	user, err := server.NewUserService(database, passwords).Register(ctx, req)
	if err != nil {
		return err
	}
	rt.log.Info("user created",
		zap.String(logger.FieldUserID, user.ID.String()),
		zap.String("account_type", string(user.AccountType)))
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s) with id %s\n", user.Email, user.AccountType, user.ID)
	return nil
}
