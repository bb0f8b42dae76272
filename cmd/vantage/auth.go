package main

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vantagepoint/vantage-admin/internal/service"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

func loginCmd(a *app) *cobra.Command {
	var form validation.LoginForm

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		Long:  "Sign in with email and password. Without --password the password is read from the first line of stdin.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.Password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("password is required")
				}
				form.Password = strings.TrimRight(line, "\r\n")
			}

			svc, err := invoke[*service.AuthService](a)
			if err != nil {
				return err
			}
			pair, err := svc.Login(cmd.Context(), &form)
			if err != nil {
				return err
			}

			a.printf("Вход выполнен: %s\n", form.Email)
			if pair.RefreshExpiredAt != "" {
				a.printf("Сессия действительна до %s\n", pair.RefreshExpiredAt)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "account password")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := invoke[*service.AuthService](a)
			if err != nil {
				return err
			}
			if err := svc.Logout(cmd.Context()); err != nil {
				return err
			}
			a.printf("Выход выполнен\n")
			return nil
		},
	}
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is stored",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := invoke[*service.AuthService](a)
			if err != nil {
				return err
			}
			if svc.Authenticated(cmd.Context()) {
				a.printf("Сессия активна\n")
				return nil
			}
			return errors.New("нет сохранённой сессии, выполните vantage login")
		},
	}
}
