package main

import (
	"github.com/spf13/cobra"

	"github.com/vantagepoint/vantage-admin/internal/display"
	"github.com/vantagepoint/vantage-admin/internal/service"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

func authorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authors",
		Short: "Manage post authors",
	}
	cmd.AddCommand(
		authorsListCmd(a),
		authorsGetCmd(a),
		authorsCreateCmd(a),
		authorsUpdateCmd(a),
		authorsDeleteCmd(a),
	)
	return cmd
}

func authorsListCmd(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := invoke[*service.AuthorService](a)
			if err != nil {
				return err
			}
			p, err := svc.List(cmd.Context(), page)
			if err != nil {
				return err
			}

			t := newTable(a.out, "ID", "NAME", "AVATAR")
			for _, author := range p.Items {
				t.row(author.ID, author.FullName(), imageURL(author.Avatar))
			}
			if err := t.flush(); err != nil {
				return err
			}
			writePagination(a.out, p.Pagination)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func authorsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := invoke[*service.AuthorService](a)
			if err != nil {
				return err
			}
			author, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			a.printf("# %s\n\n", author.FullName())
			a.printf("ID:      %d\n", author.ID)
			a.printf("Аватар:  %s\n", imageURL(author.Avatar))
			a.printf("Создан:  %s\n", display.DateTime(author.CreatedAt.Time))
			if author.ShortDescription != "" {
				a.printf("\n%s\n", author.ShortDescription)
			}
			if author.Description != "" {
				a.printf("\n%s\n", display.Markdown(author.Description))
			}
			return nil
		},
	}
}

func authorFlags(cmd *cobra.Command, form *validation.AuthorForm, avatar *string) {
	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "first name")
	f.StringVar(&form.LastName, "last-name", "", "last name")
	f.StringVar(&form.SecondName, "second-name", "", "second name")
	f.StringVar(&form.ShortDescription, "short", "", "short description")
	f.StringVar(&form.Description, "description", "", "description")
	f.StringVar(avatar, "avatar", "", "avatar image file")
}

func authorsCreateCmd(a *app) *cobra.Command {
	var (
		form   validation.AuthorForm
		avatar string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if form.Avatar, err = readUpload(avatar); err != nil {
				return err
			}
			svc, err := invoke[*service.AuthorService](a)
			if err != nil {
				return err
			}
			author, err := svc.Create(cmd.Context(), &form)
			if err != nil {
				return err
			}
			a.printf("Автор создан: %d\n", author.ID)
			return nil
		},
	}

	authorFlags(cmd, &form, &avatar)
	return cmd
}

func authorsUpdateCmd(a *app) *cobra.Command {
	var (
		form   validation.AuthorForm
		avatar string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an author; omitted flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := invoke[*service.AuthorService](a)
			if err != nil {
				return err
			}
			current, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			f := cmd.Flags()
			keep := func(flag string, dst *string, value string) {
				if !f.Changed(flag) {
					*dst = value
				}
			}
			keep("name", &form.Name, current.Name)
			keep("last-name", &form.LastName, current.LastName)
			keep("second-name", &form.SecondName, current.SecondName)
			keep("short", &form.ShortDescription, current.ShortDescription)
			keep("description", &form.Description, current.Description)
			if form.Avatar, err = readUpload(avatar); err != nil {
				return err
			}

			author, err := svc.Update(cmd.Context(), id, &form)
			if err != nil {
				return err
			}
			a.printf("Автор обновлён: %d\n", author.ID)
			return nil
		},
	}

	authorFlags(cmd, &form, &avatar)
	cmd.Flags().BoolVar(&form.RemoveAvatar, "remove-avatar", false, "drop the current avatar")
	return cmd
}

func authorsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more authors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			svc, err := invoke[*service.AuthorService](a)
			if err != nil {
				return err
			}
			if len(ids) == 1 {
				err = svc.Delete(cmd.Context(), ids[0])
			} else {
				err = svc.DeleteMany(cmd.Context(), ids)
			}
			if err != nil {
				return err
			}
			a.printf("Удалено авторов: %d\n", len(ids))
			return nil
		},
	}
}
