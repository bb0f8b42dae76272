package main

import (
	"github.com/spf13/cobra"

	"github.com/vantagepoint/vantage-admin/internal/service"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

func tagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage post tags",
	}
	cmd.AddCommand(
		tagsListCmd(a),
		tagsCreateCmd(a),
		tagsUpdateCmd(a),
		tagsDeleteCmd(a),
	)
	return cmd
}

func tagsListCmd(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags in sort order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := invoke[*service.TagService](a)
			if err != nil {
				return err
			}
			p, err := svc.List(cmd.Context(), page)
			if err != nil {
				return err
			}

			t := newTable(a.out, "ID", "CODE", "NAME", "SORT")
			for _, tag := range p.Items {
				t.row(tag.ID, tag.Code, tag.Name, tag.Sort)
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

func tagFlags(cmd *cobra.Command, form *validation.TagForm) {
	f := cmd.Flags()
	f.StringVar(&form.Code, "code", "", "numeric tag code")
	f.StringVar(&form.Name, "name", "", "tag name")
	f.IntVar(&form.Sort, "sort", 0, "sort position")
}

func tagsCreateCmd(a *app) *cobra.Command {
	var form validation.TagForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := invoke[*service.TagService](a)
			if err != nil {
				return err
			}
			tag, err := svc.Create(cmd.Context(), &form)
			if err != nil {
				return err
			}
			a.printf("Тег создан: %d\n", tag.ID)
			return nil
		},
	}

	tagFlags(cmd, &form)
	return cmd
}

func tagsUpdateCmd(a *app) *cobra.Command {
	var form validation.TagForm

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a tag; omitted flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := invoke[*service.TagService](a)
			if err != nil {
				return err
			}
			current, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			f := cmd.Flags()
			if !f.Changed("code") {
				form.Code = current.Code
			}
			if !f.Changed("name") {
				form.Name = current.Name
			}
			if !f.Changed("sort") {
				form.Sort = current.Sort
			}

			tag, err := svc.Update(cmd.Context(), id, &form)
			if err != nil {
				return err
			}
			a.printf("Тег обновлён: %d\n", tag.ID)
			return nil
		},
	}

	tagFlags(cmd, &form)
	return cmd
}

func tagsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			svc, err := invoke[*service.TagService](a)
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
			a.printf("Удалено тегов: %d\n", len(ids))
			return nil
		},
	}
}
