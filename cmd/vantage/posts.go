package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vantagepoint/vantage-admin/internal/display"
	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/service"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

func postsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage blog posts",
	}
	cmd.AddCommand(
		postsListCmd(a),
		postsGetCmd(a),
		postsCreateCmd(a),
		postsUpdateCmd(a),
		postsDeleteCmd(a),
	)
	return cmd
}

func postsListCmd(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := invoke[*service.PostService](a)
			if err != nil {
				return err
			}
			p, err := svc.List(cmd.Context(), page)
			if err != nil {
				return err
			}

			now := time.Now()
			t := newTable(a.out, "ID", "CODE", "TITLE", "AUTHOR", "TAGS", "UPDATED")
			for _, post := range p.Items {
				t.row(post.ID, post.Code, post.Title, post.AuthorName,
					strings.Join(post.TagNames, ", "), display.PublishDate(post.UpdatedAt.Time, now))
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

func postsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a post with its text as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := invoke[*service.PostService](a)
			if err != nil {
				return err
			}
			post, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			writePost(a, post)
			return nil
		},
	}
}

func writePost(a *app, post *domain.PostDetail) {
	tags := make([]string, 0, len(post.Tags))
	for _, t := range post.Tags {
		tags = append(tags, t.Name)
	}

	a.printf("# %s\n\n", post.Title)
	a.printf("ID:       %d\n", post.ID)
	a.printf("Код:      %s\n", post.Code)
	a.printf("Автор:    %s\n", post.Author.FullName)
	a.printf("Теги:     %s\n", strings.Join(tags, ", "))
	a.printf("Превью:   %s\n", imageURL(post.PreviewPicture))
	a.printf("Создан:   %s\n", display.DateTime(post.CreatedAt.Time))
	a.printf("Изменён:  %s\n\n", display.DateTime(post.UpdatedAt.Time))
	a.printf("%s\n", display.Markdown(post.Text))
}

// postFlags binds the post form fields to flags of cmd.
func postFlags(cmd *cobra.Command, form *validation.PostForm, preview *string) {
	f := cmd.Flags()
	f.StringVar(&form.Code, "code", "", "numeric post code")
	f.StringVar(&form.Title, "title", "", "post title")
	f.StringVar(&form.Text, "text", "", "post text")
	f.IntVar(&form.AuthorID, "author", 0, "author id")
	f.IntSliceVar(&form.TagIDs, "tag", nil, "tag id, repeatable")
	f.StringVar(preview, "preview", "", "preview picture file")
}

func postsCreateCmd(a *app) *cobra.Command {
	var (
		form    validation.PostForm
		preview string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			upload, err := readUpload(preview)
			if err != nil {
				return err
			}
			form.PreviewPicture = upload

			svc, err := invoke[*service.PostService](a)
			if err != nil {
				return err
			}
			post, err := svc.Create(cmd.Context(), &form)
			if err != nil {
				return err
			}
			a.printf("Публикация создана: %d\n", post.ID)
			return nil
		},
	}

	postFlags(cmd, &form, &preview)
	return cmd
}

func postsUpdateCmd(a *app) *cobra.Command {
	var (
		form    validation.PostForm
		preview string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a post; omitted flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := invoke[*service.PostService](a)
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
			if !f.Changed("title") {
				form.Title = current.Title
			}
			if !f.Changed("text") {
				form.Text = current.Text
			}
			if !f.Changed("author") {
				form.AuthorID = current.Author.ID
			}
			if !f.Changed("tag") {
				for _, t := range current.Tags {
					form.TagIDs = append(form.TagIDs, t.ID)
				}
			}
			if form.PreviewPicture, err = readUpload(preview); err != nil {
				return err
			}

			post, err := svc.Update(cmd.Context(), id, &form)
			if err != nil {
				return err
			}
			a.printf("Публикация обновлена: %d\n", post.ID)
			return nil
		},
	}

	postFlags(cmd, &form, &preview)
	return cmd
}

func postsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := invoke[*service.PostService](a)
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			a.printf("Публикация удалена: %d\n", id)
			return nil
		},
	}
}
