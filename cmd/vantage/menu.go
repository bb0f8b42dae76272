package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vantagepoint/vantage-admin/internal/display"
	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/menu"
	"github.com/vantagepoint/vantage-admin/internal/service"
	"github.com/vantagepoint/vantage-admin/internal/util"
	"github.com/vantagepoint/vantage-admin/internal/validation"
)

const unsavedMovesNote = "\nЕсть несохранённые перемещения. Выполните vantage menu save %s\n"

func menuCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Manage navigation menus",
		Long: "Menu types live on the backend. Menu items are edited locally and " +
			"arranged with move; save writes the canonical order back.",
	}
	cmd.AddCommand(
		menuTypesCmd(a),
		menuTreeCmd(a),
		menuItemsCmd(a),
		menuAddCmd(a),
		menuEditCmd(a),
		menuRemoveCmd(a),
		menuMoveCmd(a),
		menuSaveCmd(a),
		menuCheckCmd(a),
	)
	return cmd
}

func menuTypesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List menu types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}
			types, err := svc.ListTypes(cmd.Context())
			if err != nil {
				return err
			}

			t := newTable(a.out, "ID", "NAME", "UPDATED")
			for _, mt := range types {
				t.row(mt.ID, mt.Name, display.DateTime(mt.UpdatedAt.Time))
			}
			return t.flush()
		},
	}

	cmd.AddCommand(menuTypeCreateCmd(a), menuTypeUpdateCmd(a), menuTypeDeleteCmd(a))
	return cmd
}

func menuTypeCreateCmd(a *app) *cobra.Command {
	var form validation.MenuTypeForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a menu type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.ID == "" {
				form.ID = util.Slug(form.Name)
			}
			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}
			mt, err := svc.CreateType(cmd.Context(), &form)
			if err != nil {
				return err
			}
			a.printf("Тип меню создан: %s\n", mt.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.ID, "id", "", "menu type id (default: derived from the name)")
	cmd.Flags().StringVar(&form.Name, "name", "", "menu type name")
	return cmd
}

func menuTypeUpdateCmd(a *app) *cobra.Command {
	var form validation.MenuTypeForm

	cmd := &cobra.Command{
		Use:   "update <type>",
		Short: "Rename a menu type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.ID = args[0]
			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}
			mt, err := svc.UpdateType(cmd.Context(), &form)
			if err != nil {
				return err
			}
			a.printf("Тип меню обновлён: %s\n", mt.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "menu type name")
	return cmd
}

func menuTypeDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <type>",
		Short: "Delete a menu type and its local items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}
			if err := svc.DeleteType(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Тип меню удалён: %s\n", args[0])
			return nil
		},
	}
}

func menuTreeCmd(a *app) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "tree <type>",
		Short: "Print the item tree of a menu type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}

			var tree []*domain.MenuNode
			if remote {
				tree, err = svc.RemoteTree(cmd.Context(), args[0])
			} else {
				tree, err = svc.Tree(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if len(tree) == 0 {
				a.printf("Меню пусто\n")
				return nil
			}
			if err := display.WriteTree(a.out, tree); err != nil {
				return err
			}
			if remote {
				return nil
			}
			return a.unsavedNote(cmd, svc, args[0])
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "show the tree built by the backend instead of the local items")
	return cmd
}

func menuItemsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "items <type>",
		Short: "List the flat items of a menu type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}
			items, err := svc.Items(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			t := newTable(a.out, "ID", "NAME", "PARENT", "SORT", "LINK")
			for _, item := range items {
				parent := item.Parent()
				if parent == "" {
					parent = "-"
				}
				link := item.CustomURL
				if link == "" {
					link = item.Route
				}
				t.row(item.ID, item.Name, parent, item.Sort, link)
			}
			if err := t.flush(); err != nil {
				return err
			}
			return a.unsavedNote(cmd, svc, args[0])
		},
	}
}

// unsavedNote prints a save reminder while typeID has unsaved moves.
func (a *app) unsavedNote(cmd *cobra.Command, svc *service.MenuService, typeID string) error {
	dirty, err := svc.Dirty(cmd.Context(), typeID)
	if err != nil || !dirty {
		return err
	}
	a.printf(unsavedMovesNote, typeID)
	return nil
}

func menuItemFlags(cmd *cobra.Command, form *validation.MenuItemForm, parent *string) {
	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "item name")
	f.StringVar(parent, "parent", "", "parent item id; empty for a root item")
	f.StringVar(&form.URL, "url", "", "custom url")
	f.IntVar(&form.Sort, "sort", 0, "sort position among siblings")
}

func menuAddCmd(a *app) *cobra.Command {
	var (
		form   validation.MenuItemForm
		parent string
	)

	cmd := &cobra.Command{
		Use:   "add <type>",
		Short: "Add an item to a menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.TypeID = args[0]
			form.ParentID = domain.StringPtr(parent)

			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}
			item, err := svc.AddItem(cmd.Context(), &form)
			if err != nil {
				return err
			}
			a.printf("Пункт меню добавлен: %s\n", item.ID)
			return nil
		},
	}

	menuItemFlags(cmd, &form, &parent)
	cmd.Flags().StringVar(&form.ID, "id", "", "item id (default: generated)")
	return cmd
}

func menuEditCmd(a *app) *cobra.Command {
	var (
		form   validation.MenuItemForm
		parent string
	)

	cmd := &cobra.Command{
		Use:   "edit <type> <id>",
		Short: "Edit a menu item; omitted flags keep their current values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}
			items, err := svc.Items(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var current *domain.MenuItem
			for i := range items {
				if items[i].ID == args[1] {
					current = &items[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("%w: %s", menu.ErrItemNotFound, args[1])
			}

			form.TypeID, form.ID = args[0], args[1]
			f := cmd.Flags()
			if !f.Changed("name") {
				form.Name = current.Name
			}
			if f.Changed("parent") {
				form.ParentID = domain.StringPtr(parent)
			} else {
				form.ParentID = current.ParentID
			}
			if !f.Changed("url") {
				form.URL = current.CustomURL
			}
			if !f.Changed("sort") {
				form.Sort = current.Sort
			}

			if _, err := svc.UpdateItem(cmd.Context(), &form); err != nil {
				return err
			}
			a.printf("Пункт меню обновлён: %s\n", form.ID)
			return nil
		},
	}

	menuItemFlags(cmd, &form, &parent)
	return cmd
}

func menuRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <type> <id>",
		Short: "Remove an item with all its descendants",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}
			removed, err := svc.RemoveItem(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			a.printf("Удалено пунктов меню: %d\n", len(removed))
			return nil
		},
	}
}

func menuMoveCmd(a *app) *cobra.Command {
	var position string

	cmd := &cobra.Command{
		Use:   "move <type> <item> <target>",
		Short: "Move an item before, after or inside a target item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := menu.ParsePosition(position)
			if err != nil {
				return err
			}
			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}
			tree, err := svc.Move(cmd.Context(), args[0], args[1], args[2], pos)
			if err != nil {
				return err
			}
			if err := display.WriteTree(a.out, tree); err != nil {
				return err
			}
			a.printf(unsavedMovesNote, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&position, "position", string(menu.After), "before, after or inside")
	return cmd
}

func menuSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <type>",
		Short: "Renumber sibling sort values in tree order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}
			if err := svc.SaveStructure(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Структура меню сохранена\n")
			return nil
		},
	}
}

func menuCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <type>",
		Short: "Report items whose parent is missing or forms a cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := invoke[*service.MenuService](a)
			if err != nil {
				return err
			}
			issues, err := svc.Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				a.printf("Проблем не найдено\n")
				return nil
			}
			for _, issue := range issues {
				a.printf("%s\n", issue)
			}
			return fmt.Errorf("найдено проблем: %d", len(issues))
		},
	}
}
