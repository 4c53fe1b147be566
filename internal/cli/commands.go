package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todostore/internal/model"
	"github.com/idilsaglam/todostore/internal/store"
	"github.com/idilsaglam/todostore/internal/tui"
	"github.com/idilsaglam/todostore/internal/ui"
)

func newAddCommand(a *app) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new todo (title can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return a.withStore(cmd.Context(), true, func(st *store.Store) error {
				idx := st.Create(title, description)
				ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added at index %d", idx))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "todo description")
	return cmd
}

func newGetCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <index>",
		Short: "Show the todo at index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex("get", args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), false, func(st *store.Store) error {
				r, err := st.Get(idx)
				if err != nil {
					return storeErr(err)
				}
				w := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(w, indexed{Index: idx, Record: r})
				}
				t := ui.Current()
				status := t.Pending.Render("pending")
				if r.Done {
					status = t.Success.Render("done")
				}
				fmt.Fprintf(w, "%s %s\n", t.Title.Render(fmt.Sprintf("#%d", idx)), r.Title)
				if r.Description != "" {
					fmt.Fprintln(w, r.Description)
				}
				fmt.Fprintf(w, "%s %s\n", t.Muted.Render("status:"), status)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos in index order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), false, func(st *store.Store) error {
				w := cmd.OutOrStdout()
				if asJSON {
					records := st.All()
					out := make([]indexed, len(records))
					for i, r := range records {
						out[i] = indexed{Index: i, Record: r}
					}
					return writeJSON(w, out)
				}
				ui.Panel(w, listLines(st, a.cfg.Group))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newUpdateCommand(a *app) *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "update <index>",
		Short: "Replace the title and/or description of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex("update", args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if !f.Changed("title") && !f.Changed("description") {
				return usagef("update: nothing to change, pass --title and/or --description")
			}
			return a.withStore(cmd.Context(), true, func(st *store.Store) error {
				cur, err := st.Get(idx)
				if err != nil {
					return storeErr(err)
				}
				if !f.Changed("title") {
					title = cur.Title
				}
				if !f.Changed("description") {
					description = cur.Description
				}
				if err := st.Update(idx, title, description); err != nil {
					return storeErr(err)
				}
				ui.OK(cmd.OutOrStdout(), "updated")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func newDoneCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Mark the todo at index as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex("done", args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), true, func(st *store.Store) error {
				if err := st.MarkDone(idx); err != nil {
					return storeErr(err)
				}
				ui.OK(cmd.OutOrStdout(), "marked done")
				return nil
			})
		},
	}
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"delete"},
		Short:   "Remove the todo at index; the last todo takes its place",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex("rm", args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), true, func(st *store.Store) error {
				last := st.Count() - 1
				if err := st.Delete(idx); err != nil {
					return storeErr(err)
				}
				w := cmd.OutOrStdout()
				ui.OK(w, "removed")
				if idx != last {
					fmt.Fprintln(w, ui.Current().Muted.Render(
						fmt.Sprintf("todo %d moved to index %d", last, idx)))
				}
				return nil
			})
		},
	}
}

func newCountCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), false, func(st *store.Store) error {
				fmt.Fprintln(cmd.OutOrStdout(), st.Count())
				return nil
			})
		},
	}
}

func newUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Browse and edit todos interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var changed bool
			err := a.withStore(cmd.Context(), true, func(st *store.Store) error {
				var err error
				changed, err = tui.Run(cmd.Context(), st)
				if err != nil {
					return failure(fmt.Errorf("tui: %w", err))
				}
				if !changed {
					return errUnchanged
				}
				return nil
			})
			if err == nil && changed {
				ui.OK(cmd.OutOrStdout(), "saved")
			}
			return err
		},
	}
}

// indexed is the JSON shape of a record together with its current index.
type indexed struct {
	Index int `json:"index"`
	model.Record
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseIndex(cmd, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usagef("%s: not a number: %s", cmd, s)
	}
	return n, nil
}

func storeErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &ExitError{Code: ExitFailure, Err: err, Hint: "run `todo ls` to see valid indexes"}
	}
	return failure(err)
}
