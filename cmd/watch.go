/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/internal/client"
	"github.com/duedesk/apiserver/internal/view"
	"github.com/duedesk/apiserver/types"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	url      string
	username string
	register bool
	interval time.Duration
	once     bool
	status   string
	subject  string
	search   string
	sort     string
	page     int
	perPage  int
}

var watchOpts watchOptions

// watchCmd polls the server and prints the caller's assignments.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow your assignments from a terminal",
	Long: `Signs in, then refreshes the assignment list every --interval until
interrupted. The session is closed on exit. Usage:

	duedesk watch --username alice --status pending --sort title
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, cmd.OutOrStdout(), watchOpts)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	f := watchCmd.Flags()
	f.StringVar(&watchOpts.url, "url", "http://localhost:8080", "server base URL")
	f.StringVarP(&watchOpts.username, "username", "u", "", "account to sign in as")
	f.BoolVar(&watchOpts.register, "register", false, "create the account first")
	f.DurationVar(&watchOpts.interval, "interval", 5*time.Second, "polling interval")
	f.BoolVar(&watchOpts.once, "once", false, "print once and exit")
	f.StringVar(&watchOpts.status, "status", view.StatusAll, "all, pending or completed")
	f.StringVar(&watchOpts.subject, "subject", "", "only show this subject")
	f.StringVar(&watchOpts.search, "search", "", "case-insensitive text search")
	f.StringVar(&watchOpts.sort, "sort", types.SortDueDate, "dueDate, title or subject")
	f.IntVar(&watchOpts.page, "page", 1, "page to show")
	f.IntVar(&watchOpts.perPage, "per-page", view.DefaultItemsPerPage, "assignments per page")
	_ = watchCmd.MarkFlagRequired("username")
}

func runWatch(ctx context.Context, out io.Writer, opts watchOptions) error {
	c, err := client.New(opts.url)
	if err != nil {
		return err
	}

	signIn := c.Login
	if opts.register {
		signIn = c.Register
	}
	assignments, err := signIn(ctx, opts.username)
	if err != nil {
		return errors.New(view.Message(apperr.CodeOf(err)))
	}
	defer func() { _ = c.Logout(context.Background()) }()

	who, err := c.Whoami(ctx)
	if err != nil {
		return errors.New(view.Message(apperr.CodeOf(err)))
	}
	if who.Role == types.RoleAdmin {
		return errors.New("admin accounts manage other users; use the admin API instead")
	}

	state := view.InitialState()
	state = view.Reduce(state, view.SetFilter{Status: &opts.status, Subject: &opts.subject, Search: &opts.search})
	state = view.Reduce(state, view.SetSort{Sort: opts.sort})
	state = view.Reduce(state, view.SetPage{Page: opts.page})
	state.ItemsPerPage = opts.perPage
	state = view.Reduce(state, view.SetAssignments{Assignments: assignments})
	render(out, state)

	if opts.once {
		return nil
	}

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			state = refresh(ctx, c, state)
			render(out, state)
			if state.Error == view.Message(apperr.AuthMissing) {
				return errors.New(state.Error)
			}
		}
	}
}

func refresh(ctx context.Context, c *client.Client, state view.State) view.State {
	state = view.Reduce(state, view.SetLoading{Loading: true})
	list, err := c.List(ctx, types.AssignmentFilter{})
	if err != nil {
		return view.Reduce(state, view.SetError{Message: view.Message(apperr.CodeOf(err))})
	}
	byID := make(map[string]types.Assignment, len(list))
	for _, a := range list {
		byID[a.ID] = a
	}
	state = view.Reduce(state, view.SetAssignments{Assignments: byID})
	state = view.Reduce(state, view.SetError{})
	return state
}

func render(out io.Writer, state view.State) {
	filtered := view.Filtered(state)
	page := view.Paginate(filtered, state.Page, state.ItemsPerPage)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\n%s\n", time.Now().Format("15:04:05"))
	if state.Error != "" {
		fmt.Fprintf(tw, "! %s\n", state.Error)
	}
	fmt.Fprintln(tw, "DONE\tDUE\tSUBJECT\tTITLE")
	for _, a := range page {
		done := " "
		if a.Completed {
			done = "x"
		}
		fmt.Fprintf(tw, "[%s]\t%s\t%s\t%s\n", done, a.DueDate, a.Subject, a.Title)
	}
	fmt.Fprintf(tw, "page %d/%d  (%d shown of %d)  subjects: %v\n",
		state.Page, view.PageCount(len(filtered), state.ItemsPerPage),
		len(page), len(state.Assignments), view.UniqueSubjects(state.Assignments))
	_ = tw.Flush()
}
