package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/cse-resource-hub/internal/models"
	"github.com/noah-isme/cse-resource-hub/internal/service"
)

func modeFor(pending bool) models.ViewMode {
	if pending {
		return models.ModePending
	}
	return models.ModeExplore
}

func newListCmd() *cobra.Command {
	var (
		semester string
		subject  string
		pending  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resources for the current filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			items, err := a.resources.List(ctx, a.deriveFilter(semester, subject), modeFor(pending))
			if err != nil {
				return err
			}
			approvals := service.NewApprovalService(a.client, a.resources, a.logger)
			render(os.Stdout, items, pending && approvals.CanApprove(a.session.Identity()))
			return nil
		},
	}
	cmd.Flags().StringVar(&semester, "filter-semester", service.AllSemesters, "Semester filter: all or 1-8")
	cmd.Flags().StringVar(&subject, "filter-subject", "", "Subject substring filter")
	cmd.Flags().BoolVar(&pending, "pending", false, "List pending resources instead of approved")
	return cmd
}

func newWatchCmd() *cobra.Command {
	var (
		semester string
		subject  string
		pending  bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "List resources and re-render on pushed changes until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			items, err := a.resources.List(ctx, a.deriveFilter(semester, subject), modeFor(pending))
			if err != nil {
				return err
			}
			approvals := service.NewApprovalService(a.client, a.resources, a.logger)
			canApprove := pending && approvals.CanApprove(a.session.Identity())
			render(os.Stdout, items, canApprove)

			watcher := service.NewWatcher(a.client, &renderingRefresher{
				resources:  a.resources,
				canApprove: canApprove,
			}, a.cfg.Events, a.logger)

			fmt.Println("Watching for changes (Ctrl-C to stop)...")
			err = watcher.Run(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&semester, "filter-semester", service.AllSemesters, "Semester filter: all or 1-8")
	cmd.Flags().StringVar(&subject, "filter-subject", "", "Subject substring filter")
	cmd.Flags().BoolVar(&pending, "pending", false, "Watch pending resources instead of approved")
	return cmd
}

// renderingRefresher re-renders the list after each watcher-driven
// refresh. The rendering layer composes around the core's refresh hook
// instead of the core knowing about output.
type renderingRefresher struct {
	resources  *service.ResourceService
	canApprove bool
}

func (r *renderingRefresher) Refresh(ctx context.Context) error {
	if err := r.resources.Refresh(ctx); err != nil {
		return err
	}
	fmt.Println()
	render(os.Stdout, r.resources.Snapshot(), r.canApprove)
	return nil
}

func newSubmitCmd() *cobra.Command {
	draft := &service.ResourceDraft{}
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new resource for approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			submissions := service.NewSubmissionService(a.client, a.logger)
			created, err := submissions.Submit(ctx, draft, a.session.Identity())
			if err != nil {
				return err
			}
			fmt.Printf("Submitted %q (id %s), awaiting approval.\n", created.Title, created.ID)

			// Converge on the pending view, the way the web UI switches tabs.
			items, err := a.resources.List(ctx, models.Filter{}, models.ModePending)
			if err != nil {
				return err
			}
			render(os.Stdout, items, false)
			return nil
		},
	}
	cmd.Flags().StringVar(&draft.Title, "title", "", "Resource title")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Resource description")
	cmd.Flags().StringVar(&draft.Subject, "subject", "", "Subject the resource belongs to")
	cmd.Flags().IntVar(&draft.Semester, "draft-semester", 0, "Semester 1-8, defaults to your own for students")
	cmd.Flags().StringVar(&draft.Tags, "tags", "", "Comma separated tags, e.g. notes,syllabus,lab")
	cmd.Flags().StringVar(&draft.FileURL, "file-url", "", "Optional file URL")
	cmd.Flags().StringVar(&draft.ContentURL, "content-url", "", "Optional content URL")
	return cmd
}

func newApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve <resource-id>",
		Short: "Approve a pending resource (teachers and admins only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			// Land on the pending view so the post-approval refresh shows it.
			if _, err := a.resources.List(ctx, models.Filter{}, models.ModePending); err != nil {
				return err
			}

			approvals := service.NewApprovalService(a.client, a.resources, a.logger)
			if err := approvals.Approve(ctx, args[0], a.session.Identity()); err != nil {
				return err
			}
			fmt.Printf("Approved %s.\n", args[0])
			render(os.Stdout, a.resources.Snapshot(), true)
			return nil
		},
	}
	return cmd
}
