// Command hub is a thin terminal front end for the resource hub client
// core: it logs in, issues queries and mutations through the core
// services, and re-renders whenever the cached list changes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noah-isme/cse-resource-hub/internal/models"
)

var (
	flagName     string
	flagEmail    string
	flagRole     string
	flagSemester int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "hub: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hub",
		Short: "CSE Resource Hub terminal client",
		Long: `hub browses, submits and moderates semester-tagged learning resources
against a resource hub backend. The backend URL comes from BACKEND_URL.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flagName, "name", "", "Full name to log in with")
	cmd.PersistentFlags().StringVar(&flagEmail, "email", "", "Email to log in with")
	cmd.PersistentFlags().StringVar(&flagRole, "role", string(models.RoleStudent), "Role: student, teacher or admin")
	cmd.PersistentFlags().IntVar(&flagSemester, "semester", 0, "Semester 1-8 (required for students)")
	cmd.AddCommand(
		newListCmd(),
		newWatchCmd(),
		newSubmitCmd(),
		newApproveCmd(),
	)
	return cmd
}
