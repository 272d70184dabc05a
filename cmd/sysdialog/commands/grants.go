package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/infrastructure/grantstore"
	"github.com/spf13/cobra"
)

func newGrantsCmd(a *app) *cobra.Command {
	var check string

	cmd := &cobra.Command{
		Use:   "grants",
		Short: "List persisted access grants",
		Long: `List the long-lived access grants retained for picked files and folders.
With --check, report whether a handle or path is covered instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cfg.AccessStorePath == "" {
				return fmt.Errorf("access_store_path is not configured")
			}
			store := grantstore.NewFileStore(grantstore.WithFs(a.fs), grantstore.WithPath(cfg.AccessStorePath))
			out := cmd.OutOrStdout()

			if check != "" {
				covered, err := store.Covers(entities.ResourceHandle(check), check)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "%s: covered=%t\n", check, covered)
				return err
			}

			grants, err := store.Load()
			if err != nil {
				return err
			}
			if grants.IsEmpty() {
				_, err = fmt.Fprintf(out, "no grants in %s\n", store.ConfigPath())
				return err
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "KIND\tTREE\tPATH\tHANDLE")
			for _, g := range grants.Grants {
				_, _ = fmt.Fprintf(w, "%s\t%t\t%s\t%s\n", g.Kind, g.Tree, g.Path, g.Handle)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&check, "check", "", "Handle or path to test against the grants")
	return cmd
}
