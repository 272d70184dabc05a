package commands

import (
	"fmt"

	"github.com/reglet-dev/sysdialog/application/resolver"
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <handle>...",
		Short: "Print the display path for resource handles",
		Example: `  sysdialog resolve 'content://com.android.externalstorage.documents/document/primary%3ADownload%2Fgame.bin'
  sysdialog resolve --set storage_root=/mnt/sdcard file:///sdcard/rom.bin`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			r := resolver.New(
				resolver.WithStorageRoot(cfg.StorageRoot),
				resolver.WithLogger(newLogger(cmd, cfg)),
			)
			for _, h := range args {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), r.Resolve(cmd.Context(), entities.ResourceHandle(h))); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
