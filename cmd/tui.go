package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/nibzard/taskclaw/internal/ui"
)

func (a *app) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive task editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			before := store.Snapshot()

			edited, runErr := ui.Run(cmd.Context(), store.Detached())
			if errors.Is(runErr, ui.ErrNotTTY) {
				return userError("%v", runErr)
			}
			if edited != nil {
				if err := a.backend.Flush(before, edited.Snapshot()); err != nil {
					a.warnPersist("save tasks", err)
				}
			}
			if runErr != nil {
				a.logger.Error("tui stopped", "err", runErr)
				return userError("tui: %v", runErr)
			}
			return nil
		},
	}
}
