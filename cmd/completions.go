package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nibzard/taskclaw/internal/utils"
)

var supportedShells = []string{"bash", "zsh", "fish", "powershell"}

func (a *app) newCompletionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completions <shell>",
		Short:     "Generate shell completions (bash, zsh, fish, powershell)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: supportedShells,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch utils.NormalizeName(args[0]) {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell", "pwsh":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return plainUserError("Unsupported shell: %s. Supported shells: bash, zsh, fish, powershell", args[0])
			}
		},
	}
}
