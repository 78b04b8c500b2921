package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for gridnet and print it to stdout.

Load completions for the current session:

  bash:        source <(gridnet completion bash)
  zsh:         source <(gridnet completion zsh)
  fish:        gridnet completion fish | source
  powershell:  gridnet completion powershell | Out-String | Invoke-Expression

To load them for every session, write the script to your shell's completion
directory instead, for example:

  gridnet completion bash > /etc/bash_completion.d/gridnet
  gridnet completion zsh > "${fpath[1]}/_gridnet"
  gridnet completion fish > ~/.config/fish/completions/gridnet.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
