package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// walkCommands visits every command in the tree, breadth-first, starting
// from cmd itself.
func walkCommands(cmd *cobra.Command, fn func(*cobra.Command)) {
	queue := []*cobra.Command{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		fn(next)
		queue = append(queue, next.Commands()...)
	}
}

// enrichParentLong appends a dynamically generated subcommand list to a
// parent command's Long description, so parent help stays current as
// subcommands are added or removed without a second hand-maintained copy.
func enrichParentLong(cmd *cobra.Command) {
	if !cmd.HasSubCommands() {
		return
	}

	var sb strings.Builder
	sb.WriteString(cmd.Long)
	sb.WriteString("\n\nSubcommands:\n")

	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\n", sub.Name(), sub.Short)
		}
	}
	_ = tw.Flush()

	cmd.Long = sb.String()
}
