package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegraph/internal/config"
	"github.com/matzehuels/framegraph/pkg/dispatch"
)

// backendsCommand creates the backends command, which lists the registered
// engines in dispatch order and the algorithms the dispatcher offers.
func (c *CLI) backendsCommand() *cobra.Command {
	var priority string

	cmd := &cobra.Command{
		Use:   "backends",
		Short: "List engines and algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.newDispatcher(config.SplitList(priority))
			if err != nil {
				return err
			}
			printBackends(printer{cmd.OutOrStdout()}, d)
			return nil
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "", "engine priority, comma-separated (default from config)")
	return cmd
}

func printBackends(p printer, d *dispatch.Dispatcher) {
	p.title("Engines")
	for _, name := range d.Backends.Names() {
		var role string
		switch {
		case name == d.Self:
			role = "self"
		case slices.Contains(d.Siblings, name):
			role = "sibling"
		case slices.Contains(d.Priority, name):
			role = fmt.Sprintf("priority %d", slices.Index(d.Priority, name)+1)
		default:
			role = "unused"
		}
		p.keyValue(name, role)
	}
	p.keyValue(dispatch.Canonical, "fallback")

	p.title("Algorithms")
	for _, name := range d.Registry.Names() {
		if _, err := d.Lookup(name); err != nil {
			p.detail("%s (hidden)", name)
			continue
		}
		p.info("%s", name)
	}
}
