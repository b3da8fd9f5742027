package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ghinventory/internal/inventory"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the inventory group tree",
	Long: `Print the resolved inventory as a group tree, the way
'ansible-inventory --graph' renders it. Useful for checking what a topic,
language, or regex change does to grouping before pointing Ansible at it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := buildInventory(cmd)
		if err != nil {
			return err
		}
		renderGraph(cmd.OutOrStdout(), inv)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func renderGraph(w io.Writer, inv *inventory.Inventory) {
	groupColor := color.New(color.FgCyan)
	countColor := color.New(color.Faint)

	fmt.Fprintf(w, "@%s:\n", "all")
	for _, name := range inv.GroupNames() {
		group := inv.Groups[name]
		hosts := append([]string(nil), group.Hosts...)
		sort.Strings(hosts)
		fmt.Fprintf(w, "  |--%s %s\n",
			groupColor.Sprintf("@%s:", name),
			countColor.Sprintf("(%d)", len(hosts)))
		for _, host := range hosts {
			fmt.Fprintf(w, "  |  |--%s\n", host)
		}
	}
}
