package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"yieldDesk/internal/roles"
)

func runRoles(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLABEL\tHASH\tPERMISSIONS")
	for _, role := range roles.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", role.Name, role.Label, role.Hash, strings.Join(role.Permissions, ","))
	}
	return w.Flush()
}
