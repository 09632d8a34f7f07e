package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// routineExtensions are the file extensions the server uses for routines.
var routineExtensions = map[string]bool{
	"mac": true,
	"int": true,
	"obj": true,
	"inc": true,
	"bas": true,
}

var (
	listNoSystem bool
	listTypes    []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List server details",
}

var listNamespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List all namespaces on the server",
	Args:  cobra.NoArgs,
	RunE:  runListNamespaces,
}

var listClassesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List all classes in the namespace",
	Args:  cobra.NoArgs,
	RunE:  runListClasses,
}

var listRoutinesCmd = &cobra.Command{
	Use:   "routines",
	Short: "List all routines in the namespace",
	Args:  cobra.NoArgs,
	RunE:  runListRoutines,
}

func init() {
	listClassesCmd.Flags().BoolVarP(&listNoSystem, "noSystem", "s", false, "hide system classes")
	listRoutinesCmd.Flags().BoolVarP(&listNoSystem, "noSystem", "s", false, "hide system routines")
	listRoutinesCmd.Flags().StringSliceVarP(&listTypes, "type", "t", nil, "restrict to mac|int|obj|inc|bas")

	listCmd.AddCommand(listNamespacesCmd)
	listCmd.AddCommand(listClassesCmd)
	listCmd.AddCommand(listRoutinesCmd)
}

func runListNamespaces(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := connectClient(ctx)
	if err != nil {
		return err
	}

	namespaces, err := client.Namespaces(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME")
	for _, ns := range namespaces {
		fmt.Fprintln(w, ns.Name)
	}
	return w.Flush()
}

func runListClasses(cmd *cobra.Command, args []string) error {
	return listFiles(func(ext string) bool { return ext == "cls" })
}

func runListRoutines(cmd *cobra.Command, args []string) error {
	wanted := routineExtensions
	if len(listTypes) > 0 {
		wanted = make(map[string]bool, len(listTypes))
		for _, t := range listTypes {
			if !routineExtensions[t] {
				return fmt.Errorf("unknown routine type %q", t)
			}
			wanted[t] = true
		}
	}
	return listFiles(func(ext string) bool { return wanted[ext] })
}

func listFiles(match func(ext string) bool) error {
	ctx := context.Background()
	client, ns, err := connect(ctx)
	if err != nil {
		return err
	}

	files, err := client.Files(ctx, ns)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE")
	for _, f := range files {
		if listNoSystem && strings.HasPrefix(f.Name, "%") {
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(f.Name), ".")
		if !match(ext) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", f.Name, ext)
	}
	return w.Flush()
}
