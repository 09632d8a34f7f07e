package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cachedev/cdev/pkg/cdev"
)

var downloadCmd = &cobra.Command{
	Use:   "download <name> [<name>...]",
	Short: "Download classes or routines",
	Long: `Download fetches classes or routines by name and writes each one to a
file of the same name in the current directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, ns, err := connect(ctx)
	if err != nil {
		return err
	}

	var errs *multierror.Error
	for _, name := range args {
		if err := downloadOne(ctx, client, ns, name); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errs.ErrorOrNil()
}

func downloadOne(ctx context.Context, client *cdev.Client, ns cdev.Namespace, name string) error {
	listed, err := findFile(ctx, client, ns, name)
	if err != nil {
		return err
	}
	f, err := client.GetFile(ctx, *listed)
	if err != nil {
		return err
	}
	if f.Content == nil {
		return fmt.Errorf("server sent no content for %s", name)
	}
	if err := afero.WriteFile(fsys, f.Name, []byte(*f.Content), 0o644); err != nil {
		return err
	}
	fmt.Printf("downloaded %s\n", f.Name)
	return nil
}

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <name> [<name>...]",
	Short: "Export classes or routines as XML",
	Long: `Export fetches the XML export document of each named class or routine.
Output goes to the file given with -o, or to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "file to write to; stdout if not specified")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, ns, err := connect(ctx)
	if err != nil {
		return err
	}

	var exported []string
	for _, name := range args {
		listed, err := findFile(ctx, client, ns, name)
		if err != nil {
			return err
		}
		// Listings omit the xml locator; hydrate first.
		f, err := client.GetFile(ctx, *listed)
		if err != nil {
			return err
		}
		doc, err := client.GetXML(ctx, *f)
		if err != nil {
			return err
		}
		if doc.Content == nil {
			return fmt.Errorf("server sent no xml content for %s", name)
		}
		exported = append(exported, *doc.Content)
	}

	out := strings.Join(exported, "\n")
	if exportOutput == "" {
		fmt.Println(out)
		return nil
	}
	if err := afero.WriteFile(fsys, exportOutput, []byte(out), 0o644); err != nil {
		return err
	}
	fmt.Printf("exported %d document(s) to %s\n", len(exported), exportOutput)
	return nil
}

var editCmd = &cobra.Command{
	Use:   "edit <name> [<name>...]",
	Short: "Edit classes or routines in $EDITOR",
	Long: `Edit downloads each named class or routine into a temporary file, opens
it in $EDITOR (vi if unset), and uploads the result back if it changed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, ns, err := connect(ctx)
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	var errs *multierror.Error
	for _, name := range args {
		if err := editOne(ctx, client, ns, editor, name); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errs.ErrorOrNil()
}

func editOne(ctx context.Context, client *cdev.Client, ns cdev.Namespace, editor, name string) error {
	listed, err := findFile(ctx, client, ns, name)
	if err != nil {
		return err
	}
	f, err := client.GetFile(ctx, *listed)
	if err != nil {
		return err
	}
	if f.Content == nil {
		return fmt.Errorf("server sent no content for %s", name)
	}

	tmp, err := afero.TempFile(fsys, "", "cdev-*-"+f.Name)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer fsys.Remove(tmpName)

	if _, err := tmp.WriteString(*f.Content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	ed := exec.Command(editor, tmpName)
	ed.Stdin, ed.Stdout, ed.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := ed.Run(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	edited, err := afero.ReadFile(fsys, tmpName)
	if err != nil {
		return err
	}
	if string(edited) == *f.Content {
		fmt.Printf("%s unchanged\n", name)
		return nil
	}

	f.SetContent(string(edited))
	op, err := client.PutFile(ctx, *f)
	if err != nil {
		return err
	}
	if !op.Success {
		return operationError("update", op.Errors)
	}
	fmt.Printf("updated %s\n", name)
	return nil
}
