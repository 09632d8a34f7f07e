package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cachedev/cdev/pkg/cdev"
)

var uploadSpec string

var uploadCmd = &cobra.Command{
	Use:   "upload <file> [<file>...]",
	Short: "Upload and compile classes or routines",
	Long: `Upload sends local source files to the server and compiles them.

A file whose name already exists in the namespace is updated in place;
anything else is created. The file name's case and extension must match the
resource type on the server (a class named Demo.Loan lives in
Demo.Loan.cls). Failures are reported per file; the remaining files are
still processed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadSpec, "spec", "", "compiler flags and compilers; server defaults when empty")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, ns, err := connect(ctx)
	if err != nil {
		return err
	}

	existing, err := client.Files(ctx, ns)
	if err != nil {
		return err
	}
	byName := make(map[string]cdev.File, len(existing))
	for _, f := range existing {
		byName[f.Name] = f
	}

	var errs *multierror.Error
	for _, path := range args {
		if err := uploadOne(ctx, client, ns, byName, path); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errs.ErrorOrNil()
}

func uploadOne(ctx context.Context, client *cdev.Client, ns cdev.Namespace, byName map[string]cdev.File, path string) error {
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)

	var op *cdev.FileOperation
	if f, ok := byName[name]; ok {
		f.SetContent(string(content))
		op, err = client.PutFile(ctx, f)
	} else {
		op, err = client.AddFile(ctx, ns, name, string(content))
	}
	if err != nil {
		return err
	}
	if !op.Success {
		return operationError("upload", op.Errors)
	}
	if op.File == nil {
		return fmt.Errorf("server returned no file for %s", name)
	}

	compiled, err := client.CompileFile(ctx, *op.File, uploadSpec)
	if err != nil {
		return err
	}
	if !compiled.Success {
		return operationError("compile", compiled.Errors)
	}

	fmt.Printf("uploaded %s\n", name)
	return nil
}

var importCmd = &cobra.Command{
	Use:   "import <file> [<file>...]",
	Short: "Import XML export documents",
	Long: `Import sends local XML export documents to the server, which resolves
each one to the class or routine it represents. Re-importing the same
document is safe and resolves to the same file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, ns, err := connect(ctx)
	if err != nil {
		return err
	}

	var errs *multierror.Error
	for _, path := range args {
		content, err := afero.ReadFile(fsys, path)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		op, err := client.AddXML(ctx, ns, string(content))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if !op.Success {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, operationError("import", op.Errors)))
			continue
		}
		if op.File != nil {
			fmt.Printf("imported %s as %s\n", path, op.File.Name)
		} else {
			fmt.Printf("imported %s\n", path)
		}
	}
	return errs.ErrorOrNil()
}
