// Package cdev is a Go client for the Caché dev HTTP API.
//
// The server exposes a hypermedia-style JSON resource graph rooted at
// /csp/sys/dev/: the root lists namespaces, and each namespace links to its
// collections of source files, XML export documents, and SQL queries. Every
// resource is addressed by an opaque locator the server issued; the client
// echoes locators back verbatim and never constructs them itself.
//
// # Connecting
//
// Connect performs the discovery handshake immediately:
//
//	c, err := cdev.Connect(ctx, "localhost", 57772, "_SYSTEM", "SYS")
//	if err != nil {
//	    log.Fatal(err) // *ConnectionError or *ProtocolError
//	}
//
// # Working with files
//
// Files from a namespace listing carry no content; fetch one individually
// to hydrate it, mutate it, and put it back:
//
//	files, _ := c.Files(ctx, ns)
//	f, _ := c.GetFile(ctx, files[0])
//	f.SetContent(newSource)
//	op, err := c.PutFile(ctx, *f)
//
// Creating and compiling:
//
//	op, _ := c.AddFile(ctx, ns, "Demo.Loan.cls", source)
//	compiled, _ := c.CompileFile(ctx, *op.File, "")
//	artifacts, _ := c.GeneratedFiles(ctx, *compiled.File)
//
// # Operation results are data, not errors
//
// A server-side failure (a class that does not compile, malformed XML) is
// reported on the operation wrapper, never as a Go error:
//
//	op, err := c.CompileFile(ctx, f, "")
//	if err != nil {
//	    // transport or protocol problem — the exchange itself failed
//	}
//	if !op.Success {
//	    // the server rejected the operation; op.Errors holds its payload
//	}
//
// # Queries
//
//	op, _ := c.AddQuery(ctx, ns, "SELECT Name FROM Sample.Person")
//	result, _ := c.ExecuteQuery(ctx, *op.Query)
//	plan, _ := c.QueryPlan(ctx, *op.Query)
//
// # Optional fields
//
// Fields the server may omit are pointers: nil means the server did not
// send the field, which is different from present-and-empty. Code that
// cares whether a file has been hydrated checks f.Content != nil, not
// whether the string is empty.
package cdev
