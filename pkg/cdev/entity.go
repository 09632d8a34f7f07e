package cdev

import "encoding/json"

// Namespace is a server-side logical database containing source files, XML
// export documents, and SQL queries. The Files, XML, and Queries fields are
// locators: opaque paths issued by the server that are echoed back verbatim
// to address the corresponding sub-collection.
type Namespace struct {
	ID      string `json:"id"`
	Name    string `json:"name"` // human-readable, uppercase
	Files   string `json:"files"`
	XML     string `json:"xml"`
	Queries string `json:"queries"`
}

func (n *Namespace) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      *string `json:"id"`
		Name    *string `json:"name"`
		Files   *string `json:"files"`
		XML     *string `json:"xml"`
		Queries *string `json:"queries"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.ID == nil:
		return &DecodeError{Entity: "namespace", Field: "id"}
	case raw.Name == nil:
		return &DecodeError{Entity: "namespace", Field: "name"}
	case raw.Files == nil:
		return &DecodeError{Entity: "namespace", Field: "files"}
	case raw.XML == nil:
		return &DecodeError{Entity: "namespace", Field: "xml"}
	case raw.Queries == nil:
		return &DecodeError{Entity: "namespace", Field: "queries"}
	}
	n.ID, n.Name = *raw.ID, *raw.Name
	n.Files, n.XML, n.Queries = *raw.Files, *raw.XML, *raw.Queries
	return nil
}

// File is a source file in a namespace: a class, a routine, or a generated
// artifact, distinguished by the extension of Name.
//
// Pointer fields are optional and nil means "not present on the server
// object", which is distinct from present-and-empty. Content is nil on files
// that came from a namespace listing; it is populated by an individual fetch
// or by a successful create. GeneratedFiles appears after compilation.
type File struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"` // case-sensitive
	Content        *string `json:"content,omitempty"`
	GeneratedFiles *string `json:"generatedfiles,omitempty"`
	URL            *string `json:"url,omitempty"`
	XML            *string `json:"xml,omitempty"`
}

// SetContent replaces the file's content prior to an update.
func (f *File) SetContent(content string) {
	f.Content = &content
}

func (f *File) UnmarshalJSON(data []byte) error {
	type alias File
	var raw struct {
		alias
		ID   *string `json:"id"`
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == nil {
		return &DecodeError{Entity: "file", Field: "id"}
	}
	if raw.Name == nil {
		return &DecodeError{Entity: "file", Field: "name"}
	}
	*f = File(raw.alias)
	f.ID, f.Name = *raw.ID, *raw.Name
	return nil
}

// XMLDocument is the XML export/import representation of a single File.
type XMLDocument struct {
	ID      string  `json:"id"`
	Content *string `json:"content,omitempty"`
}

func (x *XMLDocument) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      *string `json:"id"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == nil {
		return &DecodeError{Entity: "xml document", Field: "id"}
	}
	x.ID, x.Content = *raw.ID, raw.Content
	return nil
}

// Query is a server-side SQL query. Plan is the locator of its query plan.
type Query struct {
	ID      string  `json:"id"`
	Content *string `json:"content,omitempty"` // the SQL text
	Plan    string  `json:"plan"`
	Cached  bool    `json:"cached"`
}

func (q *Query) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      *string `json:"id"`
		Content *string `json:"content"`
		Plan    *string `json:"plan"`
		Cached  *bool   `json:"cached"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.ID == nil:
		return &DecodeError{Entity: "query", Field: "id"}
	case raw.Plan == nil:
		return &DecodeError{Entity: "query", Field: "plan"}
	case raw.Cached == nil:
		return &DecodeError{Entity: "query", Field: "cached"}
	}
	q.ID, q.Content, q.Plan, q.Cached = *raw.ID, raw.Content, *raw.Plan, *raw.Cached
	return nil
}

// FileOperation is the outcome of one mutating file call. Errors is the
// server's error payload, carried verbatim, and is only present when
// Success is false. A false Success is data for the caller to branch on,
// never an error return.
type FileOperation struct {
	Success bool
	Errors  json.RawMessage
	File    *File
}

func (op *FileOperation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Success *bool           `json:"success"`
		Errors  json.RawMessage `json:"errors"`
		File    *File           `json:"file"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Success == nil {
		return &DecodeError{Entity: "file operation", Field: "success"}
	}
	op.Success, op.Errors, op.File = *raw.Success, raw.Errors, raw.File
	return nil
}

// XMLOperation is the outcome of one XML call. The server ties every XML
// document to exactly one File, so a successful operation usually carries
// both the document and its file.
type XMLOperation struct {
	Success bool
	Errors  json.RawMessage
	XML     *XMLDocument
	File    *File
}

func (op *XMLOperation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Success *bool           `json:"success"`
		Errors  json.RawMessage `json:"errors"`
		XML     *XMLDocument    `json:"xml"`
		File    *File           `json:"file"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Success == nil {
		return &DecodeError{Entity: "xml operation", Field: "success"}
	}
	op.Success, op.Errors = *raw.Success, raw.Errors
	op.XML, op.File = raw.XML, raw.File
	return nil
}

// QueryOperation is the outcome of one query call. ResultSet is present
// after an execute and is carried verbatim.
type QueryOperation struct {
	Success   bool
	Errors    json.RawMessage
	ResultSet json.RawMessage
	Query     *Query
}

func (op *QueryOperation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Success   *bool           `json:"success"`
		Errors    json.RawMessage `json:"errors"`
		ResultSet json.RawMessage `json:"resultset"`
		Query     *Query          `json:"query"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Success == nil {
		return &DecodeError{Entity: "query operation", Field: "success"}
	}
	op.Success, op.Errors = *raw.Success, raw.Errors
	op.ResultSet, op.Query = raw.ResultSet, raw.Query
	return nil
}
