package cdev

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// rootPath is the fixed discovery endpoint. Every other path the client
// touches is a locator issued by the server.
const rootPath = "/csp/sys/dev/"

// maxBodyBytes caps response reads; file contents and resultsets are the
// largest bodies this API returns.
const maxBodyBytes = 8 << 20

// Client talks to one server's dev HTTP API. It performs exactly one
// synchronous round trip per method call and carries no mutable state after
// construction, so concurrent calls against distinct resources are safe.
type Client struct {
	host     string
	port     int
	username string
	password string

	httpClient *http.Client
	logger     *zap.Logger

	// namespaces is the root collection locator issued during discovery.
	namespaces string
}

// Option is a functional option for configuring a Client.
type Option func(*Client) error

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.httpClient.Timeout = d
		return nil
	}
}

// WithLogger sets a logger for per-request debug output. Defaults to a nop
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// Connect builds a client for the server at host:port and performs the
// discovery handshake against the fixed root path. Credentials are attached
// to every request as HTTP Basic auth when both are non-empty.
//
// A transport failure reaching the server yields a *ConnectionError; a
// response that does not decode into the discovery document yields a
// *ProtocolError. Either way the client is unusable and nil is returned.
func Connect(ctx context.Context, host string, port int, username, password string, opts ...Option) (*Client, error) {
	c := &Client{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}

	body, err := c.do(ctx, http.MethodGet, rootPath, nil)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	var root struct {
		Namespaces *string `json:"namespaces"`
	}
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, &ProtocolError{Resource: "discovery document", Err: err}
	}
	if root.Namespaces == nil {
		return nil, &ProtocolError{
			Resource: "discovery document",
			Err:      &DecodeError{Entity: "root", Field: "namespaces"},
		}
	}
	c.namespaces = *root.Namespaces

	c.logger.Debug("connected", zap.String("host", host), zap.Int("port", port))
	return c, nil
}

// Namespaces lists the namespaces on the server.
func (c *Client) Namespaces(ctx context.Context) ([]Namespace, error) {
	body, err := c.do(ctx, http.MethodGet, c.namespaces, nil)
	if err != nil {
		return nil, err
	}
	var namespaces []Namespace
	if err := json.Unmarshal(body, &namespaces); err != nil {
		return nil, &ProtocolError{Resource: "namespace list", Err: err}
	}
	return namespaces, nil
}

// Files lists the source files in a namespace. Listed files carry no
// content; hydrate one with GetFile.
func (c *Client) Files(ctx context.Context, ns Namespace) ([]File, error) {
	body, err := c.do(ctx, http.MethodGet, ns.Files, nil)
	if err != nil {
		return nil, err
	}
	var files []File
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, &ProtocolError{Resource: "file list", Err: err}
	}
	return files, nil
}

// GetFile fetches a file individually, populating its content.
func (c *Client) GetFile(ctx context.Context, file File) (*File, error) {
	body, err := c.do(ctx, http.MethodGet, file.ID, nil)
	if err != nil {
		return nil, err
	}
	var fetched File
	if err := json.Unmarshal(body, &fetched); err != nil {
		return nil, &ProtocolError{Resource: "file", Err: err}
	}
	return &fetched, nil
}

// PutFile updates a file in place, typically after mutating its content
// with SetContent.
func (c *Client) PutFile(ctx context.Context, file File) (*FileOperation, error) {
	body, err := c.do(ctx, http.MethodPut, file.ID, file)
	if err != nil {
		return nil, err
	}
	var op FileOperation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, &ProtocolError{Resource: "file operation", Err: err}
	}
	return &op, nil
}

// AddFile creates a file in a namespace. The name's case and extension must
// match the target resource type (a class name must match its file name);
// line endings in content are normalized to the server's CRLF convention
// before the request is sent.
func (c *Client) AddFile(ctx context.Context, ns Namespace, name, content string) (*FileOperation, error) {
	payload := struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}{Name: name, Content: normalizeLineEndings(content)}

	body, err := c.do(ctx, http.MethodPut, ns.Files, payload)
	if err != nil {
		return nil, err
	}
	var op FileOperation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, &ProtocolError{Resource: "file operation", Err: err}
	}
	return &op, nil
}

// CompileFile compiles a file. spec holds compiler flags and compiler
// selection; when empty the server applies its own defaults. On success the
// returned file carries a generatedfiles locator.
func (c *Client) CompileFile(ctx context.Context, file File, spec string) (*FileOperation, error) {
	command := struct {
		Action string `json:"action"`
		Spec   string `json:"spec"`
	}{Action: "compile", Spec: spec}

	body, err := c.do(ctx, http.MethodPost, file.ID, command)
	if err != nil {
		return nil, err
	}
	var op FileOperation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, &ProtocolError{Resource: "file operation", Err: err}
	}
	return &op, nil
}

// GeneratedFiles lists the compilation artifacts of a file. A file with no
// generatedfiles locator has never been compiled; that is an empty list,
// not an error.
func (c *Client) GeneratedFiles(ctx context.Context, file File) ([]File, error) {
	if file.GeneratedFiles == nil {
		return []File{}, nil
	}
	body, err := c.do(ctx, http.MethodGet, *file.GeneratedFiles, nil)
	if err != nil {
		return nil, err
	}
	var files []File
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, &ProtocolError{Resource: "generated file list", Err: err}
	}
	return files, nil
}

// GetXML fetches the XML export document of a file. The file must carry an
// xml locator, which listings may omit; hydrate with GetFile first.
func (c *Client) GetXML(ctx context.Context, file File) (*XMLDocument, error) {
	if file.XML == nil {
		return nil, fmt.Errorf("file %q has no xml locator", file.Name)
	}
	body, err := c.do(ctx, http.MethodGet, *file.XML, nil)
	if err != nil {
		return nil, err
	}
	var doc XMLDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ProtocolError{Resource: "xml document", Err: err}
	}
	return &doc, nil
}

// PutXML updates an XML document in place.
func (c *Client) PutXML(ctx context.Context, doc XMLDocument) (*XMLOperation, error) {
	if doc.Content == nil {
		return nil, fmt.Errorf("xml document %q has no content", doc.ID)
	}
	payload := struct {
		Content string `json:"content"`
	}{Content: *doc.Content}

	body, err := c.do(ctx, http.MethodPut, doc.ID, payload)
	if err != nil {
		return nil, err
	}
	var op XMLOperation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, &ProtocolError{Resource: "xml operation", Err: err}
	}
	return &op, nil
}

// AddXML imports an XML export document into a namespace. The server
// resolves it to the File it represents; importing the same document twice
// resolves to the same file name.
func (c *Client) AddXML(ctx context.Context, ns Namespace, content string) (*XMLOperation, error) {
	payload := struct {
		Content string `json:"content"`
	}{Content: content}

	body, err := c.do(ctx, http.MethodPut, ns.XML, payload)
	if err != nil {
		return nil, err
	}
	var op XMLOperation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, &ProtocolError{Resource: "xml operation", Err: err}
	}
	return &op, nil
}

// AddQuery creates a SQL query in a namespace from its text.
func (c *Client) AddQuery(ctx context.Context, ns Namespace, text string) (*QueryOperation, error) {
	payload := struct {
		Content string `json:"content"`
	}{Content: text}

	body, err := c.do(ctx, http.MethodPut, ns.Queries, payload)
	if err != nil {
		return nil, err
	}
	var op QueryOperation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, &ProtocolError{Resource: "query operation", Err: err}
	}
	return &op, nil
}

// ExecuteQuery runs a query on the server. Re-executing simply re-runs it.
// The returned operation carries the resultset.
func (c *Client) ExecuteQuery(ctx context.Context, query Query) (*QueryOperation, error) {
	command := struct {
		Action string `json:"action"`
	}{Action: "execute"}

	body, err := c.do(ctx, http.MethodPost, query.ID, command)
	if err != nil {
		return nil, err
	}
	var op QueryOperation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, &ProtocolError{Resource: "query operation", Err: err}
	}
	return &op, nil
}

// QueryPlan fetches a query's plan and returns the decoded plan document
// verbatim. The plan is a server-shaped JSON document, not an operation
// envelope, so the client does not reinterpret it.
func (c *Client) QueryPlan(ctx context.Context, query Query) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, query.Plan, nil)
	if err != nil {
		return nil, err
	}
	var plan json.RawMessage
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, &ProtocolError{Resource: "query plan", Err: err}
	}
	return plan, nil
}

func (c *Client) urlPrefix() string {
	return fmt.Sprintf("http://%s:%d", c.host, c.port)
}

// do performs one HTTP round trip: absolute URL from the host:port prefix
// plus the server-issued locator, JSON body for PUT/POST, Basic auth when
// both credentials are set. Transport failures and non-2xx statuses come
// back as *TransportError.
func (c *Client) do(ctx context.Context, method, locator string, payload any) ([]byte, error) {
	target := c.urlPrefix() + locator

	var bodyReader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	requestID := uuid.NewString()
	c.logger.Debug("request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("url", target),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug("response",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)

	if resp.StatusCode >= 300 {
		return nil, &TransportError{
			Method: method,
			URL:    target,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

// normalizeLineEndings rewrites content to the CRLF convention the server
// stores. Lone LF and lone CR both become CRLF.
func normalizeLineEndings(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.ReplaceAll(content, "\n", "\r\n")
}
