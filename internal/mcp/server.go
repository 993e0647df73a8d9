package mcp

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/openenc/internal/config"
	"github.com/standardbeagle/openenc/internal/version"
)

// Server exposes the codecs as MCP tools.
type Server struct {
	server           *mcp.Server
	cfg              *config.Config
	diagnosticLogger *DiagnosticLogger
}

// NewServer builds a server with every tool registered. cfg must be
// validated; nil means config.Default().
func NewServer(cfg *config.Config) (*Server, error) {
	return newServer(cfg, NewDiagnosticLogger(true))
}

func newServer(cfg *config.Config, dl *DiagnosticLogger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
		if err := config.ValidateConfig(cfg); err != nil {
			return nil, err
		}
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "openenc-mcp-server",
			Version: version.Version,
		}, nil),
		cfg:              cfg,
		diagnosticLogger: dl,
	}
	s.registerTools()
	dl.Printf("MCP server initialized (uuid format %s, hash %s)", cfg.UUID.Format, cfg.UUID.Hash)
	return s, nil
}

func stringProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "info",
		Description: "Describe the openenc tools. Use 'info' for an overview, 'info <tool>' for one tool, 'info version' for build details.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"tool": stringProp("Tool name to describe, or 'version'"),
			},
		},
	}, s.handleInfo)

	s.server.AddTool(&mcp.Tool{
		Name:        "base64url_encode",
		Description: "Encode bytes as padding-free URL-safe base64. Give either 'text' (UTF-8) or 'hex'.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text": stringProp("Text whose UTF-8 bytes are encoded"),
				"hex":  stringProp("Bytes as hex digits, either case"),
			},
		},
	}, s.handleBase64Encode)

	s.server.AddTool(&mcp.Tool{
		Name:        "base64url_decode",
		Description: "Decode padding-free URL-safe base64. Rejects characters outside A-Z a-z 0-9 - _ and non-zero trailing bits.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"encoded": stringProp("Base64url symbols without '=' padding"),
			},
			Required: []string{"encoded"},
		},
	}, s.handleBase64Decode)

	s.server.AddTool(&mcp.Tool{
		Name:        "uuid_compact",
		Description: "Shorten a canonical UUID (or urn:uuid: URI) to 21 base64url characters, or 22 for non-RFC 4122 variants.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"uuid": stringProp("Canonical hyphenated UUID or urn:uuid: URI"),
			},
			Required: []string{"uuid"},
		},
	}, s.handleUUIDCompact)

	s.server.AddTool(&mcp.Tool{
		Name:        "uuid_parse",
		Description: "Parse a UUID in compact (21), full base64url (22) or canonical (36) form, or a URI, and show every representation.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"value": stringProp("UUID text or URI"),
			},
			Required: []string{"value"},
		},
	}, s.handleUUIDParse)

	s.server.AddTool(&mcp.Tool{
		Name:        "uuid_name",
		Description: "Derive a name-based UUID from a namespace and a name: version 5 with sha1, version 3 with md5, a non-standard version-5-stamped UUID with sha256 or sha512.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"name":      stringProp("Name; its UTF-8 bytes are hashed"),
				"namespace": stringProp("Namespace UUID in any accepted form (default from config, the URL namespace)"),
				"hash":      stringProp("Digest: md5, sha1, sha256 or sha512 (default from config, sha1)"),
			},
			Required: []string{"name"},
		},
	}, s.handleUUIDName)

	s.server.AddTool(&mcp.Tool{
		Name:        "percent_encode",
		Description: "Percent-encode text for an IRI or URI. Unreserved IRI characters pass through; everything else becomes %XX UTF-8 escapes.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text": stringProp("Text to encode"),
			},
			Required: []string{"text"},
		},
	}, s.handlePercentEncode)

	s.server.AddTool(&mcp.Tool{
		Name:        "percent_decode",
		Description: "Decode %XX escapes and '+' as space. Malformed input becomes U+FFFD; never fails.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"encoded": stringProp("Percent-encoded text"),
			},
			Required: []string{"encoded"},
		},
	}, s.handlePercentDecode)
}

// recoverFromPanic turns a panicking handler into an error result.
func (s *Server) recoverFromPanic(operation string, handler func() (*mcp.CallToolResult, error)) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.diagnosticLogger.Printf("PANIC RECOVERED in %s: %v\n%s", operation, r, debug.Stack())
			result, err = createErrorResponse(operation, fmt.Errorf("internal error: %v", r))
		}
	}()

	result, err = handler()
	if err != nil {
		s.diagnosticLogger.Printf("Error in %s: %v", operation, err)
		return createErrorResponse(operation, err)
	}
	return result, nil
}

// Start serves on stdio until ctx is done or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	s.diagnosticLogger.Printf("Starting MCP server with stdio transport")
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport runs one session. Cancelling ctx is a normal stop.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	err := s.server.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Shutdown releases the diagnostic log.
func (s *Server) Shutdown(ctx context.Context) error {
	s.diagnosticLogger.Printf("MCP server shutdown complete")
	return s.diagnosticLogger.Close()
}

// LogPath returns where diagnostics are written, if anywhere.
func (s *Server) LogPath() string {
	return s.diagnosticLogger.Path()
}
