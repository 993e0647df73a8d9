package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/openenc/internal/config"
	"github.com/standardbeagle/openenc/internal/encoding"
	"github.com/standardbeagle/openenc/internal/version"
	"github.com/standardbeagle/openenc/pkg/binary"
	"github.com/standardbeagle/openenc/pkg/id"
	"github.com/standardbeagle/openenc/pkg/iri"
)

type InfoParams struct {
	Tool string `json:"tool,omitempty"`
}

type EncodeParams struct {
	Text string `json:"text,omitempty"`
	Hex  string `json:"hex,omitempty"`
}

type DecodeParams struct {
	Encoded string `json:"encoded"`
}

type UUIDCompactParams struct {
	UUID string `json:"uuid"`
}

type UUIDParseParams struct {
	Value string `json:"value"`
}

type UUIDNameParams struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	Hash      string `json:"hash,omitempty"`
}

type PercentEncodeParams struct {
	Text string `json:"text"`
}

// UUIDView is every representation of one UUID.
type UUIDView struct {
	Compact         string `json:"compact"`
	Canonical       string `json:"canonical"`
	URN             string `json:"urn"`
	Formatted       string `json:"formatted"`
	Version         int    `json:"version"`
	StandardVariant bool   `json:"standard_variant"`
	SourceURI       string `json:"source_uri,omitempty"`
}

func (s *Server) view(i id.ID) UUIDView {
	u := i.UUID()
	return UUIDView{
		Compact:         i.String(),
		Canonical:       u.String(),
		URN:             i.URI(),
		Formatted:       s.cfg.FormatUUID(u),
		Version:         int(u.Version()),
		StandardVariant: id.IsStandardVariant(u),
		SourceURI:       i.SourceURI(),
	}
}

// toolHelp backs the info tool and its "did you mean" suggestions.
var toolHelp = map[string]string{
	"base64url_encode": `{"text": "foo"} -> {"encoded": "Zm9v", "length": 4}. Use "hex" instead of "text" for raw bytes.`,
	"base64url_decode": `{"encoded": "Zm9v"} -> {"hex": "666F6F", "text": "foo", "valid_utf8": true, "length": 3}`,
	"uuid_compact":     `{"uuid": "03d73148-e422-4c57-a25b-bd4be247ef33"} -> {"compact": "A9cxSOQiTFeJbvUviR-8z", "length": 21}`,
	"uuid_parse":       `{"value": "A9cxSOQiTFeJbvUviR-8z"} -> compact, canonical, urn and version. URIs other than urn:uuid: map to name-based UUIDs.`,
	"uuid_name":        `{"name": "http://www.example.com/"} -> fcde3c85-2270-590f-9e7c-ee003d65e0e2 (URL namespace, sha1)`,
	"percent_encode":   `{"text": "a b/ü"} -> {"encoded": "a%20b%2Fü"}`,
	"percent_decode":   `{"encoded": "a+b%2F%C3%BC"} -> {"text": "a b/ü"}`,
	"info":             `{"tool": "uuid_name"} describes one tool; {"tool": "version"} reports the build.`,
}

func toolNames() []string {
	names := make([]string, 0, len(toolHelp))
	for name := range toolHelp {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) handleInfo(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params InfoParams
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return createErrorResponse("info", fmt.Errorf("invalid parameters: %w", err))
		}
	}

	tool := strings.ToLower(strings.TrimSpace(params.Tool))
	switch tool {
	case "":
		return createJSONResponse(map[string]interface{}{
			"server_name": "openenc",
			"tools":       toolNames(),
			"uuid_format": s.cfg.UUID.Format,
			"uuid_hash":   s.cfg.UUID.Hash,
		})
	case "version":
		return createJSONResponse(map[string]interface{}{
			"server_version": version.FullInfo(),
			"build_id":       version.BuildID(),
			"go_version":     runtime.Version(),
			"platform":       runtime.GOOS + "/" + runtime.GOARCH,
		})
	}

	help, ok := toolHelp[tool]
	if !ok {
		suggestion, _ := config.Suggest(tool, toolNames())
		return createSuggestionErrorResponse("info", fmt.Errorf("unknown tool '%s'", params.Tool), suggestion)
	}
	return createJSONResponse(map[string]interface{}{
		"tool":    tool,
		"example": help,
	})
}

func (s *Server) handleBase64Encode(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("base64url_encode", func() (*mcp.CallToolResult, error) {
		var params EncodeParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}

		var data []byte
		switch {
		case params.Text != "" && params.Hex != "":
			return nil, errors.New("give either 'text' or 'hex', not both")
		case params.Hex != "":
			b, err := encoding.DecodeHex(params.Hex)
			if err != nil {
				return nil, err
			}
			data = b
		default:
			data = []byte(params.Text)
		}

		encoded := binary.Encode(data)
		return createJSONResponse(map[string]interface{}{
			"encoded": encoded,
			"length":  len(encoded),
		})
	})
}

func (s *Server) handleBase64Decode(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("base64url_decode", func() (*mcp.CallToolResult, error) {
		var params DecodeParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}

		data, err := binary.Decode(params.Encoded)
		if err != nil {
			return nil, err
		}

		result := map[string]interface{}{
			"hex":        encoding.EncodeHex(data),
			"length":     len(data),
			"valid_utf8": utf8.Valid(data),
		}
		if utf8.Valid(data) {
			result["text"] = string(data)
		}
		return createJSONResponse(result)
	})
}

func (s *Server) handleUUIDCompact(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("uuid_compact", func() (*mcp.CallToolResult, error) {
		var params UUIDCompactParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}

		i, err := id.ParseAny(params.UUID)
		if err != nil {
			return nil, err
		}
		compact := i.String()
		return createJSONResponse(map[string]interface{}{
			"compact":          compact,
			"length":           len(compact),
			"standard_variant": id.IsStandardVariant(i.UUID()),
		})
	})
}

func (s *Server) handleUUIDParse(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("uuid_parse", func() (*mcp.CallToolResult, error) {
		var params UUIDParseParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}

		i, err := id.ParseAny(params.Value)
		if err != nil {
			return nil, err
		}
		return createJSONResponse(s.view(i))
	})
}

func (s *Server) handleUUIDName(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params UUIDNameParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("uuid_name", fmt.Errorf("invalid parameters: %w", err))
	}

	hashName := s.cfg.UUID.Hash
	if params.Hash != "" {
		hashName = strings.ToLower(params.Hash)
	}
	hash, ok := config.Hashes[hashName]
	if !ok {
		suggestion, _ := config.Suggest(hashName, config.HashNames())
		return createSuggestionErrorResponse("uuid_name", fmt.Errorf("unknown hash '%s'", params.Hash), suggestion)
	}

	return s.recoverFromPanic("uuid_name", func() (*mcp.CallToolResult, error) {
		namespace := s.cfg.NamespaceUUID()
		if params.Namespace != "" {
			ns, err := id.ParseAny(params.Namespace)
			if err != nil {
				return nil, fmt.Errorf("namespace: %w", err)
			}
			namespace = ns.UUID()
		}

		u, err := id.Generator{Hash: hash}.New(namespace, id.NameString(params.Name))
		if err != nil {
			return nil, err
		}
		return createJSONResponse(s.view(id.New(u)))
	})
}

func (s *Server) handlePercentEncode(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("percent_encode", func() (*mcp.CallToolResult, error) {
		var params PercentEncodeParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}

		encoded, err := iri.Encode(params.Text)
		if err != nil {
			return nil, err
		}
		return createJSONResponse(map[string]interface{}{"encoded": encoded})
	})
}

func (s *Server) handlePercentDecode(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("percent_decode", func() (*mcp.CallToolResult, error) {
		var params DecodeParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}

		return createJSONResponse(map[string]interface{}{
			"text": iri.Decode(params.Encoded),
		})
	})
}
