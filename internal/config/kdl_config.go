package config

import (
	"fmt"
	"log"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// applyKDL layers a KDL document over cfg:
//
//	uuid { format "compact"; namespace "6ba7b811-9dad-11d1-80b4-00c04fd430c8"; hash "sha1" }
//	performance { max_goroutines 4 }
//	output { keep_going true }
func applyKDL(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "version":
			if v, ok := firstIntArg(n); ok {
				cfg.Version = v
			}
		case "uuid":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "format":
					if s, ok := firstStringArg(cn); ok {
						cfg.UUID.Format = s
					}
				case "namespace":
					if s, ok := firstStringArg(cn); ok {
						cfg.UUID.Namespace = s
					}
				case "hash":
					if s, ok := firstStringArg(cn); ok {
						cfg.UUID.Hash = s
					}
				default:
					warnUnknown("uuid", cn)
				}
			}
		case "performance":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_goroutines":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.MaxGoroutines = v
					}
				default:
					warnUnknown("performance", cn)
				}
			}
		case "output":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "keep_going":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Output.KeepGoing = b
					}
				default:
					warnUnknown("output", cn)
				}
			}
		default:
			warnUnknown("", n)
		}
	}
	return nil
}

func warnUnknown(section string, n *document.Node) {
	key := nodeName(n)
	if section != "" {
		key = section + "." + key
	}
	log.Printf("WARNING: unknown key '%s' in KDL config, ignoring", key)
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		log.Printf("WARNING: invalid integer value for '%s' in KDL config, got %T", nodeName(n), v)
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	log.Printf("WARNING: invalid string value for '%s' in KDL config, got %T", nodeName(n), n.Arguments[0].Value)
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	log.Printf("WARNING: invalid boolean value for '%s' in KDL config, got %T", nodeName(n), n.Arguments[0].Value)
	return false, false
}
