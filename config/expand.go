package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/limitzero/microioc/internal/errs"
)

// environment resolves ${VAR} references. Explicit variables win over env
// files, which win over the process environment.
type environment struct {
	explicit map[string]string
	files    map[string]string
}

func newEnvironment(o *options) (*environment, error) {
	env := &environment{
		explicit: o.env,
		files:    make(map[string]string),
	}

	for _, file := range o.envFiles {
		vars, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				o.logger.Debug("env file not found, skipping", "file", file)
				continue
			}
			return nil, errs.New(errs.CodeInvalidConfiguration, "failed to read env file "+file, err)
		}
		for k, v := range vars {
			if _, seen := env.files[k]; !seen {
				env.files[k] = v
			}
		}
		o.logger.Debug("read env file", "file", file, "variables", len(vars))
	}

	return env, nil
}

func (e *environment) lookup(name string) (string, bool) {
	if v, ok := e.explicit[name]; ok {
		return v, true
	}
	if v, ok := e.files[name]; ok {
		return v, true
	}
	return os.LookupEnv(name)
}

// expand substitutes ${VAR}, $VAR and ${VAR:-default}. $$ stands for a
// literal $, and a $ not followed by a name is kept as is. Unset variables
// without a default expand to the empty string.
func (e *environment) expand(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}

		switch next := s[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end == -1 {
				b.WriteString(s[i:])
				return b.String()
			}
			b.WriteString(e.reference(s[i+2 : i+2+end]))
			i += end + 2
		case isNameStart(next):
			j := i + 2
			for j < len(s) && isNameChar(s[j]) {
				j++
			}
			b.WriteString(e.reference(s[i+1 : j]))
			i = j - 1
		default:
			b.WriteByte('$')
		}
	}
	return b.String()
}

func (e *environment) reference(ref string) string {
	name, fallback, hasDefault := strings.Cut(ref, ":-")
	if v, ok := e.lookup(name); ok && (v != "" || !hasDefault) {
		return v
	}
	return fallback
}

// expandNode rewrites the scalars under n in place. Expansion never changes
// the shape of the document. Untagged plain scalars that changed are resolved
// again, so "${PORT}" can still decode as an integer.
func (e *environment) expandNode(n *yaml.Node) {
	switch n.Kind {
	case yaml.ScalarNode:
		expanded := e.expand(n.Value)
		if expanded == n.Value {
			return
		}
		n.Value = expanded
		if n.Style == 0 {
			n.Tag = ""
		}
	case yaml.SequenceNode:
		for _, child := range n.Content {
			e.expandNode(child)
		}
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			e.expandNode(n.Content[i])
		}
	}
}

func isNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || ('0' <= c && c <= '9')
}
