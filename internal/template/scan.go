package template

import (
	"fmt"
	"os"
	"strings"
)

// UndefinedError is the TemplateVarUndefined error kind from spec §4.3: a
// token had no accumulated value, no environment value, and no literal
// default.
type UndefinedError struct {
	Path string
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("%s: template variable %q is undefined", e.Path, e.Name)
}

// Getenv abstracts process environment lookup so tests do not depend on
// the real environment.
type Getenv func(name string) (string, bool)

// OSGetenv is the default Getenv backed by os.LookupEnv.
func OSGetenv(name string) (string, bool) {
	return os.LookupEnv(name)
}

// ResolveVarValue resolves the ${NAME} / ${NAME:-default} references inside
// a template_vars value against the process environment, per spec §4.3:
// "Values themselves may contain ${…} references that resolve against
// process environment variables with the same :- default syntax at the
// time templating runs."
func ResolveVarValue(raw string, getenv Getenv) (string, error) {
	return substitute(raw, "", func(name string) (string, bool) {
		return getenv(name)
	})
}

// Substitute resolves every ${NAME} / ${NAME:-default} token in content
// against ctx, falling back to the process environment, then to a literal
// default embedded in the token. path is used only for error reporting.
func Substitute(content, path string, ctx *Context, getenv Getenv) (string, error) {
	return substitute(content, path, func(name string) (string, bool) {
		if v, ok := ctx.Lookup(name); ok {
			return v, true
		}
		return getenv(name)
	})
}

// substitute is the shared token scanner. resolve is called with each bare
// variable name and must return the resolved value and whether one was
// found (ignoring any literal default carried in the token).
func substitute(content, path string, resolve func(name string) (string, bool)) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(content) {
		start := strings.Index(content[i:], "${")
		if start < 0 {
			out.WriteString(content[i:])
			break
		}
		start += i
		out.WriteString(content[i:start])

		end := strings.IndexByte(content[start+2:], '}')
		if end < 0 {
			// Unterminated token: emit literally.
			out.WriteString(content[start:])
			break
		}
		end += start + 2

		token := content[start+2 : end]
		name, def, hasDefault := splitDefault(token)

		if v, ok := resolve(name); ok {
			out.WriteString(v)
		} else if hasDefault {
			out.WriteString(def)
		} else {
			return "", &UndefinedError{Path: path, Name: name}
		}

		i = end + 1
	}

	return out.String(), nil
}

func splitDefault(token string) (name, def string, hasDefault bool) {
	idx := strings.Index(token, ":-")
	if idx < 0 {
		return token, "", false
	}
	return token[:idx], token[idx+2:], true
}
