package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// prefixedVariablePattern matches prefixed references like ${env:VAR},
// ${secret:KEY} and ${var:name}. Bare references like ${score} are left
// untouched: those belong to condition expressions and are resolved against
// the node's input payload at run time, not at parse time.
var prefixedVariablePattern = regexp.MustCompile(`\$\{(env|secret|var):([^}]+)\}`)

// DefaultVariableResolver resolves prefixed variable references from the
// environment, a secrets map and inline variables.
type DefaultVariableResolver struct {
	// Secrets holds secret values (in production, this would be backed by a secure store)
	Secrets map[string]string
	// Variables holds inline variable definitions
	Variables map[string]any
}

// NewDefaultVariableResolver creates a new DefaultVariableResolver.
func NewDefaultVariableResolver() *DefaultVariableResolver {
	return &DefaultVariableResolver{
		Secrets:   make(map[string]string),
		Variables: make(map[string]any),
	}
}

// WithSecrets sets the secrets map.
func (r *DefaultVariableResolver) WithSecrets(secrets map[string]string) *DefaultVariableResolver {
	r.Secrets = secrets
	return r
}

// WithVariables sets the variables map.
func (r *DefaultVariableResolver) WithVariables(variables map[string]any) *DefaultVariableResolver {
	r.Variables = variables
	return r
}

// Resolve resolves a prefixed variable reference.
// Supported formats:
//   - env:VAR_NAME - resolves from environment variables
//   - secret:KEY - resolves from secrets store
//   - var:name - resolves from inline variables
func (r *DefaultVariableResolver) Resolve(ref string) (any, error) {
	parts := strings.SplitN(ref, ":", 2)
	if len(parts) != 2 {
		return nil, NewVariableResolutionError(ref, "invalid variable reference format", nil)
	}

	prefix := strings.ToLower(parts[0])
	key := parts[1]

	switch prefix {
	case "env":
		value, exists := os.LookupEnv(key)
		if !exists {
			return nil, NewVariableResolutionError(ref, fmt.Sprintf("environment variable '%s' not found", key), nil)
		}
		return value, nil

	case "secret":
		value, exists := r.Secrets[key]
		if !exists {
			return nil, NewVariableResolutionError(ref, fmt.Sprintf("secret '%s' not found", key), nil)
		}
		return value, nil

	case "var":
		value, exists := r.Variables[key]
		if !exists {
			return nil, NewVariableResolutionError(ref, fmt.Sprintf("variable '%s' not found", key), nil)
		}
		return value, nil

	default:
		return nil, NewVariableResolutionError(ref, fmt.Sprintf("unknown variable prefix '%s'", prefix), nil)
	}
}

// ResolveString resolves all prefixed variable references in a string.
func (r *DefaultVariableResolver) ResolveString(s string) (string, error) {
	var lastErr error
	result := prefixedVariablePattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract the reference (remove ${ and })
		ref := match[2 : len(match)-1]
		value, err := r.Resolve(ref)
		if err != nil {
			lastErr = err
			return match // Keep original on error
		}
		return fmt.Sprintf("%v", value)
	})

	if lastErr != nil {
		return "", lastErr
	}
	return result, nil
}

// ResolveValue resolves prefixed references in a decoded YAML value,
// recursing into maps and slices. Non-string leaves pass through unchanged.
func (r *DefaultVariableResolver) ResolveValue(v any) (any, error) {
	switch value := v.(type) {
	case string:
		if !HasVariableReferences(value) {
			return value, nil
		}
		return r.ResolveString(value)
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			resolved, err := r.ResolveValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			resolved, err := r.ResolveValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

// HasVariableReferences checks if a string contains prefixed variable references.
func HasVariableReferences(s string) bool {
	return prefixedVariablePattern.MatchString(s)
}

// ExtractVariableReferences extracts all prefixed variable references from a string.
func ExtractVariableReferences(s string) []string {
	matches := prefixedVariablePattern.FindAllStringSubmatch(s, -1)
	refs := make([]string, 0, len(matches))
	for _, match := range matches {
		if len(match) > 2 {
			refs = append(refs, match[1]+":"+match[2])
		}
	}
	return refs
}
