package secret

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const refPrefix = "secretref:"

// Resolver resolves secret references using registered providers.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a resolver over providers. With none given it uses
// EnvProvider and FileProvider.
func NewResolver(providers ...Provider) *Resolver {
	if len(providers) == 0 {
		providers = []Provider{EnvProvider{}, FileProvider{}}
	}
	r := &Resolver{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// Resolve expands environment variables in value and then substitutes any
// secret references.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}
	if name, ref, ok := ParseRef(expanded); ok {
		return r.resolveOne(ctx, name, ref)
	}
	return r.resolveInline(ctx, expanded)
}

// ResolveAll resolves each non-empty target in place. The first failure
// is returned and leaves later targets untouched.
func (r *Resolver) ResolveAll(ctx context.Context, targets ...*string) error {
	for _, t := range targets {
		if t == nil || *t == "" {
			continue
		}
		v, err := r.Resolve(ctx, *t)
		if err != nil {
			return err
		}
		*t = v
	}
	return nil
}

// ParseRef parses a whole-value reference of the form
// secretref:<provider>:<ref>.
func ParseRef(value string) (provider, ref string, ok bool) {
	rest, found := strings.CutPrefix(value, refPrefix)
	if !found {
		return "", "", false
	}
	provider, ref, found = strings.Cut(rest, ":")
	if !found || provider == "" || ref == "" {
		return "", "", false
	}
	return provider, ref, true
}

func (r *Resolver) resolveOne(ctx context.Context, name, ref string) (string, error) {
	p, ok := r.providers[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	v, err := p.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%w: %s:%s", ErrEmptySecret, name, ref)
	}
	return v, nil
}

var inlineRefPattern = regexp.MustCompile(`secretref:([^:\s]+):(\S+)`)

func (r *Resolver) resolveInline(ctx context.Context, value string) (string, error) {
	matches := inlineRefPattern.FindAllStringSubmatchIndex(value, -1)
	out := value
	// Replace back to front so earlier indexes stay valid.
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		v, err := r.resolveOne(ctx, out[m[2]:m[3]], out[m[4]:m[5]])
		if err != nil {
			return "", err
		}
		out = out[:m[0]] + v + out[m[1]:]
	}
	return out, nil
}
