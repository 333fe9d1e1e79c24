// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package skills

import (
	"regexp"
	"sort"
	"strings"
)

var invocationRe = regexp.MustCompile(`^(\w+)\(([^)]*)\)`)

// Invocation is one skill call with its parameters.
type Invocation struct {
	Name   string
	Params map[string]string
}

// ParseInvocation reads "@skill" or "@skill(key=value, key2=value2)".
// Pairs without "=" are ignored. Params is never nil.
func ParseInvocation(text string) Invocation {
	text = strings.TrimLeft(strings.TrimSpace(text), "@")
	inv := Invocation{Name: text, Params: map[string]string{}}

	m := invocationRe.FindStringSubmatch(text)
	if m == nil {
		return inv
	}
	inv.Name = m[1]
	for _, pair := range strings.Split(m[2], ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		inv.Params[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return inv
}

// Chain is a sequence of invocations run in order.
type Chain struct {
	Invocations []Invocation
}

// ParseChain reads "@a | @b(x=1)". Empty segments are dropped.
func ParseChain(text string) Chain {
	var c Chain
	for _, part := range strings.Split(text, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c.Invocations = append(c.Invocations, ParseInvocation(part))
	}
	return c
}

// DisplayName renders the chain as "@a | @b".
func (c Chain) DisplayName() string {
	names := make([]string, len(c.Invocations))
	for i, inv := range c.Invocations {
		names[i] = "@" + inv.Name
	}
	return strings.Join(names, " | ")
}

// IsSingle reports whether the chain holds exactly one invocation.
func (c Chain) IsSingle() bool {
	return len(c.Invocations) == 1
}

// sortedKeys returns the keys of params in lexical order.
func sortedKeys(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
