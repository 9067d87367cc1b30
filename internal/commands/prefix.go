// internal/commands/prefix.go
package commands

import (
	"sort"
	"strings"

	"github.com/R4F405/discord-jira-bot/internal/parse"
)

// Invocation is a parsed prefix command.
type Invocation struct {
	Command string
	Args    map[string]string
}

type route struct {
	literal string // lower-case, e.g. "!jira pendientes"
	command string
}

// PrefixRouter maps plain chat messages such as "!jira ver ABC-1" onto the
// commands of a group.  Routes are tried most specific first and the first
// match wins.  After every literal route, "<prefix> KEY-1" is accepted as a
// shorthand for the lookup command.
type PrefixRouter struct {
	prefix string
	group  *Group
	lookup string
	routes []route
}

// NewPrefixRouter builds routes for every command in g plus the given
// aliases (alias → command name).  lookup names the command that receives
// bare issue keys; it may be empty to disable the shorthand.
func NewPrefixRouter(prefix string, g *Group, lookup string, aliases map[string]string) *PrefixRouter {
	p := &PrefixRouter{
		prefix: strings.ToLower(strings.TrimSpace(prefix)),
		group:  g,
		lookup: lookup,
	}
	for _, c := range g.Commands() {
		p.routes = append(p.routes, route{literal: p.prefix + " " + c.Name, command: c.Name})
	}
	for alias, target := range aliases {
		if _, ok := g.Lookup(target); !ok {
			continue
		}
		p.routes = append(p.routes, route{literal: p.prefix + " " + strings.ToLower(alias), command: target})
	}
	sort.SliceStable(p.routes, func(i, j int) bool {
		return len(p.routes[i].literal) > len(p.routes[j].literal)
	})
	return p
}

// Match parses content.  It reports false when the message is not
// addressed to the bot or matches no route.
func (p *PrefixRouter) Match(content string) (Invocation, bool) {
	content = strings.TrimSpace(content)
	low := strings.ToLower(content)

	for _, r := range p.routes {
		if low != r.literal && !strings.HasPrefix(low, r.literal+" ") {
			continue
		}
		rest := strings.TrimSpace(content[len(r.literal):])
		cmd, _ := p.group.Lookup(r.command)
		args := map[string]string{}
		if len(cmd.Params) > 0 && rest != "" {
			args[cmd.Params[0].Name] = rest
		}
		return Invocation{Command: cmd.Name, Args: args}, true
	}

	if p.lookup == "" || !strings.HasPrefix(low, p.prefix+" ") {
		return Invocation{}, false
	}
	cmd, ok := p.group.Lookup(p.lookup)
	if !ok || len(cmd.Params) == 0 {
		return Invocation{}, false
	}
	fields := strings.Fields(content[len(p.prefix):])
	if len(fields) == 0 {
		return Invocation{}, false
	}
	if !parse.IsIssueKey(fields[0]) {
		return Invocation{}, false
	}
	key := parse.ExtractIssueKey(fields[0])
	return Invocation{Command: cmd.Name, Args: map[string]string{cmd.Params[0].Name: key}}, true
}
