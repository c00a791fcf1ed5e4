package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

// Command describes a chat command and the arguments it takes. Args lists
// arguments positionally through Required; a trailing string argument takes
// the rest of the text.
type Command struct {
	Name            string
	Description     string
	Args            *jsonschema.Schema
	Example         string
	RequiresProfile bool
}

// ArgError reports a missing or malformed argument.
type ArgError struct {
	Command string
	Arg     string
	Missing bool
	Reason  string
}

func (e *ArgError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s: missing argument %q", e.Command, e.Arg)
	}
	return fmt.Sprintf("%s: argument %q %s", e.Command, e.Arg, e.Reason)
}

// Usage renders the command with argument placeholders, e.g. "/log_water <мл>".
func (c Command) Usage() string {
	var b strings.Builder
	b.WriteString("/" + c.Name)
	for _, name := range c.argNames() {
		label := name
		if p := c.Args.Properties[name]; p != nil && p.Description != "" {
			label = p.Description
		}
		b.WriteString(" <" + label + ">")
	}
	return b.String()
}

// ParseArgs splits args by whitespace and converts each positional argument
// according to its schema type.
func (c Command) ParseArgs(args string) (map[string]any, error) {
	out := map[string]any{}
	names := c.argNames()
	fields := strings.Fields(args)

	for i, name := range names {
		if i >= len(fields) {
			return nil, &ArgError{Command: c.Name, Arg: name, Missing: true}
		}

		prop := c.Args.Properties[name]
		raw := fields[i]

		switch {
		case prop != nil && prop.Type == "integer":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &ArgError{Command: c.Name, Arg: name, Reason: "is not an integer"}
			}
			if prop.Minimum != nil && float64(n) < *prop.Minimum {
				return nil, &ArgError{Command: c.Name, Arg: name, Reason: fmt.Sprintf("must be at least %v", *prop.Minimum)}
			}
			if prop.Maximum != nil && float64(n) > *prop.Maximum {
				return nil, &ArgError{Command: c.Name, Arg: name, Reason: fmt.Sprintf("must be at most %v", *prop.Maximum)}
			}
			out[name] = n
		case i == len(names)-1:
			out[name] = strings.Join(fields[i:], " ")
		default:
			out[name] = raw
		}
	}

	return out, nil
}

func (c Command) argNames() []string {
	if c.Args == nil {
		return nil
	}
	return c.Args.Required
}
