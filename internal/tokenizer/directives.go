package tokenizer

import (
	"regexp"
	"strings"
)

var (
	yamlVersionPattern = regexp.MustCompile(`^\d+\.\d+$`)
	tagHandlePattern   = regexp.MustCompile(`^!([A-Za-z0-9-]*!)?$`)
)

// directiveScanner handles "%" directive lines before the first document marker.
//
// Grammar:
//
//	DirectiveLine = "%" DirectiveName DirectiveParameter* Newline ;
//
// Supported directives:
//
//	%YAML 1.2            - YAML version of the next document (1.1 or 1.2)
//	%TAG !e! tag:e.com:  - tag shorthand for the next document
//
// Directives apply to the document that follows them only.
type directiveScanner struct{}

func (directiveScanner) supports(ctx *Context) bool {
	return !ctx.inDocument() && ctx.column() == 0 && ctx.peek() == '%'
}

func (directiveScanner) scan(ctx *Context) error {
	line, _, offset := ctx.position()
	text := ctx.takeLine()

	if i := strings.Index(text, " #"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	ctx.emitAt(Directive, text, line, 0, offset)

	if err := ctx.processDirective(text); err != nil {
		err.Line, err.Column = line, 0
		return err
	}
	return nil
}

// processDirective records a single directive line for the next document.
// The text includes the % prefix and all parameters.
func (c *Context) processDirective(text string) *LexerError {
	parts := strings.Fields(strings.TrimPrefix(text, "%"))
	if len(parts) == 0 {
		return errorf(0, 0, "Invalid directive name ''")
	}

	switch name, params := parts[0], parts[1:]; name {
	case "YAML":
		return c.processYAMLDirective(params)
	case "TAG":
		return c.processTAGDirective(params)
	default:
		return errorf(0, 0, "Invalid directive name '%s'", name)
	}
}

// processYAMLDirective processes the %YAML directive.
// Format: %YAML major.minor
func (c *Context) processYAMLDirective(params []string) *LexerError {
	table := c.pendingDirectives()
	if table.hasVersion {
		return errorf(0, 0, "YAML directive already defined earlier")
	}
	if len(params) == 0 {
		return errorf(0, 0, "Missing directive value for 'YAML' directive")
	}

	version := params[0]
	if !yamlVersionPattern.MatchString(version) {
		return errorf(0, 0, "Invalid YAML directive value '%s'", version)
	}
	if version != "1.1" && version != "1.2" {
		return errorf(0, 0, "Unsupported YAML version '%s'", version)
	}

	table.hasVersion = true
	c.versions[c.document+1] = version
	return nil
}

// processTAGDirective processes the %TAG directive.
// Format: %TAG handle prefix
// Example: %TAG ! tag:example.com,2000:
// Example: %TAG !e! tag:example.com,2000:app/
func (c *Context) processTAGDirective(params []string) *LexerError {
	if len(params) < 2 {
		return errorf(0, 0, "Missing directive value for 'TAG' directive")
	}

	handle, prefix := params[0], params[1]
	if !tagHandlePattern.MatchString(handle) {
		return errorf(0, 0, "Invalid tag handle '%s'", handle)
	}

	table := c.pendingDirectives()
	if _, ok := table.tags[handle]; ok {
		return errorf(0, 0, "TAG directive with handle '%s' already defined earlier", handle)
	}
	table.tags[handle] = prefix
	return nil
}
