// Package css validates user supplied stylesheets before they are merged
// into generated print HTML. Parsing goes through a real CSS tokenizer so
// that only structurally valid rules survive; everything else is dropped
// with a warning instead of leaking into the output document.
package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Declaration is a single property: value pair.
type Declaration struct {
	Property string
	Value    string
}

// Rule is a ruleset with one or more selectors.
type Rule struct {
	Selectors    []string
	Declarations []Declaration
}

// AtBlock is a conditional block we allow through: @media and @page.
// @page carries declarations directly in the block, @media nests rulesets.
type AtBlock struct {
	Name         string // "@media" or "@page"
	Condition    string // raw condition text, may be empty for @page
	Rules        []Rule
	Declarations []Declaration
}

// Item preserves source order between plain rules and at-blocks.
type Item struct {
	Rule    *Rule
	AtBlock *AtBlock
}

// Stylesheet is the surviving, re-serializable subset of the input.
type Stylesheet struct {
	Items    []Item
	Warnings []string
}

// allowedAtRules are the conditional blocks meaningful in a print
// stylesheet. Everything else (@import above all) is rejected.
var allowedAtRules = map[string]bool{
	"@media": true,
	"@page":  true,
}

// Parser parses and filters user CSS.
type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css")}
}

// Parse tokenizes the stylesheet and keeps only plain rulesets and
// @media/@page blocks. It never fails; malformed trailing input simply ends
// the sheet.
func (p *Parser) Parse(data []byte) *Stylesheet {
	sheet := &Stylesheet{}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	var (
		selectors []string
		current   *AtBlock
	)
	for {
		gt, _, gdata := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("CSS parse stopped", zap.Error(err))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			name := string(gdata)
			if !allowedAtRules[name] {
				sheet.Warnings = append(sheet.Warnings, "dropped unsupported at-rule "+name)
				p.skipBlock(parser)
				continue
			}
			current = &AtBlock{Name: name, Condition: joinTokens(parser.Values())}

		case css.EndAtRuleGrammar:
			if current != nil {
				sheet.Items = append(sheet.Items, Item{AtBlock: current})
				current = nil
			}

		case css.AtRuleGrammar:
			// blockless at-rules like @import and @charset
			sheet.Warnings = append(sheet.Warnings, "dropped at-rule "+string(gdata))

		case css.DeclarationGrammar:
			if current != nil {
				current.Declarations = append(current.Declarations, Declaration{
					Property: string(gdata),
					Value:    joinTokens(parser.Values()),
				})
			}

		case css.QualifiedRuleGrammar:
			selectors = append(selectors, joinTokens(parser.Values()))

		case css.BeginRulesetGrammar:
			selectors = append(selectors, joinTokens(parser.Values()))
			rule := p.readDeclarations(parser, selectors, sheet)
			selectors = nil
			if rule == nil {
				continue
			}
			if current != nil {
				current.Rules = append(current.Rules, *rule)
			} else {
				sheet.Items = append(sheet.Items, Item{Rule: rule})
			}
		}
	}
}

// readDeclarations consumes everything up to the matching EndRulesetGrammar.
func (p *Parser) readDeclarations(parser *css.Parser, selectors []string, sheet *Stylesheet) *Rule {
	rule := &Rule{Selectors: selectors}
	for {
		gt, _, gdata := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			if len(rule.Declarations) == 0 {
				return nil
			}
			return rule
		case css.DeclarationGrammar:
			rule.Declarations = append(rule.Declarations, Declaration{
				Property: string(gdata),
				Value:    joinTokens(parser.Values()),
			})
		case css.CustomPropertyGrammar:
			sheet.Warnings = append(sheet.Warnings, "dropped custom property "+string(gdata))
		}
	}
}

// skipBlock consumes a rejected at-rule block including nested blocks.
func (p *Parser) skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// joinTokens reassembles token data, collapsing whitespace runs to single
// spaces.
func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	space := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			space = b.Len() > 0
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

// String re-serializes the surviving stylesheet.
func (s *Stylesheet) String() string {
	var b strings.Builder
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			writeRule(&b, *item.Rule, "")
		case item.AtBlock != nil:
			b.WriteString(item.AtBlock.Name)
			if item.AtBlock.Condition != "" {
				b.WriteString(" " + item.AtBlock.Condition)
			}
			b.WriteString(" {\n")
			for _, d := range item.AtBlock.Declarations {
				b.WriteString("  " + d.Property + ": " + d.Value + ";\n")
			}
			for _, r := range item.AtBlock.Rules {
				writeRule(&b, r, "  ")
			}
			b.WriteString("}\n")
		}
	}
	return b.String()
}

func writeRule(b *strings.Builder, r Rule, indent string) {
	b.WriteString(indent)
	b.WriteString(strings.Join(r.Selectors, ", "))
	b.WriteString(" {\n")
	for _, d := range r.Declarations {
		b.WriteString(indent + "  " + d.Property + ": " + d.Value + ";\n")
	}
	b.WriteString(indent + "}\n")
}

// Sanitize is the one-call form: parse, filter and re-serialize user CSS,
// returning the safe text plus whatever was dropped along the way.
func (p *Parser) Sanitize(data []byte) (string, []string) {
	sheet := p.Parse(data)
	return sheet.String(), sheet.Warnings
}
