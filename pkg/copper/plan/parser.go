package plan

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// planLexer defines the lexical structure of plan files
var planLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run from # to end of line
	{Name: "Comment", Pattern: `#[^\n]*`},

	// Whitespace
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	// Multi-char punctuation before numbers so "1..75" splits correctly
	{Name: "Arrow", Pattern: `->`},
	{Name: "DotDot", Pattern: `\.\.`},

	// Literals
	{Name: "Float", Pattern: `\d+\.\d+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},

	{Name: "Comma", Pattern: `,`},
})

// Parser parses plan files
type Parser struct {
	parser *participle.Parser[Plan]
}

// NewParser creates a new plan parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Plan](
		participle.Lexer(planLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a plan from a reader
func (p *Parser) Parse(r io.Reader) (*Plan, error) {
	plan, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return plan, nil
}

// ParseString parses a plan from a string
func (p *Parser) ParseString(input string) (*Plan, error) {
	plan, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return plan, nil
}

// ParseFile parses a plan from a file path
func (p *Parser) ParseFile(filename string) (*Plan, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}
