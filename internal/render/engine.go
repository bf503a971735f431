// Package render turns structured query results into the plain-text
// blocks returned on the MCP channel. Renderers never fetch; they only
// accept data the façade already assembled.
package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/blechwerk/oseon-mcp/internal/orders"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Engine renders the text templates.
type Engine struct {
	templates *template.Template
	printer   *message.Printer
}

// NewEngine parses templates at build time.
func NewEngine() (*Engine, error) {
	printer := message.NewPrinter(language.English)
	funcMap := template.FuncMap{
		"money": func(d decimal.Decimal) string {
			value, _ := d.Float64()
			return printer.Sprintf("EUR %.2f", value)
		},
		"orDefault": func(s, fallback string) string {
			if s == "" {
				return fallback
			}
			return s
		},
		"statusContext": statusContext,
		"prodStatus":    productionStatus,
		"category":      orders.StatusCategory,
		"rule": func(n int) string {
			return strings.Repeat("=", n)
		},
		"line": func(n int) string {
			return strings.Repeat("-", n)
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(templates, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl, printer: printer}, nil
}

// Render executes a named template and returns the text.
func (e *Engine) Render(name string, data any) (string, error) {
	if e == nil {
		return "", fmt.Errorf("template engine not initialised")
	}
	var sb strings.Builder
	if err := e.templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// statusContext appends the business meaning of a status bucket.
func statusContext(status string) string {
	switch orders.StatusCategory(status) {
	case "NEWEST":
		return " (NEWEST - Pre-production)"
	case "RELEASED":
		return " (RELEASED - In production)"
	case "COMPLETED":
		return " (COMPLETED - Delivered/Invoiced)"
	default:
		return ""
	}
}

// productionStatus renders an integer status code with its label.
func productionStatus(code int) string {
	if label := orders.ProductionStatusLabel(code); label != "" {
		return fmt.Sprintf("%d (%s)", code, label)
	}
	return fmt.Sprintf("%d", code)
}
