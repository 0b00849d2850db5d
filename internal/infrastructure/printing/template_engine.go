package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// TemplateEngine renders html/template sources with formatting helpers
// bound to one display language.
type TemplateEngine struct {
	lang     language.Tag
	printer  *message.Printer
	location *time.Location
	funcMap  template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLanguage sets the language used for number formatting
func WithLanguage(tag language.Tag) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.lang = tag
	}
}

// WithLocation sets the time zone dates are shown in
func WithLocation(loc *time.Location) TemplateEngineOption {
	return func(e *TemplateEngine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// NewTemplateEngine creates a new template engine. Numbers are formatted
// in English by default.
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{
		lang:     language.English,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.printer = message.NewPrinter(e.lang)

	e.funcMap = template.FuncMap{
		"formatMoney":   e.formatMoney,
		"formatNumber":  e.formatNumber,
		"formatDate":    e.formatDate,
		"formatPercent": e.formatPercent,
		"currencyName":  currencyCode,
		"upper":         strings.ToUpper,
		"trim":          strings.TrimSpace,
		"default":       defaultFunc,
		"inc":           func(i int) int { return i + 1 },
	}
	return e
}

// RenderString renders a template string with the provided data
func (e *TemplateEngine) RenderString(name, content string, data interface{}) (string, error) {
	if content == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}

	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// FuncMap returns a copy of the template function map
func (e *TemplateEngine) FuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// formatMoney formats an amount with two decimals and the ISO currency code.
// Example: (1234.5, "SAR") -> "SAR 1,234.50"
func (e *TemplateEngine) formatMoney(v decimal.Decimal, code string) string {
	amount := e.formatNumber(v)
	if code = currencyCode(code); code == "" {
		return amount
	}
	return code + " " + amount
}

// formatNumber formats with grouping and exactly two decimals
func (e *TemplateEngine) formatNumber(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return e.printer.Sprint(number.Decimal(f, number.Scale(2)))
}

// formatPercent formats a percent value such as a tax rate: 15 -> "15%"
func (e *TemplateEngine) formatPercent(v decimal.Decimal) string {
	return v.Round(2).String() + "%"
}

func (e *TemplateEngine) formatDate(v interface{}) string {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return ""
		}
		t = *x
	default:
		return fmt.Sprint(v)
	}
	if t.IsZero() {
		return ""
	}
	return t.In(e.location).Format("2006-01-02")
}

// currencyCode normalizes an ISO 4217 code. Unknown codes yield "".
func currencyCode(code string) string {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return ""
	}
	return unit.String()
}

func defaultFunc(def, val interface{}) interface{} {
	if s, ok := val.(string); ok && strings.TrimSpace(s) == "" {
		return def
	}
	if val == nil {
		return def
	}
	return val
}
