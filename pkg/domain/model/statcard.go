package model

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Variant is the style selector controlling which severity color class a
// stat card is rendered with
type Variant string

// Known stat card variants
const (
	VariantDefault  Variant = "default"
	VariantCritical Variant = "critical"
	VariantHigh     Variant = "high"
	VariantMedium   Variant = "medium"
)

// variantClasses maps a variant to its color class. Unrecognized variants
// are simply absent, so the lookup yields an empty class instead of an error.
var variantClasses = map[Variant]string{
	VariantDefault:  "stat-card-default",
	VariantCritical: "stat-card-critical",
	VariantHigh:     "stat-card-high",
	VariantMedium:   "stat-card-medium",
}

// ColorClass returns the severity color class for the variant. An
// unrecognized variant returns an empty string and the card renders
// without severity-specific styling.
func (v Variant) ColorClass() string {
	return variantClasses[v]
}

// IsKnown reports whether the variant is one of the enumerated set
func (v Variant) IsKnown() bool {
	_, ok := variantClasses[v]
	return ok
}

// StatCard is the view model for a single labeled numeric statistic.
// It is a pure value with no lifecycle beyond a single render pass.
type StatCard struct {
	Title   string
	Value   int
	Icon    string
	Variant Variant
}

// printer formats integers with locale-aware thousands separators
var printer = message.NewPrinter(language.English)

// FormattedValue returns the card value with thousands separators
// (12000 renders as "12,000")
func (c StatCard) FormattedValue() string {
	return printer.Sprintf("%d", c.Value)
}

// ColorClass returns the color class derived from the card variant
func (c StatCard) ColorClass() string {
	return c.Variant.ColorClass()
}
