// Package extract resolves structural locators against parsed HTML
// fragments and returns best-effort field values.
package extract

// Kind selects how a matched element is turned into a value.
type Kind int

const (
	// KindText extracts the element's stripped text content.
	KindText Kind = iota
	// KindAttribute extracts a named attribute's value.
	KindAttribute
)

// Locator is a structural expression identifying zero-or-one elements
// within a document fragment. Expression is a CSS selector; Attribute is
// only consulted for KindAttribute locators.
type Locator struct {
	Kind       Kind
	Expression string
	Attribute  string
}

// Text builds a text-valued locator.
func Text(expression string) Locator {
	return Locator{Kind: KindText, Expression: expression}
}

// Attribute builds an attribute-valued locator (e.g. a hyperlink's href).
func Attribute(expression, attribute string) Locator {
	return Locator{Kind: KindAttribute, Expression: expression, Attribute: attribute}
}

// Field pairs a logical field name with its locator.
type Field struct {
	Name    string
	Locator Locator
}

// FieldMap is an ordered mapping of field name to locator. Order matters:
// it fixes the column order of persisted batches.
type FieldMap []Field

// Names returns the field names in map order.
func (m FieldMap) Names() []string {
	names := make([]string, len(m))
	for i, f := range m {
		names[i] = f.Name
	}
	return names
}
