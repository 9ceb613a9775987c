package domain

type PropertyType string

const (
	PropertyTitle    PropertyType = "title"
	PropertySelect   PropertyType = "select"
	PropertyDate     PropertyType = "date"
	PropertyNumber   PropertyType = "number"
	PropertyRichText PropertyType = "rich_text"
)

type Property struct {
	Name string
	Type PropertyType
}

// DatabaseSchema describes the destination collection as reported by the API.
type DatabaseSchema struct {
	ID         string
	Properties []Property
}

// DestinationSchema maps canonical field roles to actual destination property names.
// Currency is empty when the destination has no usable currency select.
type DestinationSchema struct {
	Title      string
	Currency   string
	Updated    string
	AUDPerUnit string
	PerAUD     string
}

type Value struct {
	Type   PropertyType
	Text   string
	Number float64
}

// Payload is keyed by destination property names.
type Payload map[string]Value

type Condition struct {
	Property string
	Type     PropertyType
	Equals   string
}

// RowQuery is a conjunction of equality conditions.
type RowQuery []Condition

type Row struct {
	ID string
}
