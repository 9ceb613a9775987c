package notion

import (
	"sort"

	"ratesync/internal/domain"
)

type databaseResponse struct {
	ID         string                    `json:"id"`
	Properties map[string]propertySchema `json:"properties"`
}

type propertySchema struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// toDomain lists the properties sorted by name so resolution does not depend on map order.
func (r databaseResponse) toDomain(fallbackID string) domain.DatabaseSchema {
	id := r.ID
	if id == "" {
		id = fallbackID
	}
	props := make([]domain.Property, 0, len(r.Properties))
	for key, p := range r.Properties {
		name := p.Name
		if name == "" {
			name = key
		}
		props = append(props, domain.Property{Name: name, Type: domain.PropertyType(p.Type)})
	}
	sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
	return domain.DatabaseSchema{ID: id, Properties: props}
}

type queryRequest struct {
	Filter   map[string]any `json:"filter,omitempty"`
	PageSize int            `json:"page_size"`
}

type queryResponse struct {
	Results []pageObject `json:"results"`
}

type pageObject struct {
	ID string `json:"id"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

type createRequest struct {
	Parent     parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
}

type updateRequest struct {
	Properties map[string]any `json:"properties"`
}

type errorResponse struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type textContent struct {
	Content string `json:"content"`
}

type richText struct {
	Text textContent `json:"text"`
}

func encodeProperties(p domain.Payload) map[string]any {
	out := make(map[string]any, len(p))
	for name, v := range p {
		out[name] = encodeValue(v)
	}
	return out
}

func encodeValue(v domain.Value) map[string]any {
	switch v.Type {
	case domain.PropertyTitle, domain.PropertyRichText:
		return map[string]any{string(v.Type): []richText{{Text: textContent{Content: v.Text}}}}
	case domain.PropertySelect:
		return map[string]any{"select": map[string]string{"name": v.Text}}
	case domain.PropertyDate:
		return map[string]any{"date": map[string]string{"start": v.Text}}
	case domain.PropertyNumber:
		return map[string]any{"number": v.Number}
	default:
		return map[string]any{string(v.Type): v.Text}
	}
}

func encodeCondition(c domain.Condition) map[string]any {
	return map[string]any{
		"property":     c.Property,
		string(c.Type): map[string]string{"equals": c.Equals},
	}
}

func encodeFilter(q domain.RowQuery) map[string]any {
	switch len(q) {
	case 0:
		return nil
	case 1:
		return encodeCondition(q[0])
	}
	and := make([]map[string]any, 0, len(q))
	for _, c := range q {
		and = append(and, encodeCondition(c))
	}
	return map[string]any{"and": and}
}
