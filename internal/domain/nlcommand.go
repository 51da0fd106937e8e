package domain

// NLCommandResponse is the structured result of parsing a free-text food
// log command. Immutable after construction; consumers pair it with the
// original input text when highlighting matched spans.
type NLCommandResponse struct {
	Intent        string     `json:"intent"`
	Entities      NLEntities `json:"entities"`
	MissingFields []string   `json:"missing_fields"`
}

// NLEntities holds the extracted items plus optional meal and date labels.
// Date, when present, is an ISO 8601 calendar date with no time component.
type NLEntities struct {
	Items []NLItem `json:"items"`
	Meal  *string  `json:"meal,omitempty"`
	Date  *string  `json:"date,omitempty"`
}

// NLItem is one food mention extracted from the input text.
type NLItem struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     *string  `json:"unit,omitempty"`
}
