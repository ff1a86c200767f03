package form

// Summary describes one registered form definition.
type Summary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Steps int    `json:"steps"`
}

type Core interface {
	ListForms() []Summary
}
