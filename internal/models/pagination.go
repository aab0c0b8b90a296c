package models

// Page décrit une page demandée (1-based).
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// TotalPages arrondit au supérieur ; 0 élément donne 0 page.
func (p Page) TotalPages(total int) int {
	if p.Size <= 0 {
		return 0
	}
	return (total + p.Size - 1) / p.Size
}

// Paginated est l'enveloppe commune des listes.
type Paginated[T any] struct {
	Message     string `json:"message"`
	Data        []T    `json:"data"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	Total       int    `json:"total"`
}

func NewPaginated[T any](message string, data []T, page Page, total int) Paginated[T] {
	if data == nil {
		data = []T{}
	}
	return Paginated[T]{
		Message:     message,
		Data:        data,
		CurrentPage: page.Number,
		TotalPages:  page.TotalPages(total),
		Total:       total,
	}
}
