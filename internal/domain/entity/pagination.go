package entity

// Pagination estado de paginación tal como lo reporta el API de inventario.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	HasNext     bool
}
