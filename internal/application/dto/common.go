package dto

import "github.com/invorya/vendor-console/internal/domain/entity"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// PaginationResponse metadatos de paginación en respuestas.
type PaginationResponse struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
}

// ToPagination convierte la paginación de dominio a respuesta.
func ToPagination(p entity.Pagination) PaginationResponse {
	return PaginationResponse{CurrentPage: p.CurrentPage, TotalPages: p.TotalPages, HasNext: p.HasNext}
}
