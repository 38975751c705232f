package ws

import "github.com/radieske/hr-prediction-board/internal/predictions-service/dto"

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: date | search | sort | page | pageSize | ping
type ClientMsg struct {
	Type     string `json:"type"`
	Date     string `json:"date,omitempty"`     // date
	Search   string `json:"search,omitempty"`   // search (vazio limpa a busca)
	Column   string `json:"column,omitempty"`   // sort: clique no cabeçalho
	Page     int    `json:"page,omitempty"`     // page
	PageSize int    `json:"pageSize,omitempty"` // pageSize
}

// ServerMsg é enviada ao cliente: page | error | pong
type ServerMsg struct {
	Type  string    `json:"type"`
	Page  *dto.Page `json:"page,omitempty"`
	Error string    `json:"error,omitempty"`
}
