package server

import (
	"github.com/starford/perthro/internal/index"
	"github.com/starford/perthro/internal/query"
)

type searchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

type backlinksResponse struct {
	Backlinks []string `json:"backlinks" validate:"required"`
}

type cellDTO struct {
	Text string `json:"text" example:"Hunt the Beast" validate:"required"`
	Href string `json:"href,omitempty" example:"/quests/hunt-the-beast"`
}

type queryResponse struct {
	Kind    string      `json:"kind" example:"table" validate:"required"`
	Headers []string    `json:"headers,omitempty"`
	Rows    [][]cellDTO `json:"rows,omitempty"`
	Items   []cellDTO   `json:"items,omitempty"`
}

func toQueryResponse(res query.Result) queryResponse {
	out := queryResponse{Kind: res.Kind.String(), Headers: res.Headers}
	for _, row := range res.Rows {
		out.Rows = append(out.Rows, toCells(row))
	}
	out.Items = toCells(res.Items)
	return out
}

func toCells(cells []query.Cell) []cellDTO {
	if len(cells) == 0 {
		return nil
	}
	out := make([]cellDTO, len(cells))
	for i, c := range cells {
		out[i] = cellDTO{Text: c.Text, Href: c.Href}
	}
	return out
}
