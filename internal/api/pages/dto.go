package pagesapi

import (
	"encoding/json"

	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"
)

type CreatePageRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
}

type PreviewRequest struct {
	Theme json.RawMessage `json:"theme"`
}

// PageDTO is a page with its blocks in display order.
type PageDTO struct {
	pages.Page
	Blocks []blocks.Block `json:"blocks"`
}

type GetPageResponse struct {
	Page *PageDTO `json:"page"`
}

func toPageDTO(p *pages.Page, list []blocks.Block) *PageDTO {
	if list == nil {
		list = []blocks.Block{}
	}
	return &PageDTO{Page: *p, Blocks: list}
}
