package publicapi

import (
	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"
)

type PublicPageDTO struct {
	ID          string              `json:"id"`
	Username    string              `json:"username"`
	DisplayName string              `json:"displayName"`
	Bio         string              `json:"bio"`
	Avatar      *string             `json:"avatar"`
	Theme       pages.ThemeSettings `json:"theme"`
	Watermark   bool                `json:"watermark"`
	Blocks      []blocks.Block      `json:"blocks"`
}
