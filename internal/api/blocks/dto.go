package blocksapi

import (
	"encoding/json"

	"pulse/internal/domain/blocks"
)

type CreateBlockRequest struct {
	Type    string          `json:"type" binding:"required"`
	Content json.RawMessage `json:"content"`
}

type ReorderRequest struct {
	Blocks []blocks.Position `json:"blocks"`
}

type ListBlocksResponse struct {
	Blocks []blocks.Block `json:"blocks"`
}

func listResponse(list []blocks.Block) ListBlocksResponse {
	if list == nil {
		list = []blocks.Block{}
	}
	return ListBlocksResponse{Blocks: list}
}
