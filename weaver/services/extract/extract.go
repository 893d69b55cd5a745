// Package extract turns a batch of URLs plus a target schema into one
// structured record, either through the hosted crawling provider or the
// local fallback extractor.
package extract

import (
	"context"

	"weaver/weaver/utils/types"
)

type Provider interface {
	Extract(ctx context.Context, urls []string, prompt string, schema types.JSONSchema, enableWebSearch bool) (types.ExtractedRecord, error)
}
