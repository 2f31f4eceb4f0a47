package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stankin-rag/priem"
	"golang.org/x/sync/errgroup"
)

// Pipeline turns raw pages into admission records:
// normalize, segment, extract, assemble.
type Pipeline struct {
	Normalizer priem.Normalizer
	Segmenter  *Segmenter
	Extractor  *FieldExtractor
	Assembler  *Assembler

	// Concurrency above 1 processes the blocks of a page in parallel.
	// Output order is the same either way.
	Concurrency int

	Logger *slog.Logger
}

// NewPipeline wires a pipeline from cfg. A nil logger discards output.
func NewPipeline(normalizer priem.Normalizer, cfg Config, logger *slog.Logger) *Pipeline {
	logger = orDiscard(logger)
	return &Pipeline{
		Normalizer: normalizer,
		Segmenter:  NewSegmenter(cfg, logger),
		Extractor:  NewFieldExtractor(cfg, logger),
		Assembler:  NewAssembler(),
		Logger:     logger,
	}
}

// Parse returns the records of one page in page order.
func (p *Pipeline) Parse(ctx context.Context, page *priem.RawPage) ([]*priem.AdmissionRecord, error) {
	text, err := p.Normalizer.Normalize(page)
	if err != nil {
		return nil, err
	}
	return p.ParseText(ctx, text)
}

// ParseText returns the records of already normalized text.
func (p *Pipeline) ParseText(ctx context.Context, text *priem.NormalizedText) ([]*priem.AdmissionRecord, error) {
	blocks := p.Segmenter.Segment(text)
	records := make([]*priem.AdmissionRecord, len(blocks))

	if p.Concurrency <= 1 {
		for i, block := range blocks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			records[i] = p.Assembler.Assemble(p.Extractor.Extract(block))
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.Concurrency)
		for i, block := range blocks {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				records[i] = p.Assembler.Assemble(p.Extractor.Extract(block))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	p.Logger.Info("page parsed", "url", text.URL, "blocks", len(blocks), "records", len(records))
	return records, nil
}

// ParseAll parses every page and concatenates the records. A page that
// cannot be normalized is logged and skipped. An empty page set returns
// ENOTFOUND.
func (p *Pipeline) ParseAll(ctx context.Context, pages []*priem.RawPage) ([]*priem.AdmissionRecord, error) {
	if len(pages) == 0 {
		return nil, priem.Errorf(priem.ENOTFOUND, "no pages to process")
	}

	var all []*priem.AdmissionRecord
	for _, page := range pages {
		records, err := p.Parse(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if priem.ErrorCode(err) == priem.EINVALID {
				p.Logger.Warn("page skipped", "url", page.URL, "err", err)
				continue
			}
			return nil, fmt.Errorf("parse %s: %w", page.URL, err)
		}
		all = append(all, records...)
	}
	return all, nil
}
