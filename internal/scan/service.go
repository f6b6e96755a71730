// Package scan orchestrates receipt images through the external OCR
// collaborator and the receipt parser.
package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/sync/semaphore"

	"fintrack/internal/core"
	"fintrack/internal/receipt"
)

// ErrEmptyImage is returned for a zero-length payload.
var ErrEmptyImage = errors.New("empty image payload")

// ErrInvalidImage is returned when the payload is not a decodable PNG or JPEG.
var ErrInvalidImage = errors.New("invalid image")

// TextExtractor is the OCR collaborator contract: a single-shot recognition
// call returning plain text for an image. Implementations are expected to
// honour ctx cancellation.
type TextExtractor interface {
	ExtractText(ctx context.Context, img []byte) (string, error)
}

// Service runs recognition with bounded concurrency and parses the result
// into ranked candidate transactions.
type Service struct {
	ocr TextExtractor
	sem *semaphore.Weighted
}

// NewService creates a scan service limited to maxConcurrent in-flight OCR
// calls; the recognition backend is the only asynchronous boundary in the
// app.
func NewService(ocr TextExtractor, maxConcurrent int64) *Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Service{
		ocr: ocr,
		sem: semaphore.NewWeighted(maxConcurrent),
	}
}

// Scan validates that img decodes as PNG or JPEG, extracts its text and
// parses candidates from it. The call is single-shot and cancellable: once
// ctx is done, no late recognition result or error is delivered, only
// ctx.Err().
func (s *Service) Scan(ctx context.Context, img []byte) ([]core.Candidate, error) {
	if len(img) == 0 {
		return nil, ErrEmptyImage
	}
	if _, _, err := image.Decode(bytes.NewReader(img)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := s.ocr.ExtractText(ctx, img)
		ch <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		// The late result lands in the buffered channel and is dropped.
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("recognize text: %w", r.err)
		}
		candidates := receipt.Parse(r.text)
		slog.DebugContext(ctx, "Receipt scan complete",
			"text_length", len(r.text),
			"candidates", len(candidates))
		return candidates, nil
	}
}
