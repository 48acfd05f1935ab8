package thumbs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/camperrent/camperd/internal/telemetry"
	"github.com/camperrent/camperd/internal/telemetry/metrics"
)

// ServiceConfig wires the collaborators of the thumbnail pipeline.
// KeyFunc may be left nil to use the default SHA-256 derivation.
type ServiceConfig struct {
	Store   Store
	Fetcher Fetcher
	KeyFunc KeyFunc
}

// Service runs the full thumbnail pipeline: cache lookup, origin fetch,
// normalization, resampling, JPEG encoding and the cache write.
type Service struct {
	store     Store
	fetcher   Fetcher
	deriveKey KeyFunc
	group     singleflight.Group
	telemetry *telemetry.TelemetrySvc
}

func NewService(
	config ServiceConfig,
	telemetry *telemetry.TelemetrySvc,
) *Service {
	deriveKey := config.KeyFunc
	if deriveKey == nil {
		deriveKey = DeriveKey
	}

	return &Service{
		store:     config.Store,
		fetcher:   config.Fetcher,
		deriveKey: deriveKey,
		telemetry: telemetry,
	}
}

// Thumbnail returns the encoded JPEG for the requested source image and
// width, producing and caching it on first use. Concurrent calls for the
// same uncached (url, width) pair share a single fetch and encode; the
// origin is contacted at most once per key at any point in time.
func (s *Service) Thumbnail(ctx context.Context, req Request) ([]byte, error) {
	s.telemetry.Metrics().Increment(metrics.ThumbRequestReceived, nil)
	key := s.deriveKey(req.URL, req.Width)

	exists, err := s.store.Exists(key)
	if err != nil {
		return nil, fmt.Errorf("cache lookup failed for key %s: %w", key, err)
	}
	if exists {
		data, err := s.store.Get(key)
		if err == nil {
			slog.Debug(
				"Serving cached thumbnail",
				"url", req.URL,
				"width", req.Width,
				"key", key,
			)
			s.telemetry.Metrics().Increment(metrics.ThumbCacheHit, nil)
			return data, nil
		}
		if !errors.Is(err, ErrNotCached) {
			return nil, fmt.Errorf("cache read failed for key %s: %w", key, err)
		}
		// Entry vanished between the existence check and the read.
		// Fall through to the miss path.
	}

	s.telemetry.Metrics().Increment(metrics.ThumbCacheMiss, nil)

	result, err, shared := s.group.Do(key, func() (interface{}, error) {
		// A concurrent request may have completed the write while this
		// one was waiting for the flight slot.
		if cached, err := s.store.Get(key); err == nil {
			return cached, nil
		}
		return s.process(ctx, req, key)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("Thumbnail shared with concurrent requests", "key", key)
	}
	return result.([]byte), nil
}

// process executes the miss path: fetch, normalize, resize, encode and
// persist. No cache entry is ever written when any stage fails.
func (s *Service) process(
	ctx context.Context,
	req Request,
	key string,
) ([]byte, error) {
	raw, err := s.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		s.recordFailure("fetch")
		return nil, err
	}

	img, err := Normalize(raw)
	if err != nil {
		s.recordFailure("decode")
		return nil, err
	}

	encoded, err := ResizeAndEncode(img, req.Width)
	if err != nil {
		s.recordFailure("encode")
		return nil, err
	}

	if err := s.store.Put(key, encoded); err != nil {
		s.recordFailure("store")
		return nil, fmt.Errorf("cache write failed for key %s: %w", key, err)
	}

	s.telemetry.Metrics().Increment(metrics.ThumbCreated, map[string]string{
		"origSize":   strconv.Itoa(len(raw)),
		"thumbSize":  strconv.Itoa(len(encoded)),
		"thumbWidth": strconv.Itoa(req.Width),
	})
	slog.Debug(
		"Thumbnail created",
		"url", req.URL,
		"width", req.Width,
		"bytes", len(encoded),
	)
	return encoded, nil
}

func (s *Service) recordFailure(stage string) {
	s.telemetry.Metrics().Increment(
		metrics.ThumbFailed,
		map[string]string{"stage": stage},
	)
}
