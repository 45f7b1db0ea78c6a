package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"fieldstock/internal/core/apperror"
)

var tracer = otel.Tracer("fieldstock/storage")

const collectionsTable = "sys_collections"

// CompressionAlgo specifies the compression algorithm used for a payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// CollectionStore persists whole collections as versioned JSON documents.
//
// The persistence contract is document-replace: a collection is read in
// full and written back in full. Every row carries a revision; Save
// compares-and-swaps on it, so a writer that raced another writer gets
// CONCURRENT_MODIFICATION instead of silently losing the other's update.
type CollectionStore struct {
	pool    *Pool
	builder squirrel.StatementBuilderType

	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewCollectionStore creates a collection store over the pool.
func NewCollectionStore(pool *Pool) (*CollectionStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &CollectionStore{
		pool:              pool,
		builder:           squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// EnsureSchema creates the collections table when missing.
func (s *CollectionStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+collectionsTable+` (
			key        TEXT PRIMARY KEY,
			rev        BIGINT NOT NULL,
			algo       TEXT NOT NULL DEFAULT 'none',
			payload    BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *CollectionStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

type collectionRow struct {
	Key       string          `db:"key"`
	Rev       int64           `db:"rev"`
	Algo      CompressionAlgo `db:"algo"`
	Payload   []byte          `db:"payload"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// Load reads one collection payload and its revision. A missing key is
// an empty collection at revision zero.
func (s *CollectionStore) Load(ctx context.Context, key string) ([]byte, uint64, error) {
	ctx, span := tracer.Start(ctx, "collections.load")
	span.SetAttributes(attribute.String("collection.key", key))
	defer span.End()

	query, args, err := s.builder.
		Select("key", "rev", "algo", "payload", "updated_at").
		From(collectionsTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var row collectionRow
	if err := pgxscan.Get(ctx, s.pool, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("load collection %s: %w", key, err)
	}

	payload := row.Payload
	if row.Algo == CompressionZstd {
		payload, err = s.decoder.DecodeAll(row.Payload, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("decompress collection %s: %w", key, err)
		}
	}
	return payload, uint64(row.Rev), nil
}

// Save writes one collection payload, bumping its revision. rev must be
// the revision the caller loaded; a mismatch means another writer got
// there first.
func (s *CollectionStore) Save(ctx context.Context, key string, payload []byte, rev uint64) error {
	ctx, span := tracer.Start(ctx, "collections.save")
	span.SetAttributes(
		attribute.String("collection.key", key),
		attribute.Int("collection.bytes", len(payload)),
	)
	defer span.End()

	algo := CompressionNone
	if len(payload) > s.compressThreshold {
		payload = s.encoder.EncodeAll(payload, nil)
		algo = CompressionZstd
	}
	now := time.Now().UTC()

	if rev == 0 {
		query, args, err := s.builder.
			Insert(collectionsTable).
			Columns("key", "rev", "algo", "payload", "updated_at").
			Values(key, 1, algo, payload, now).
			Suffix("ON CONFLICT (key) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		tag, err := s.pool.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert collection %s: %w", key, err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NewConcurrentModification("collection", key)
		}
		return nil
	}

	query, args, err := s.builder.
		Update(collectionsTable).
		Set("rev", squirrel.Expr("rev + 1")).
		Set("algo", algo).
		Set("payload", payload).
		Set("updated_at", now).
		Where(squirrel.Eq{"key": key, "rev": rev}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update collection %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("collection", key)
	}
	return nil
}
