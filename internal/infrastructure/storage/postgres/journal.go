package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/RWageesha/Genie-s-STK/internal/core/apperror"
	"github.com/RWageesha/Genie-s-STK/internal/core/id"
	"github.com/RWageesha/Genie-s-STK/internal/domain/inventory"
)

const movementsTable = "stock_movements"

// CompressionAlgo specifies the compression algorithm used for a payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

var _ inventory.MovementJournal = (*MovementJournal)(nil)

// MovementEntry is a persisted stock movement. The typed columns support
// querying; Payload keeps the full movement set of the originating call,
// compressed when large, so a depletion fan-out can be replayed as one unit.
type MovementEntry struct {
	ID                id.ID                  `db:"id"`
	MovementType      inventory.MovementType `db:"movement_type"`
	BatchID           id.ID                  `db:"batch_id"`
	ProductID         id.ID                  `db:"product_id"`
	SaleID            *id.ID                 `db:"sale_id"`
	Quantity          int                    `db:"quantity"`
	Remaining         int                    `db:"remaining"`
	Payload           json.RawMessage        `db:"payload"`
	PayloadCompressed []byte                 `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo        `db:"compression_algo"`
	CreatedAt         time.Time              `db:"created_at"`
}

// MovementJournal implements inventory.MovementJournal on top of the
// stock_movements table.
type MovementJournal struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewMovementJournal creates a new movement journal.
func NewMovementJournal(txManager *TxManager) (*MovementJournal, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &MovementJournal{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 4 * 1024,
	}, nil
}

// Record persists the movement set. It runs on the caller's transaction
// when one is in the context, so journal rows commit or roll back with
// the stock mutation they describe.
func (j *MovementJournal) Record(ctx context.Context, movements []inventory.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	payload, err := json.Marshal(movements)
	if err != nil {
		return fmt.Errorf("marshal movements: %w", err)
	}

	var compressed []byte
	algo := CompressionNone
	if len(payload) > j.compressThreshold {
		compressed = j.encoder.EncodeAll(payload, nil)
		payload = nil
		algo = CompressionZstd
	}

	now := time.Now().UTC()
	sql := `
		INSERT INTO stock_movements (
			id, movement_type, batch_id, product_id, sale_id,
			quantity, remaining,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	querier := j.txManager.GetQuerier(ctx)
	for i := range movements {
		m := &movements[i]

		var saleID *id.ID
		if !id.IsNil(m.SaleID) {
			saleID = &m.SaleID
		}

		// The payload rides on the first row of the set only.
		var rowPayload json.RawMessage
		var rowCompressed []byte
		rowAlgo := CompressionNone
		if i == 0 {
			rowPayload = payload
			rowCompressed = compressed
			rowAlgo = algo
		}

		_, err := querier.Exec(ctx, sql,
			id.New(), m.Type, m.BatchID, m.ProductID, saleID,
			m.Quantity, m.Remaining,
			rowPayload, rowCompressed, rowAlgo, now,
		)
		if err != nil {
			return apperror.NewPersistence(fmt.Errorf("insert movement: %w", err))
		}
	}

	return nil
}

// BatchHistory retrieves movements recorded against a batch, newest first.
func (j *MovementJournal) BatchHistory(ctx context.Context, batchID id.ID, limit int) ([]MovementEntry, error) {
	sql := `
		SELECT id, movement_type, batch_id, product_id, sale_id,
			   quantity, remaining,
			   payload, payload_compressed, compression_algo, created_at
		FROM stock_movements
		WHERE batch_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := j.txManager.GetQuerier(ctx).Query(ctx, sql, batchID, limit)
	if err != nil {
		return nil, apperror.NewPersistence(fmt.Errorf("query movements: %w", err))
	}
	defer rows.Close()

	var entries []MovementEntry
	for rows.Next() {
		var e MovementEntry
		err := rows.Scan(
			&e.ID, &e.MovementType, &e.BatchID, &e.ProductID, &e.SaleID,
			&e.Quantity, &e.Remaining,
			&e.Payload, &e.PayloadCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.PayloadCompressed) > 0 {
			decompressed, err := j.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			e.Payload = decompressed
			e.PayloadCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
