package ledger

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/datmedevil17/memeLaunchpad-22/internal/models"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

// Options configures the ClickHouse connection.
type Options struct {
	Addr     string
	Database string
	Username string
	Password string
}

// ClickHouseLedger appends committed transactions to ClickHouse for
// long-term audit and analytics. Inserts happen after the in-process commit;
// on failure the engine logs and moves on, so the ledger can lag but the
// trade never rolls back.
type ClickHouseLedger struct {
	conn   driver.Conn
	logger *logrus.Logger
}

func NewClickHouseLedger(opts Options, logger *logrus.Logger) (*ClickHouseLedger, error) {
	if logger == nil {
		logger = logrus.New()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	logger.WithField("addr", opts.Addr).Info("connected to ClickHouse")

	return &ClickHouseLedger{conn: conn, logger: logger}, nil
}

// InsertTransaction appends one committed transaction.
func (c *ClickHouseLedger) InsertTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, token_id, user, type, sol_amount, token_amount,
			price, platform_fee, creator_fee, timestamp, signature
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		tx.ID,
		tx.TokenID,
		tx.User.String(),
		string(tx.Type),
		tx.SolAmount,
		tx.TokenAmount,
		tx.Price,
		tx.PlatformFee,
		tx.CreatorFee,
		tx.Timestamp,
		base58.Encode(tx.Signature[:]),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

func (c *ClickHouseLedger) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseLedger) Close() error {
	return c.conn.Close()
}
