package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

type orderRow struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      string    `bun:"user_id"`
	Name        string    `bun:"name,notnull"`
	CakeSize    string    `bun:"cake_size,notnull"`
	Celebration string    `bun:"celebration,notnull"`
	DueDate     string    `bun:"due_date,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// PostgresStore appends orders to the orders table, creating it on first use.
type PostgresStore struct {
	db bun.IDB

	mu    sync.Mutex
	ready bool
}

var _ contractx.OrderStore = (*PostgresStore)(nil)

func NewPostgresStore(db bun.IDB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, order contractx.Order) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	row := toRow(order)
	if _, err := insertQuery(s.db, &row).Exec(ctx); err != nil {
		return fmt.Errorf("%w: insert order: %v", contractx.ErrPersist, err)
	}
	return nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}
	if _, err := createTableQuery(s.db).Exec(ctx); err != nil {
		return fmt.Errorf("%w: create orders table: %v", contractx.ErrPersist, err)
	}
	s.ready = true
	return nil
}

func createTableQuery(db bun.IDB) *bun.CreateTableQuery {
	return db.NewCreateTable().Model((*orderRow)(nil)).IfNotExists()
}

func insertQuery(db bun.IDB, row *orderRow) *bun.InsertQuery {
	return db.NewInsert().Model(row)
}

func toRow(order contractx.Order) orderRow {
	return orderRow{
		UserID:      order.UserID,
		Name:        order.Name,
		CakeSize:    order.CakeSize,
		Celebration: order.Celebration,
		DueDate:     order.DueDate,
	}
}
