package adapters

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/kbukum/iterflow/component"
	"github.com/kbukum/iterflow/logging"
	"github.com/kbukum/iterflow/stream"
)

// SQLRowsIteratorOptions configures SQLRowsIterator.
type SQLRowsIteratorOptions struct {
	DB    *gorm.DB `validate:"-"`
	Query string
	Args  []any `validate:"-"`

	// Scan reads one row into a T. Required: gorm's *sql.Rows has no
	// reflection-free way to know the caller's row shape.
	Scan func(rows *sql.Rows) (any, error) `validate:"-"`

	ClientStreamOptions
}

// SQLRowsIterator streams rows from a query as a stream.Iterator[any],
// grounded on database.DB's provider-wiring shape (a held *gorm.DB plus a
// PingContext-style availability check, here driving Health).
type SQLRowsIterator struct {
	db   *gorm.DB
	name string
	log  *logging.Logger

	rows *sql.Rows
	it   stream.Iterator[any]
}

// NewSQLRowsIterator runs opts.Query and returns a stream.Iterator[any]
// that yields one item per row via opts.Scan, closing the underlying
// *sql.Rows when the stream ends or is destroyed.
func NewSQLRowsIterator(opts SQLRowsIteratorOptions) (*SQLRowsIterator, error) {
	if err := validateOptions(opts.ClientStreamOptions); err != nil {
		return nil, err
	}
	log := opts.logger()

	sqlRows, err := opts.DB.Raw(opts.Query, opts.Args...).Rows()
	if err != nil {
		return nil, err
	}

	s := &SQLRowsIterator{db: opts.DB, name: "sql:rows", log: log, rows: sqlRows}
	var it stream.Iterator[any]
	it = stream.Wrap[any](stream.WrapOptions[any]{
		MaxBufferSize: opts.MaxBufferSize,
		AutoStart:     true,
		Read: func(count int, push func(any), done func()) {
			exhausted := false
			for i := 0; i < count; i++ {
				if !s.rows.Next() {
					if err := s.rows.Err(); err != nil {
						log.Error("sql rows iteration failed", map[string]any{"error": err.Error()})
					}
					_ = s.rows.Close()
					exhausted = true
					break
				}
				item, err := opts.Scan(s.rows)
				if err != nil {
					log.Error("sql row scan failed", map[string]any{"error": err.Error()})
					continue
				}
				push(item)
			}
			if exhausted {
				it.Close()
			}
			done()
		},
		Destroy: func(cause error, done func()) {
			_ = s.rows.Close()
			done()
		},
	})
	s.it = it
	return s, nil
}

// Stream returns the stream.Iterator[any] this adapter drives.
func (s *SQLRowsIterator) Stream() stream.Iterator[any] { return s.it }

var (
	_ component.Component   = (*SQLRowsIterator)(nil)
	_ component.Describable = (*SQLRowsIterator)(nil)
)

func (s *SQLRowsIterator) Name() string { return s.name }

func (s *SQLRowsIterator) Start(ctx context.Context) error { return nil }

func (s *SQLRowsIterator) Stop(ctx context.Context) error {
	s.it.Destroy(nil)
	return nil
}

func (s *SQLRowsIterator) Health(ctx context.Context) component.Health {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return component.Health{Name: s.name, Status: component.StatusUnhealthy, Message: "database unreachable"}
	}
	if s.it.Done() {
		return component.Health{Name: s.name, Status: component.StatusDegraded, Message: "stream ended"}
	}
	return component.Health{Name: s.name, Status: component.StatusHealthy}
}

func (s *SQLRowsIterator) Describe() component.Description {
	return component.Description{Name: "SQL Rows Iterator", Type: "database", Details: s.name}
}
