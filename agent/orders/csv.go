package orders

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/contract"
)

const (
	Header = "name;cake_size;celebration;due_date"

	defaultQueueSize = 64
	ordersFileMode   = 0o644
	ordersDirMode    = 0o755
)

var ErrStoreClosed = errors.New("order store is closed")

// CSVStore appends orders to a semicolon separated file. A single goroutine owns the
// file, so rows from concurrent commits never interleave.
type CSVStore struct {
	path string

	reqs    chan appendRequest
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

type appendRequest struct {
	order  contractx.Order
	result chan error
}

var _ contractx.OrderStore = (*CSVStore)(nil)

func NewCSVStore(path string, queueSize int) (*CSVStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: orders file path is empty", contractx.ErrValidation)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, ordersDirMode); err != nil {
			return nil, fmt.Errorf("create orders directory: %w", err)
		}
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	s := &CSVStore{
		path:    path,
		reqs:    make(chan appendRequest, queueSize),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// Append queues the order and waits for the writer. Once queued the row is written
// even if ctx ends, so the result always reflects the file.
func (s *CSVStore) Append(ctx context.Context, order contractx.Order) error {
	req := appendRequest{order: order, result: make(chan error, 1)}

	select {
	case s.reqs <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.quit:
		return ErrStoreClosed
	}

	select {
	case err := <-req.result:
		return err
	case <-s.stopped:
		return ErrStoreClosed
	}
}

// Close writes whatever is queued and stops the writer.
func (s *CSVStore) Close() error {
	s.once.Do(func() { close(s.quit) })
	<-s.stopped
	return nil
}

func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) run() {
	defer close(s.stopped)
	for {
		select {
		case req := <-s.reqs:
			req.result <- s.write(req.order)
		case <-s.quit:
			for {
				select {
				case req := <-s.reqs:
					req.result <- s.write(req.order)
				default:
					return
				}
			}
		}
	}
}

func (s *CSVStore) write(order contractx.Order) error {
	_, statErr := os.Stat(s.path)
	fresh := errors.Is(statErr, os.ErrNotExist)
	if statErr != nil && !fresh {
		return fmt.Errorf("%w: stat %s: %v", contractx.ErrPersist, s.path, statErr)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, ordersFileMode)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", contractx.ErrPersist, s.path, err)
	}
	defer f.Close()

	var b strings.Builder
	if fresh {
		b.WriteString(Header)
	}
	b.WriteByte('\n')
	b.WriteString(FormatRow(order))

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("%w: write %s: %v", contractx.ErrPersist, s.path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %v", contractx.ErrPersist, s.path, err)
	}

	log.Debug().Str("path", s.path).Bool("header", fresh).Msg("order row appended")
	return nil
}

// FormatRow renders the order as one quoted, semicolon separated line.
func FormatRow(order contractx.Order) string {
	fields := order.Fields()
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ";")
}
