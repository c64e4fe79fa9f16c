package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// WriteFunc is a callback that performs database writes inside a transaction.
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// ErrBatchWriterClosed is returned by Submit and Close once the writer is closed.
var ErrBatchWriterClosed = errors.New("batch writer closed")

// BatchWriter buffers write operations and commits them in batches, one transaction per
// batch, on a background goroutine.
type BatchWriter struct {
	mu     sync.Mutex
	buf    []WriteFunc
	size   int
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context

	commitCh chan []WriteFunc
	db       *sql.DB
	OnError  func(error)

	// firstErr stops later batches from running. Protected by errMu.
	errMu    sync.Mutex
	firstErr error
	written  int
}

// NewBatchWriter starts a writer that commits every batchSize submissions.
// Cancelling ctx makes pending and future batches fail.
func NewBatchWriter(ctx context.Context, db *sql.DB, batchSize int) *BatchWriter {
	if batchSize <= 0 {
		batchSize = 500
	}
	bw := &BatchWriter{
		buf:      make([]WriteFunc, 0, batchSize),
		size:     batchSize,
		ctx:      ctx,
		commitCh: make(chan []WriteFunc, 2),
		db:       db,
	}

	bw.wg.Add(1)
	go bw.committer()
	return bw
}

// Submit enqueues a write function. It blocks while the committer is two batches behind.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	if err := bw.err(); err != nil {
		return err
	}
	bw.buf = append(bw.buf, w)
	if len(bw.buf) >= bw.size {
		bw.flushLocked()
	}
	return nil
}

// flushLocked assumes bw.mu is held.
func (bw *BatchWriter) flushLocked() {
	if len(bw.buf) == 0 {
		return
	}
	batch := bw.buf
	bw.buf = make([]WriteFunc, 0, bw.size)

	select {
	case bw.commitCh <- batch:
	case <-bw.ctx.Done():
		bw.fail(fmt.Errorf("batch writer: dropping batch of %d items: %w", len(batch), bw.ctx.Err()))
	}
}

func (bw *BatchWriter) committer() {
	defer bw.wg.Done()
	for batch := range bw.commitCh {
		if bw.err() != nil {
			continue
		}
		if err := bw.executeBatch(batch); err != nil {
			bw.fail(err)
			continue
		}
		bw.errMu.Lock()
		bw.written += len(batch)
		bw.errMu.Unlock()
	}
}

func (bw *BatchWriter) executeBatch(batch []WriteFunc) error {
	if err := bw.ctx.Err(); err != nil {
		return fmt.Errorf("batch writer: %w", err)
	}

	tx, err := bw.db.BeginTx(bw.ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, w := range batch {
		if err := w(bw.ctx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch (%d items): %w", len(batch), err)
	}
	return nil
}

func (bw *BatchWriter) fail(err error) {
	bw.errMu.Lock()
	if bw.firstErr == nil {
		bw.firstErr = err
	}
	bw.errMu.Unlock()
	if bw.OnError != nil {
		bw.OnError(err)
	}
}

func (bw *BatchWriter) err() error {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.firstErr
}

// Written returns the number of write functions committed so far.
func (bw *BatchWriter) Written() int {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.written
}

// Close flushes the remaining submissions, waits for them to commit and returns the first
// error seen by the writer.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	bw.flushLocked()
	bw.mu.Unlock()

	close(bw.commitCh)
	bw.wg.Wait()
	return bw.err()
}
