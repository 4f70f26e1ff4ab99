package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/syssam/entityc/dialect"
)

// ctxStmtKey is the key used for attaching and reading the statement label.
type ctxStmtKey struct{}

// WithStatement tags the context with the entity and operation about to be
// executed, e.g. ("User", "create"). Instrumented drivers aggregate under
// the resulting "User.create" label; statements executed without a label
// fall under "unlabeled".
func WithStatement(ctx context.Context, entity, operation string) context.Context {
	return context.WithValue(ctx, ctxStmtKey{}, entity+"."+operation)
}

// StatementFromContext returns the statement label attached to the context.
func StatementFromContext(ctx context.Context) (string, bool) {
	label, ok := ctx.Value(ctxStmtKey{}).(string)
	return label, ok
}

const unlabeled = "unlabeled"

func stmtLabel(ctx context.Context) string {
	if label, ok := StatementFromContext(ctx); ok {
		return label
	}
	return unlabeled
}

// OpStats aggregates execution statistics per statement label.
type OpStats struct {
	mu  sync.Mutex
	ops map[string]*opRecord
}

type opRecord struct {
	count  int64
	errors int64
	slow   int64
	total  time.Duration
}

func (s *OpStats) observe(label string, d time.Duration, failed, slow bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ops == nil {
		s.ops = make(map[string]*opRecord)
	}
	r := s.ops[label]
	if r == nil {
		r = &opRecord{}
		s.ops[label] = r
	}
	r.count++
	r.total += d
	if failed {
		r.errors++
	}
	if slow {
		r.slow++
	}
}

// Snapshot returns a point-in-time copy of the per-label statistics.
func (s *OpStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := StatsSnapshot{Operations: make(map[string]OpSnapshot, len(s.ops))}
	for label, r := range s.ops {
		out.Operations[label] = OpSnapshot{
			Count:  r.count,
			Errors: r.errors,
			Slow:   r.slow,
			Total:  r.total,
		}
	}
	return out
}

// Reset drops every recorded label.
func (s *OpStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = nil
}

// OpSnapshot is the aggregate of one statement label.
type OpSnapshot struct {
	Count  int64
	Errors int64
	Slow   int64
	Total  time.Duration
}

// Avg returns the average execution duration of the label.
func (o OpSnapshot) Avg() time.Duration {
	if o.Count == 0 {
		return 0
	}
	return o.Total / time.Duration(o.Count)
}

// StatsSnapshot is a point-in-time snapshot of per-statement statistics.
type StatsSnapshot struct {
	Operations map[string]OpSnapshot
}

// Totals folds every label into one aggregate.
func (s StatsSnapshot) Totals() OpSnapshot {
	var t OpSnapshot
	for _, o := range s.Operations {
		t.Count += o.Count
		t.Errors += o.Errors
		t.Slow += o.Slow
		t.Total += o.Total
	}
	return t
}

// String lists the labels alphabetically with their aggregates.
func (s StatsSnapshot) String() string {
	labels := make([]string, 0, len(s.Operations))
	for label := range s.Operations {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	var b strings.Builder
	for i, label := range labels {
		if i > 0 {
			b.WriteString("; ")
		}
		o := s.Operations[label]
		fmt.Fprintf(&b, "%s count=%d errors=%d slow=%d avg=%s",
			label, o.Count, o.Errors, o.Slow, o.Avg())
	}
	return b.String()
}

// SlowStatementHook is called when a statement exceeds the slow threshold.
type SlowStatementHook func(ctx context.Context, label, query string, args []any, duration time.Duration)

// StatsDriver wraps a Driver with per-statement statistics collection.
// Generated repositories tag each call with WithStatement, so the snapshot
// breaks down by entity and operation.
type StatsDriver struct {
	*Driver
	stats         *OpStats
	slowThreshold time.Duration
	slowHook      SlowStatementHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowStatementHook sets a callback invoked whenever a statement
// exceeds the slow threshold.
func WithSlowStatementHook(hook SlowStatementHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowStatementLog logs slow statements to the default logger. It is a
// convenience wrapper around WithSlowStatementHook.
func WithSlowStatementLog() StatsOption {
	return WithSlowStatementHook(func(_ context.Context, label, query string, args []any, duration time.Duration) {
		slog.Warn("slow statement", "statement", label, "duration", duration, "query", query, "args", args)
	})
}

// NewStatsDriver wraps a Driver with per-statement statistics collection.
//
// Example:
//
//	drv, _ := sql.Open("postgres", dsn)
//	sd := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowStatementLog(),
//	)
//	err := sd.Exec(sql.WithStatement(ctx, "User", "create"), sqlUserCreate, args, nil)
//
//	// Later:
//	fmt.Println(sd.Stats().Snapshot())
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &OpStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the underlying OpStats for reading statistics.
func (d *StatsDriver) Stats() *OpStats {
	return d.stats
}

// SlowThreshold returns the current slow statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow statement threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Query executes a query and records statistics under the context label.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.record(ctx, query, args, start, err)
	return err
}

// Exec executes a statement and records statistics under the context label.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.record(ctx, query, args, start, err)
	return err
}

func (d *StatsDriver) record(ctx context.Context, query string, args any, start time.Time, err error) {
	duration := time.Since(start)
	label := stmtLabel(ctx)

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	slow := duration > threshold
	d.stats.observe(label, duration, err != nil, slow)
	if slow && hook != nil {
		argsSlice, _ := args.([]any)
		hook(ctx, label, query, argsSlice, duration)
	}
}

// Tx starts a transaction that also records statistics.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsTx{Tx: tx, driver: d}, nil
}

// StatsTx wraps a transaction with statistics collection.
type StatsTx struct {
	dialect.Tx
	driver *StatsDriver
}

// Query executes a query within the transaction and records statistics.
func (tx *StatsTx) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Query(ctx, query, args, v)
	tx.driver.record(ctx, query, args, start, err)
	return err
}

// Exec executes a statement within the transaction and records statistics.
func (tx *StatsTx) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Exec(ctx, query, args, v)
	tx.driver.record(ctx, query, args, start, err)
	return err
}

// DebugDriver wraps a Driver with statement logging. Log lines carry the
// statement label of the context.
type DebugDriver struct {
	*Driver
	log func(context.Context, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// NewDebugDriver wraps a Driver with statement logging.
//
// Example:
//
//	drv, _ := sql.Open("postgres", dsn)
//	dd := sql.NewDebugDriver(drv, sql.DebugWithLog(func(ctx context.Context, v ...any) {
//	    log.Println(v...)
//	}))
func NewDebugDriver(drv *Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(_ context.Context, v ...any) {
			slog.Info(fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query executes a query and logs it.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.log(ctx, fmt.Sprintf("%s: query: %s args: %v", stmtLabel(ctx), query, args))
	return d.Driver.Query(ctx, query, args, v)
}

// Exec executes a statement and logs it.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.log(ctx, fmt.Sprintf("%s: exec: %s args: %v", stmtLabel(ctx), query, args))
	return d.Driver.Exec(ctx, query, args, v)
}

// Tx starts a transaction with statement logging.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	d.log(ctx, "begin transaction")
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugTx{Tx: tx, log: d.log}, nil
}

// DebugTx wraps a transaction with statement logging.
type DebugTx struct {
	dialect.Tx
	log func(context.Context, ...any)
}

// Query executes a query within the transaction and logs it.
func (tx *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	tx.log(ctx, fmt.Sprintf("%s: tx query: %s args: %v", stmtLabel(ctx), query, args))
	return tx.Tx.Query(ctx, query, args, v)
}

// Exec executes a statement within the transaction and logs it.
func (tx *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	tx.log(ctx, fmt.Sprintf("%s: tx exec: %s args: %v", stmtLabel(ctx), query, args))
	return tx.Tx.Exec(ctx, query, args, v)
}

// Commit commits the transaction and logs it.
func (tx *DebugTx) Commit() error {
	tx.log(context.Background(), "commit transaction")
	return tx.Tx.Commit()
}

// Rollback rolls back the transaction and logs it.
func (tx *DebugTx) Rollback() error {
	tx.log(context.Background(), "rollback transaction")
	return tx.Tx.Rollback()
}

// Ensure interfaces are implemented.
var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Tx     = (*StatsTx)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*DebugTx)(nil)
)

// OpenWithStats opens a database connection with per-statement statistics
// collection enabled.
func OpenWithStats(driverName, source string, opts ...StatsOption) (*StatsDriver, error) {
	drv, err := Open(driverName, source)
	if err != nil {
		return nil, err
	}
	return NewStatsDriver(drv, opts...), nil
}
