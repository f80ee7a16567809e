package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapySessions/pkg/dbmetrics"
)

// ErrTransaction возвращается при ошибках начала или фиксации транзакции
var ErrTransaction = errors.New("txmanager: transaction error")

// TxBeginner источник транзакций
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции в транзакции, передавая её через контекст
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует уже открытую транзакцию
	if _, ok := dbmetrics.TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, err)
	}

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}
	return nil
}

// Noop менеджер без транзакций, используется когда хранилище внешнее (REST).
// Вместо отката при ошибке fn выполняются зарегистрированные через Compensate отмены
type Noop struct{}

func (Noop) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return compensated(ctx, fn)
}

func (Noop) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return compensated(ctx, fn)
}

type compensationsKey struct{}

type compensations struct {
	undo []func(ctx context.Context) error
}

// Compensate регистрирует отмену уже выполненной записи.
// Внутри настоящей транзакции откат выполняет БД, и undo не вызывается
func Compensate(ctx context.Context, undo func(ctx context.Context) error) {
	if c, ok := ctx.Value(compensationsKey{}).(*compensations); ok {
		c.undo = append(c.undo, undo)
	}
}

func compensated(ctx context.Context, fn func(ctx context.Context) error) error {
	// Вложенный вызов дописывает отмены во внешний список
	if _, ok := ctx.Value(compensationsKey{}).(*compensations); ok {
		return fn(ctx)
	}

	c := &compensations{}
	err := fn(context.WithValue(ctx, compensationsKey{}, c))
	if err == nil {
		return nil
	}

	// отмены выполняются и после отмены запроса клиентом
	undoCtx := context.WithoutCancel(ctx)
	for i := len(c.undo) - 1; i >= 0; i-- {
		if undoErr := c.undo[i](undoCtx); undoErr != nil {
			err = fmt.Errorf("%w (compensation failed: %v)", err, undoErr)
		}
	}
	return err
}
