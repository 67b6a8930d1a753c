package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/domain"
)

// MockTx is a mock of loadTx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	called := m.Called(ctx, query, args)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).(sql.Result), called.Error(1)
}

func (m *MockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *MockTx) Rollback() error {
	return m.Called().Error(0)
}

func newTestLoader(tx *MockTx, beginErr error) *regionLoader {
	return &regionLoader{
		begin: func(context.Context) (loadTx, error) {
			if beginErr != nil {
				return nil, beginErr
			}
			return tx, nil
		},
		logger: zap.NewNop(),
	}
}

func testBatches() []domain.InsertBatch {
	return []domain.InsertBatch{
		{Seq: 0, Statement: "INSERT 0", Args: []interface{}{int64(1)}, Rows: 2},
		{Seq: 1, Statement: "INSERT 1", Args: []interface{}{int64(3)}, Rows: 1},
	}
}

func TestRegionLoader_Load_Success(t *testing.T) {
	ctx := context.Background()
	tx := &MockTx{}

	truncate := tx.On("ExecContext", ctx, `TRUNCATE TABLE "administrative_regions"`, []interface{}(nil)).
		Return(driver.RowsAffected(0), nil).Once()
	first := tx.On("ExecContext", ctx, "INSERT 0", []interface{}{int64(1)}).
		Return(driver.RowsAffected(2), nil).Once().NotBefore(truncate)
	tx.On("ExecContext", ctx, "INSERT 1", []interface{}{int64(3)}).
		Return(driver.RowsAffected(1), nil).Once().NotBefore(first)
	tx.On("Commit").Return(nil).Once()

	rows, err := newTestLoader(tx, nil).Load(ctx, "administrative_regions", testBatches())

	require.NoError(t, err)
	assert.Equal(t, int64(3), rows)
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Rollback")
}

func TestRegionLoader_Load_NoBatchesStillTruncates(t *testing.T) {
	ctx := context.Background()
	tx := &MockTx{}

	tx.On("ExecContext", ctx, `TRUNCATE TABLE "administrative_regions"`, []interface{}(nil)).
		Return(driver.RowsAffected(0), nil).Once()
	tx.On("Commit").Return(nil).Once()

	rows, err := newTestLoader(tx, nil).Load(ctx, "administrative_regions", nil)

	require.NoError(t, err)
	assert.Zero(t, rows)
	tx.AssertExpectations(t)
}

func TestRegionLoader_Load_BeginFails(t *testing.T) {
	cause := errors.New("connection refused")

	_, err := newTestLoader(nil, cause).Load(context.Background(), "administrative_regions", testBatches())

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.ErrorIs(t, err, cause)
}

func TestRegionLoader_Load_TruncateFails(t *testing.T) {
	ctx := context.Background()
	tx := &MockTx{}

	pgErr := &pgconn.PgError{Code: "42P01", Message: `relation "administrative_regions" does not exist`}
	tx.On("ExecContext", ctx, mock.Anything, mock.Anything).Return(nil, pgErr).Once()
	tx.On("Rollback").Return(nil).Once()

	_, err := newTestLoader(tx, nil).Load(ctx, "administrative_regions", testBatches())

	var stmtErr *StatementError
	require.ErrorAs(t, err, &stmtErr)
	assert.Equal(t, StageTruncate, stmtErr.Stage)
	assert.Equal(t, "42P01", stmtErr.SQLState())
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Commit")
}

func TestRegionLoader_Load_BatchFailsRollsBack(t *testing.T) {
	ctx := context.Background()
	tx := &MockTx{}

	pgErr := &pgconn.PgError{
		Code:    "XX000",
		Message: "parse error - invalid geometry",
		Hint:    `"MULTIPOLYGON(((0 0" <-- parse error at position 19 within geometry`,
	}
	tx.On("ExecContext", ctx, `TRUNCATE TABLE "administrative_regions"`, []interface{}(nil)).
		Return(driver.RowsAffected(0), nil).Once()
	tx.On("ExecContext", ctx, "INSERT 0", mock.Anything).Return(driver.RowsAffected(2), nil).Once()
	tx.On("ExecContext", ctx, "INSERT 1", mock.Anything).Return(nil, pgErr).Once()
	tx.On("Rollback").Return(nil).Once()

	rows, err := newTestLoader(tx, nil).Load(ctx, "administrative_regions", testBatches())

	assert.Zero(t, rows)
	var stmtErr *StatementError
	require.ErrorAs(t, err, &stmtErr)
	assert.Equal(t, StageInsert, stmtErr.Stage)
	assert.Equal(t, 1, stmtErr.Seq)
	assert.Equal(t, 1, stmtErr.Rows)
	assert.Equal(t, "INSERT 1", stmtErr.Statement)
	assert.Contains(t, err.Error(), "insert batch 1 (1 rows)")
	assert.Contains(t, err.Error(), "hint:")

	var gotPg *pgconn.PgError
	assert.ErrorAs(t, err, &gotPg)

	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Commit")
}

func TestRegionLoader_Load_StopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	tx := &MockTx{}

	tx.On("ExecContext", ctx, `TRUNCATE TABLE "administrative_regions"`, []interface{}(nil)).
		Return(driver.RowsAffected(0), nil).Once()
	tx.On("ExecContext", ctx, "INSERT 0", mock.Anything).Return(nil, errors.New("duplicate key")).Once()
	tx.On("Rollback").Return(nil).Once()

	_, err := newTestLoader(tx, nil).Load(ctx, "administrative_regions", testBatches())

	require.Error(t, err)
	tx.AssertNotCalled(t, "ExecContext", ctx, "INSERT 1", mock.Anything)
	tx.AssertExpectations(t)
}

func TestRegionLoader_Load_CommitFails(t *testing.T) {
	ctx := context.Background()
	tx := &MockTx{}

	tx.On("ExecContext", ctx, mock.Anything, mock.Anything).Return(driver.RowsAffected(1), nil)
	tx.On("Commit").Return(errors.New("connection reset")).Once()
	tx.On("Rollback").Return(sql.ErrTxDone).Once()

	_, err := newTestLoader(tx, nil).Load(ctx, "administrative_regions", testBatches())

	var stmtErr *StatementError
	require.ErrorAs(t, err, &stmtErr)
	assert.Equal(t, StageCommit, stmtErr.Stage)
	tx.AssertExpectations(t)
}

func TestRegionLoader_Load_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tx := &MockTx{}

	tx.On("ExecContext", ctx, mock.Anything, mock.Anything).Return(nil, context.Canceled).Once()
	tx.On("Rollback").Return(nil).Once()

	_, err := newTestLoader(tx, nil).Load(ctx, "administrative_regions", testBatches())

	assert.ErrorIs(t, err, context.Canceled)
	tx.AssertExpectations(t)
}

func TestStatementError_PreviewTruncatesLongStatements(t *testing.T) {
	long := "INSERT INTO \"administrative_regions\" VALUES " + string(make([]byte, 500))
	err := &StatementError{Stage: StageInsert, Seq: 4, Rows: 100, Statement: long, Err: errors.New("boom")}

	assert.Less(t, len(err.Error()), 200)
	assert.Contains(t, err.Error(), "...")
}
