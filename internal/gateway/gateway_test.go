package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/worker"
)

// fakeProvider fails a configured number of times before succeeding
type fakeProvider struct {
	mu           sync.Mutex
	failuresLeft int
	deposits     []float64
	withdrawals  []float64
}

func (f *fakeProvider) Deposit(_ context.Context, _ uuid.UUID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return errors.New("economy offline")
	}
	f.deposits = append(f.deposits, amount)
	return nil
}

func (f *fakeProvider) Withdraw(_ context.Context, _ uuid.UUID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return errors.New("economy offline")
	}
	f.withdrawals = append(f.withdrawals, amount)
	return nil
}

func (f *fakeProvider) depositCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deposits)
}

func testInstruction(income float64) domain.PayoutInstruction {
	return domain.PayoutInstruction{
		ID:        uuid.New(),
		PlayerID:  uuid.New(),
		JobKey:    "miner",
		Income:    income,
		XP:        10,
		NewLevel:  1,
		CreatedAt: time.Now().UTC(),
	}
}

func newTestGateway(t *testing.T, provider EconomyProvider, retries int) (*Gateway, string) {
	t.Helper()
	pool := worker.NewPool(1, 8)
	pool.Start()
	t.Cleanup(pool.Stop)

	deadLetterPath := filepath.Join(t.TempDir(), "deadletter.jsonl")
	g := NewGateway(provider, pool, Config{
		MaxRetries:     retries,
		RetryDelay:     time.Millisecond,
		DeadLetterPath: deadLetterPath,
	})
	return g, deadLetterPath
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDispatch_DeliversDeposit(t *testing.T) {
	provider := &fakeProvider{}
	g, _ := newTestGateway(t, provider, 3)

	g.Dispatch(testInstruction(2.2))

	waitFor(t, func() bool { return provider.depositCount() == 1 })
	assert.Equal(t, []float64{2.2}, provider.deposits)
}

func TestDispatch_RetriesThenSucceeds(t *testing.T) {
	provider := &fakeProvider{failuresLeft: 2}
	g, deadLetterPath := newTestGateway(t, provider, 3)

	g.Dispatch(testInstruction(5))

	waitFor(t, func() bool { return provider.depositCount() == 1 })

	// Nothing dead-lettered
	_, err := os.Stat(deadLetterPath)
	assert.True(t, os.IsNotExist(err))
}

func TestDispatch_ExhaustedRetriesDeadLetter(t *testing.T) {
	provider := &fakeProvider{failuresLeft: 100}
	g, deadLetterPath := newTestGateway(t, provider, 2)

	instr := testInstruction(7)
	g.Dispatch(instr)

	waitFor(t, func() bool {
		_, err := os.Stat(deadLetterPath)
		return err == nil
	})

	f, err := os.Open(deadLetterPath)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())

	var entry struct {
		Reason      string                   `json:"reason"`
		Instruction domain.PayoutInstruction `json:"instruction"`
	}
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
	assert.Equal(t, instr.ID, entry.Instruction.ID)
	assert.Equal(t, 7.0, entry.Instruction.Income)
	assert.NotEmpty(t, entry.Reason)
	assert.False(t, scanner.Scan(), "expected exactly one dead letter line")
}

func TestDispatch_QueueFullDeadLettersImmediately(t *testing.T) {
	provider := &fakeProvider{}

	// Pool that is never started: the queue fills and stays full
	pool := worker.NewPool(1, 1)
	deadLetterPath := filepath.Join(t.TempDir(), "deadletter.jsonl")
	g := NewGateway(provider, pool, Config{
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
		DeadLetterPath: deadLetterPath,
	})

	g.Dispatch(testInstruction(1)) // fills the queue
	g.Dispatch(testInstruction(2)) // dead-lettered

	data, err := os.ReadFile(deadLetterPath)
	require.NoError(t, err)
	var entry struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "queue full", entry.Reason)
}

func TestDispatch_NegativeIncomeWithdraws(t *testing.T) {
	provider := &fakeProvider{}
	g, _ := newTestGateway(t, provider, 1)

	g.Dispatch(testInstruction(-3))

	waitFor(t, func() bool {
		provider.mu.Lock()
		defer provider.mu.Unlock()
		return len(provider.withdrawals) == 1
	})
	assert.Equal(t, []float64{3}, provider.withdrawals)
}
