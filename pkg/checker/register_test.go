package checker

import (
	"context"
	"testing"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/cuemby/warren-jepsen/pkg/kvdb"
	"github.com/stretchr/testify/require"
)

func write(h *history.History, proc history.Process, key string, value int) {
	h.Append(history.Op{Process: proc, Type: history.Invoke, F: "write", Value: kvdb.RegisterOp{Kind: kvdb.KindWrite, Key: key, Value: value}})
	h.Append(history.Op{Process: proc, Type: history.Ok, F: "write", Value: kvdb.RegisterOp{Kind: kvdb.KindWrite, Key: key, Value: value}})
}

func read(h *history.History, proc history.Process, key string, value int) {
	h.Append(history.Op{Process: proc, Type: history.Invoke, F: "read", Value: kvdb.RegisterOp{Kind: kvdb.KindRead, Key: key}})
	h.Append(history.Op{Process: proc, Type: history.Ok, F: "read", Value: kvdb.RegisterOp{Kind: kvdb.KindRead, Key: key, Value: value}})
}

func TestRegisterCheckerValidHistory(t *testing.T) {
	c, err := NewRegisterChecker("")
	require.NoError(t, err)

	h := history.New()
	write(h, 0, "x", 1)
	write(h, 0, "x", 2)
	read(h, 1, "x", 2)
	read(h, 1, "x", 1)
	h.Close()

	result, err := c.Check(context.Background(), nil, nil, h)
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestRegisterCheckerCatchesUnwrittenRead(t *testing.T) {
	c, err := NewRegisterChecker("")
	require.NoError(t, err)

	h := history.New()
	write(h, 0, "x", 1)
	read(h, 1, "x", 99) // never written
	h.Close()

	result, err := c.Check(context.Background(), nil, nil, h)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Contains(t, result.Error, "never written")
}

func TestRegisterCheckerSkipsNeverWrittenKey(t *testing.T) {
	c, err := NewRegisterChecker("")
	require.NoError(t, err)

	h := history.New()
	read(h, 0, "x", 0) // register's zero state; nothing written yet to verify against
	h.Close()

	result, err := c.Check(context.Background(), nil, nil, h)
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestRegisterCheckerCustomExpression(t *testing.T) {
	c, err := NewRegisterChecker("value in written || value == 0")
	require.NoError(t, err)

	h := history.New()
	write(h, 0, "x", 5)
	read(h, 1, "x", 0) // allowed by the custom expression even though never written
	h.Close()

	result, err := c.Check(context.Background(), nil, nil, h)
	require.NoError(t, err)
	require.True(t, result.Valid)
}
