package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/projectziio/ziio-ai/internal/analysis"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_SaveGetList(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	fa := &analysis.FileAnalysis{FileName: "brief.pdf", FileSize: 2048, Analysis: json.RawMessage(`{"summary":{"overview":"x"}}`)}
	id, err := r.Save(ctx, fa)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.False(t, fa.Timestamp.IsZero())

	got, err := r.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "brief.pdf", got.FileName)
	require.Equal(t, int64(2048), got.FileSize)
	require.JSONEq(t, `{"summary":{"overview":"x"}}`, string(got.Analysis))

	time.Sleep(2 * time.Millisecond)
	id2, err := r.Save(ctx, &analysis.FileAnalysis{FileName: "second.pdf"})
	require.NoError(t, err)

	list, err := r.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, id2, list[0].ID)

	list, err = r.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestMemoryRepo_GetMissing(t *testing.T) {
	_, err := NewMemoryRepo().Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}
