package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"math_quiz_backend/internal/model"
)

func TestNewFilter(t *testing.T) {
	f := NewFilter(" trig ", "all")
	assert.Equal(t, "trig", f.Module)
	assert.Empty(t, f.Difficulty)

	f = NewFilter("all", "Hard")
	assert.Empty(t, f.Module)
	assert.Equal(t, model.Hard, f.Difficulty)
}

func TestMemoryBank(t *testing.T) {
	ctx := context.Background()
	qs := pool(2, 3, 1)
	qs[0].Module = model.ModuleAlgebra
	qs[0].Chapter = "Quadratics"
	bank := NewMemoryBank(qs...)

	got, err := bank.Find(ctx, NewFilter("TRIGONOMETRY", ""))
	require.NoError(t, err)
	assert.Len(t, got, 5)

	n, err := bank.Count(ctx, NewFilter("nometry", "Medium"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mods, err := bank.Distinct(ctx, FieldModule, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Algebra", "Trigonometry"}, mods)

	chapters, err := bank.Distinct(ctx, FieldChapter, NewFilter("algebra", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"Quadratics"}, chapters)

	_, err = bank.Distinct(ctx, "explanation", Filter{})
	assert.Error(t, err)

	byID, err := bank.FindByIDs(ctx, []string{"m-1", "missing", "h-0"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"m-1", "h-0"}, ids(byID))
}
