package bench

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagate(t *testing.T) {
	r, err := Propagate(3, 4, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, r.Width)
	assert.Equal(t, 4, r.Height)
	assert.Equal(t, 1+3*4+3, r.Nodes, "source, memos and one effect per column")
	assert.Equal(t, 3*4+3, r.Runs, "every memo and effect runs once per update")
	require.NotNil(t, r.Metrics)
	assert.Equal(t, 10, r.Metrics.Count)
	assert.Equal(t, "propagate: 3 * 4", r.Name())
}

func TestPropagateRejectsEmptyGrid(t *testing.T) {
	_, err := Propagate(0, 1, 1, nil)
	assert.Error(t, err)
	_, err = Propagate(1, 1, 0, nil)
	assert.Error(t, err)
}

func TestRunSweepsEveryCombination(t *testing.T) {
	results, err := Run(Config{Widths: []int{1, 2}, Heights: []int{1, 5}, Iterations: 3})
	require.NoError(t, err)
	require.Len(t, results, 4)

	var names []string
	for _, r := range results {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{
		"propagate: 1 * 1",
		"propagate: 1 * 5",
		"propagate: 2 * 1",
		"propagate: 2 * 5",
	}, names)
}

func TestRender(t *testing.T) {
	results, err := Run(Config{Widths: []int{10}, Heights: []int{100}, Iterations: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	Render(&buf, "reactor", results)
	out := buf.String()
	assert.Contains(t, out, "reactor")
	assert.Contains(t, out, "propagate: 10 * 100")
	assert.Contains(t, out, "1,011", "node count is grouped")
	assert.Contains(t, out, "1,010")
}

func TestPerSecond(t *testing.T) {
	assert.Equal(t, 0.0, perSecond(0))
	assert.InDelta(t, 1000.0, perSecond(1_000_000), 0.001)
}
