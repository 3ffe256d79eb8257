package anim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurve_SortsKeys(t *testing.T) {
	c := NewCurve(
		Keyframe{Time: 1, Value: 10},
		Keyframe{Time: 0, Value: 0},
		Keyframe{Time: 0.5, Value: 3},
	)

	require.Equal(t, 3, c.Len())
	assert.Equal(t, 0.0, c.Key(0).Time)
	assert.Equal(t, 0.5, c.Key(1).Time)
	assert.Equal(t, 1.0, c.Key(2).Time)
}

func TestNilCurve(t *testing.T) {
	var c *Curve

	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Keys())
	assert.Equal(t, 0.0, c.Evaluate(3))

	_, _, ok := c.Extent()
	assert.False(t, ok)
}

func TestLinearCurve_EvaluatesStraightLine(t *testing.T) {
	c := NewLinearCurve(Point{0, 0}, Point{1, 10})

	for i := 0; i <= 20; i++ {
		tm := float64(i) / 20
		assert.InDelta(t, 10*tm, c.Evaluate(tm), 1e-9, "t=%v", tm)
	}
}

func TestLinearCurve_MultiSegment(t *testing.T) {
	c := NewLinearCurve(Point{0, 0}, Point{1, 10}, Point{2, 0})

	assert.InDelta(t, 5.0, c.Evaluate(0.5), 1e-9)
	assert.InDelta(t, 10.0, c.Evaluate(1), 1e-9)
	assert.InDelta(t, 5.0, c.Evaluate(1.5), 1e-9)
}

func TestEvaluate_ClampsOutsideRange(t *testing.T) {
	c := NewLinearCurve(Point{1, 4}, Point{2, 8})

	assert.Equal(t, 4.0, c.Evaluate(-10))
	assert.Equal(t, 8.0, c.Evaluate(100))
}

func TestEvaluate_ExactKeyTimes(t *testing.T) {
	c := NewCurve(
		Keyframe{Time: 0, Value: 1, OutTangent: 5},
		Keyframe{Time: 1, Value: 2, InTangent: -3, OutTangent: 7},
		Keyframe{Time: 2, Value: -1, InTangent: 2},
	)

	assert.Equal(t, 1.0, c.Evaluate(0))
	assert.Equal(t, 2.0, c.Evaluate(1))
	assert.Equal(t, -1.0, c.Evaluate(2))
}

func TestEvaluate_SteppedSegment(t *testing.T) {
	c := NewCurve(
		Keyframe{Time: 0, Value: 1, OutTangent: math.Inf(1)},
		Keyframe{Time: 1, Value: 5},
	)

	assert.Equal(t, 1.0, c.Evaluate(0.99))
	assert.Equal(t, 5.0, c.Evaluate(1))
}

func TestEvaluate_FlatTangentsEaseCurve(t *testing.T) {
	// Flat tangents give the classic smoothstep shape.
	c := NewCurve(Keyframe{Time: 0, Value: 0}, Keyframe{Time: 1, Value: 1})

	assert.InDelta(t, 0.5, c.Evaluate(0.5), 1e-12)
	assert.InDelta(t, 0.15625, c.Evaluate(0.25), 1e-12)
}

func TestExtent(t *testing.T) {
	c := NewLinearCurve(Point{0.25, 1}, Point{0.75, 2})

	start, end, ok := c.Extent()
	require.True(t, ok)
	assert.Equal(t, 0.25, start)
	assert.Equal(t, 0.75, end)
}

func TestKeys_ReturnsCopy(t *testing.T) {
	c := NewLinearCurve(Point{0, 0}, Point{1, 1})
	keys := c.Keys()
	keys[0].Value = 99

	assert.Equal(t, 0.0, c.Key(0).Value)
}
