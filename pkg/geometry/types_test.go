package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), NewRect(5, 5, 5, 5)},
		{"contained", NewRect(0, 0, 10, 10), NewRect(2, 3, 4, 5), NewRect(2, 3, 4, 5)},
		{"touching edges", NewRect(0, 0, 10, 10), NewRect(10, 0, 5, 5), Rect{}},
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(20, 20, 5, 5), Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersect(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersect(tt.a))
		})
	}
}

func TestRectContainsRect(t *testing.T) {
	outer := NewRect(0, 0, 100, 50)
	assert.True(t, outer.ContainsRect(NewRect(0, 0, 100, 50)))
	assert.True(t, outer.ContainsRect(NewRect(10, 10, 20, 20)))
	assert.False(t, outer.ContainsRect(NewRect(90, 10, 20, 20)))
	assert.False(t, outer.ContainsRect(NewRect(-1, 0, 10, 10)))
}

func TestRectUnion(t *testing.T) {
	u := NewRect(25, 40, 100, 50).Union(NewRect(135, 25, 100, 80))
	assert.Equal(t, NewRect(25, 25, 210, 80), u)
}

func TestRectImageRect(t *testing.T) {
	assert.Equal(t, image.Rect(1, 2, 5, 7), NewRect(1.5, 2.2, 3.1, 4.1).ImageRect())
}

func TestAffineInverseRoundTrip(t *testing.T) {
	tr := ScaleThenTranslate(2.5, NewPoint2D(-30, 14))
	inv, ok := tr.Inverse()
	require.True(t, ok)

	for _, p := range []Point2D{{0, 0}, {1, 1}, {-250.5, 1e4}, {3.14159, -2.71828}} {
		back := inv.Apply(tr.Apply(p))
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
}

func TestAffineInverseSingular(t *testing.T) {
	_, ok := Scale(0, 1).Inverse()
	assert.False(t, ok)
}

func TestAffineCompose(t *testing.T) {
	// Scale first, then translate.
	c := Translation(10, 20).Compose(Scale(2, 3))
	got := c.Apply(NewPoint2D(1, 1))
	assert.Equal(t, NewPoint2D(12, 23), got)
}

func TestApplyRect(t *testing.T) {
	r := ScaleThenTranslate(2, NewPoint2D(5, 5)).ApplyRect(NewRect(1, 1, 10, 5))
	assert.Equal(t, NewRect(7, 7, 20, 10), r)
}

func TestScaleThenTranslate(t *testing.T) {
	m := ScaleThenTranslate(2, NewPoint2D(5, -3))
	assert.Equal(t, AffineTransform{A: 2, D: 2, TX: 5, TY: -3}, m)
	assert.Equal(t, NewPoint2D(25, 17), m.Apply(NewPoint2D(10, 10)))
}
