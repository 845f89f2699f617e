package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestNewBook(t *testing.T) {
	b := NewBook("Dune", "Frank Herbert", strPtr("9780441013593"), floatPtr(9.99))

	assert.True(t, b.Available, "新书默认可借")
	assert.False(t, b.IsPersisted())
	assert.Zero(t, b.ID())
	assert.True(t, b.CreatedAt().IsZero())
	assert.True(t, b.UpdatedAt().IsZero())
	assert.Equal(t, "9780441013593", *b.ISBN)
}

func TestBook_Availability(t *testing.T) {
	b := NewBook("Dune", "Frank Herbert", nil, nil)

	b.MarkUnavailable()
	assert.False(t, b.Available)
	b.MarkUnavailable()
	assert.False(t, b.Available, "重复标记不变")

	b.MarkAvailable()
	assert.True(t, b.Available)

	b.SetAvailability(false)
	assert.False(t, b.Available)
	assert.True(t, b.UpdatedAt().IsZero(), "setter不刷新更新时间")
}

func TestBook_Touch(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("首次写入", func(t *testing.T) {
		b := NewBook("Dune", "Frank Herbert", nil, nil)
		b.Touch(t0)
		assert.Equal(t, t0, b.CreatedAt())
		assert.Equal(t, t0, b.UpdatedAt())
	})

	t.Run("后续写入只改更新时间", func(t *testing.T) {
		b := Reconstitute(1, "Dune", "Frank Herbert", nil, nil, true, t0, t0)
		b.Touch(t0.Add(time.Hour))
		assert.Equal(t, t0, b.CreatedAt())
		assert.Equal(t, t0.Add(time.Hour), b.UpdatedAt())
	})

	t.Run("时钟回拨不早于创建时间", func(t *testing.T) {
		b := Reconstitute(1, "Dune", "Frank Herbert", nil, nil, true, t0, t0)
		b.Touch(t0.Add(-time.Minute))
		assert.Equal(t, t0, b.UpdatedAt())
	})
}

func TestBook_AssignIDOnce(t *testing.T) {
	b := NewBook("Dune", "Frank Herbert", nil, nil)
	b.AssignID(3)
	b.AssignID(4)
	assert.Equal(t, uint(3), b.ID())
	assert.True(t, b.IsPersisted())
}

func TestBook_Clone(t *testing.T) {
	b := NewBook("Dune", "Frank Herbert", strPtr("123"), floatPtr(5))
	c := b.Clone()

	*c.ISBN = "456"
	*c.Price = 6
	c.Title = "Emma"

	assert.Equal(t, "123", *b.ISBN)
	assert.Equal(t, 5.0, *b.Price)
	assert.Equal(t, "Dune", b.Title)
}
