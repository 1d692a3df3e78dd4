package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	assert.Equal(t, uint64(0xba7816bf8f01cfea), Hash("abc"))
	assert.Equal(t, Hash("Monday-L"), Hash("Monday-L"))
	assert.NotEqual(t, Hash("Monday-L"), Hash("Monday-T"))
}

func TestKeyUsesSeed(t *testing.T) {
	assert.Equal(t, Hash("abc"), NewKeys(0).Key("abc"))
	assert.Equal(t, Hash("abc")^314156, NewKeys(314156).Key("abc"))
}

func TestSortByKeyIgnoresInputOrder(t *testing.T) {
	k := NewKeys(314156)
	a := k.SortByKey([]string{"C101", "C102", "C103", "L201"})
	b := k.SortByKey([]string{"L201", "C103", "C101", "C102"})

	assert.Equal(t, a, b)
	assert.ElementsMatch(t, []string{"C101", "C102", "C103", "L201"}, a)
	for i := 1; i < len(a); i++ {
		assert.LessOrEqual(t, k.Key(a[i-1]), k.Key(a[i]))
	}
}

func TestPick(t *testing.T) {
	k := NewKeys(7)
	assert.Equal(t, int(k.Key("1")%3), k.Pick(3, "1"))
	assert.Equal(t, 0, k.Pick(0, "1"))
	assert.Equal(t, 1, k.SeedIndex(3))
	assert.Equal(t, 0, k.SeedIndex(0))
}

func TestAttempt(t *testing.T) {
	calls := 0
	n := Attempt(10, func() bool {
		calls++
		return calls < 4
	})
	assert.Equal(t, 3, n)
	assert.Equal(t, 4, calls)

	calls = 0
	n = Attempt(2, func() bool {
		calls++
		return true
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, calls)
}
