package shhist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddDedupsConsecutive(t *testing.T) {
	s := NewStore(30)
	s.Add("ls")
	s.Add("ls")
	s.Add("pwd")
	assert.Equal(t, []string{"ls", "pwd"}, s.All())
}

func TestStore_AddSkipsEmpty(t *testing.T) {
	s := NewStore(30)
	s.Add("")
	assert.Empty(t, s.All())
}

func TestStore_BoundedRing(t *testing.T) {
	s := NewStore(2)
	s.Add("a")
	s.Add("b")
	s.Add("c")
	assert.Equal(t, []string{"b", "c"}, s.All())
}

func TestStore_SearchBangBang(t *testing.T) {
	s := NewStore(30)
	s.Add("one")
	s.Add("two")
	got, err := s.Search("!!")
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestStore_SearchByIndex(t *testing.T) {
	s := NewStore(30)
	s.Add("one")
	s.Add("two")
	got, err := s.Search("!1")
	require.NoError(t, err)
	assert.Equal(t, "one", got)
}

func TestStore_SearchByPrefix(t *testing.T) {
	s := NewStore(30)
	s.Add("echo hi")
	s.Add("ls -l")
	got, err := s.Search("!ec")
	require.NoError(t, err)
	assert.Equal(t, "echo hi", got)
}

func TestStore_SearchEventNotFound(t *testing.T) {
	s := NewStore(30)
	_, err := s.Search("!nope")
	require.Error(t, err)
	var notFound *EventNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestStore_UpDownNavigation(t *testing.T) {
	s := NewStore(30)
	s.Add("first")
	s.Add("second")

	line, ok := s.Up("partial")
	require.True(t, ok)
	assert.Equal(t, "second", line)

	line, ok = s.Up("partial")
	require.True(t, ok)
	assert.Equal(t, "first", line)

	line, ok = s.Down()
	require.True(t, ok)
	assert.Equal(t, "second", line)

	line, ok = s.Down()
	require.True(t, ok)
	assert.Equal(t, "partial", line)
}

func TestStore_UpIPythonStyleFiltersByTemplate(t *testing.T) {
	s := NewStore(30)
	s.SetIPythonStyle(true)
	s.Add("echo one")
	s.Add("ls -l")
	s.Add("echo two")

	line, ok := s.Up("echo")
	require.True(t, ok)
	assert.Equal(t, "echo two", line)

	line, ok = s.Up("echo")
	require.True(t, ok)
	assert.Equal(t, "echo one", line)
}

func TestSwapper_SwapsActiveStore(t *testing.T) {
	sw := NewSwapper(30)
	sw.Active().Add("interactive")
	sw.Swap()
	sw.Active().Add("scripted")
	assert.Equal(t, []string{"scripted"}, sw.Active().All())
	sw.Swap()
	assert.Equal(t, []string{"interactive"}, sw.Active().All())
}
