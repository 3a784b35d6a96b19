package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	s := NewSessionStore()

	sid, err := s.AddSession("alice")
	require.NoError(t, err)
	assert.Len(t, sid, sessionIDBytes*2)

	username, ok := s.GetSessionUser(sid)
	require.True(t, ok)
	assert.Equal(t, "alice", username)

	other, err := s.AddSession("alice")
	require.NoError(t, err)
	assert.NotEqual(t, sid, other)
	assert.Equal(t, 2, s.Count())

	s.DeleteSession(sid)
	_, ok = s.GetSessionUser(sid)
	assert.False(t, ok)
	s.DeleteSession(sid)
	assert.Equal(t, 1, s.Count())
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"alice", "Bob_2", " carol "}
	invalid := []string{"", "   ", "a b", "al!ce", "ünï"}

	for _, name := range valid {
		assert.True(t, IsValidUsername(name), name)
	}
	for _, name := range invalid {
		assert.False(t, IsValidUsername(name), name)
	}
}

func TestUserDirectory(t *testing.T) {
	d := NewUserDirectory()

	_, ok := d.GetUserData("alice")
	assert.False(t, ok)

	require.NoError(t, d.AddUserData("bob", NewAssignmentCollection()))
	require.NoError(t, d.AddUserData("alice", NewAssignmentCollection()))
	assert.ErrorIs(t, d.AddUserData("alice", NewAssignmentCollection()), ErrExists)

	c, ok := d.GetUserData("alice")
	require.True(t, ok)
	assert.NotNil(t, c)

	assert.Len(t, d.GetAllUserData(), 2)
	assert.Equal(t, []string{"alice", "bob"}, d.Usernames())
}

func TestSubjectRegistry(t *testing.T) {
	r := NewSubjectRegistry([]string{"Math", "Art", "Math"})
	assert.Equal(t, []string{"Math", "Art"}, r.List())

	assert.True(t, r.Add("History"))
	assert.False(t, r.Add("History"))
	assert.Equal(t, []string{"Math", "Art", "History"}, r.List())

	assert.True(t, r.Remove("Art"))
	assert.False(t, r.Remove("Art"))
	assert.Equal(t, []string{"Math", "History"}, r.List())

	list := r.List()
	list[0] = "mutated"
	assert.Equal(t, "Math", r.List()[0])
}
