package relation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddIsSymmetric(t *testing.T) {
	g := New()
	assert.True(t, g.Add("alice", "bob"))
	assert.False(t, g.Add("bob", "alice"))
	assert.True(t, g.Has("alice", "bob"))
	assert.True(t, g.Has("bob", "alice"))
	assert.Equal(t, 1, g.Len())
	assert.False(t, g.Add("carl", "carl"))
	assert.Equal(t, []Pair{{A: "alice", B: "bob"}}, g.Pairs())
}

func TestGraphRemoveDropsEmptyKeys(t *testing.T) {
	g := FromPairs(NewPair("a", "b"), NewPair("a", "c"))
	assert.True(t, g.Remove("b", "a"))
	assert.False(t, g.Remove("b", "a"))
	m := g.Map()
	_, ok := m["b"]
	assert.False(t, ok)
	assert.Equal(t, []string{"c"}, m["a"])
}

func TestGraphRemovePlayer(t *testing.T) {
	g := FromPairs(NewPair("a", "b"), NewPair("a", "c"), NewPair("b", "c"))
	g.RemovePlayer("a")
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has("c", "b"))
	assert.Empty(t, g.Neighbors("a"))
}

func TestFromMapSymmetrises(t *testing.T) {
	g := FromMap(map[string][]string{"x": {"y", "z"}})
	assert.True(t, g.Has("y", "x"))
	assert.True(t, g.Has("z", "x"))
	assert.Equal(t, []string{"x"}, g.Neighbors("y"))
}

func TestGraphJSONRoundTripFormat(t *testing.T) {
	var g Graph
	require.NoError(t, json.Unmarshal([]byte(`{"ann":["ben"],"cat":["ann"]}`), &g))
	assert.True(t, g.Has("ben", "ann"))
	assert.True(t, g.Has("ann", "cat"))

	data, err := json.Marshal(&g)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ann":["ben","cat"],"ben":["ann"],"cat":["ann"]}`, string(data))
}

func TestNilGraphReads(t *testing.T) {
	var g *Graph
	assert.False(t, g.Has("a", "b"))
	assert.Zero(t, g.Len())
	assert.Nil(t, g.Pairs())
	assert.Empty(t, g.Map())
}

func TestCloneIsIndependent(t *testing.T) {
	g := FromPairs(NewPair("a", "b"))
	c := g.Clone()
	c.Add("c", "d")
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 2, c.Len())
}
