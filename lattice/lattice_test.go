package lattice

import (
	"testing"

	"github.com/latticenet/core/content"
	"github.com/latticenet/core/ids"
	"github.com/stretchr/testify/require"
)

func newTestLattice() *Lattice {
	cfg := DefaultConfig()
	return New(cfg, nil, nil, nil, NewMetrics(nil), nil)
}

func mkString(t *testing.T, content_ []byte, clock uint64, node ids.NodeID, parents []ids.StringID) *String {
	t.Helper()
	if parents == nil {
		parents = []ids.StringID{ids.Empty}
	}
	return &String{
		Content:     content_,
		Clock:       ids.Clock{Counter: clock, Node: node},
		Parents:     parents,
		Replication: 3,
		Mutability:  Mutability{Kind: OwnerErasable},
	}
}

func TestAddStringGenesisAndChild(t *testing.T) {
	l := newTestLattice()
	node := ids.NodeID{1}

	root := mkString(t, []byte("root"), 1, node, nil)
	rootID, err := l.AddString(root, nil)
	require.NoError(t, err)
	require.True(t, l.Contains(rootID))

	child := mkString(t, []byte("child"), 2, node, []ids.StringID{rootID})
	childID, err := l.AddString(child, nil)
	require.NoError(t, err)
	require.True(t, l.IsAncestor(rootID, childID))
	require.False(t, l.IsAncestor(childID, rootID))

	tips := l.Tips()
	require.Len(t, tips, 1)
	require.Equal(t, childID, tips[0])
}

func TestAddStringIdempotent(t *testing.T) {
	l := newTestLattice()
	node := ids.NodeID{2}
	s := mkString(t, []byte("dup"), 1, node, nil)

	id1, err := l.AddString(s, nil)
	require.NoError(t, err)
	id2, err := l.AddString(s, nil)
	require.NoError(t, err)
	require.Equal(t, id1, id2)
	require.Equal(t, 1, l.PendingCount())
}

func TestAddStringMissingParentRejected(t *testing.T) {
	l := newTestLattice()
	node := ids.NodeID{3}
	ghostParent := ids.StringID{0xAB}
	s := mkString(t, []byte("orphan"), 1, node, []ids.StringID{ghostParent})

	_, err := l.AddString(s, nil)
	require.ErrorIs(t, err, ErrMissingParent)
}

func TestAddStringReplicationRangeRejected(t *testing.T) {
	l := newTestLattice()
	node := ids.NodeID{4}
	s := mkString(t, []byte("bad-rho"), 1, node, nil)
	s.Replication = 2

	_, err := l.AddString(s, nil)
	require.ErrorIs(t, err, ErrReplicationRange)
}

// TestMarkErasedBlocksDescendants exercises spec scenario S6: erasing a
// string tombstones it and any later add_string naming it as a parent must
// fail with ErrParentErased, even though prior descendants remain.
func TestMarkErasedBlocksDescendants(t *testing.T) {
	l := newTestLattice()
	node := ids.NodeID{5}

	root := mkString(t, []byte("erasable-root"), 1, node, nil)
	rootID, err := l.AddString(root, nil)
	require.NoError(t, err)

	child := mkString(t, []byte("child"), 2, node, []ids.StringID{rootID})
	childID, err := l.AddString(child, nil)
	require.NoError(t, err)

	require.NoError(t, l.MarkErased(rootID))
	require.False(t, l.Contains(rootID))
	require.True(t, l.Contains(childID), "existing descendants survive erasure of an ancestor")

	grandchild := mkString(t, []byte("grandchild"), 3, node, []ids.StringID{rootID})
	_, err = l.AddString(grandchild, nil)
	require.ErrorIs(t, err, ErrParentErased)
}

func TestMarkErasedRefusesImmutable(t *testing.T) {
	l := newTestLattice()
	node := ids.NodeID{6}
	s := mkString(t, []byte("immutable"), 1, node, nil)
	s.Mutability = Mutability{Kind: Immutable}

	id, err := l.AddString(s, nil)
	require.NoError(t, err)

	err = l.MarkErased(id)
	require.ErrorIs(t, err, ErrNotErasable)
	require.True(t, l.Contains(id))
}

func TestAddStringWithComplement(t *testing.T) {
	l := newTestLattice()
	node := ids.NodeID{7}
	payload := []byte("content protected by an erasure complement")
	c, err := content.Generate(payload, 5)
	require.NoError(t, err)

	s := mkString(t, payload, 1, node, nil)
	id, err := l.AddString(s, c)
	require.NoError(t, err)

	got, ok := l.GetComplement(id)
	require.True(t, ok)
	require.Equal(t, c.K, got.K)
	require.True(t, got.Verify(payload))
}

func TestAnchorPromotionGenesis(t *testing.T) {
	l := newTestLattice()
	node := ids.NodeID{8}
	s := mkString(t, []byte("first"), 1, node, nil)
	_, err := l.AddString(s, nil)
	require.NoError(t, err)

	anchors := l.Anchors()
	require.Len(t, anchors, 1)
	require.Equal(t, uint64(1), anchors[0].Round)
}

func TestBackpressureFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PendingWatermark = 1
	l := New(cfg, nil, nil, nil, NewMetrics(nil), nil)
	node := ids.NodeID{9}

	first := mkString(t, []byte("one"), 1, node, nil)
	_, err := l.AddString(first, nil)
	require.NoError(t, err)

	second := mkString(t, []byte("two"), 2, node, nil)
	_, err = l.AddString(second, nil)
	require.ErrorIs(t, err, ErrBackpressureFull)
}
