package regeneration

import (
	"context"
	"errors"
	"testing"

	"github.com/latticenet/core/content"
	"github.com/latticenet/core/ids"
	"github.com/stretchr/testify/require"
)

var errFragmentNotFound = errors.New("fragment not found")

type mapSource struct {
	fragments map[int][]byte
}

func (s mapSource) Fetch(_ context.Context, _ ids.StringID, index int) ([]byte, error) {
	data, ok := s.fragments[index]
	if !ok {
		return nil, errFragmentNotFound
	}
	return data, nil
}

func fragmentSet(comp *content.Complement, data [][]byte, drop ...int) map[int][]byte {
	dropped := map[int]bool{}
	for _, d := range drop {
		dropped[d] = true
	}
	out := make(map[int][]byte)
	for i, d := range data {
		if !dropped[i] {
			out[i] = d
		}
	}
	return out
}

// TestClassifyLevels exercises every DamageLevel boundary.
func TestClassifyLevels(t *testing.T) {
	require.Equal(t, DamageNone, Classify(5, 3, 2))
	require.Equal(t, DamagePartial, Classify(3, 3, 2))
	require.Equal(t, DamageCritical, Classify(1, 3, 2))
	require.Equal(t, DamageTotal, Classify(0, 3, 2))
}

func TestRequestReadyTracksFragmentCount(t *testing.T) {
	req := NewRequest(ids.StringID{1}, 3, 2, map[int][]byte{0: []byte("a")})
	require.Equal(t, DamageCritical, req.Damage)
	require.False(t, req.Ready())

	req.AddFragment(1, []byte("b"))
	req.AddFragment(2, []byte("c"))
	require.True(t, req.Ready())
	require.Equal(t, DamagePartial, req.Damage)
}

// TestRepairReconstructsFromPartialFragments exercises the repair path
// end to end: a string with K+M fragments loses enough that only K-1
// survive locally, but a FragmentSource can supply the rest.
func TestRepairReconstructsFromPartialFragments(t *testing.T) {
	original := []byte("the string lattice tolerates partial fragment loss")
	comp, err := content.Generate(original, 5) // K=3,M=2 per content.KM
	require.NoError(t, err)

	dataShards, _, _ := splitForTest(original, comp.K)
	all := append(append([][]byte{}, dataShards...), comp.Parity...)

	// K=3, M=2: drop three of the five fragments so only 2 survive locally,
	// below K, forcing the engine to actually recruit from a source.
	surviving := fragmentSet(comp, all, 1, 2, 3)
	req := NewRequest(ids.StringID{2}, comp.K, comp.M, surviving)
	require.Equal(t, DamageCritical, req.Damage)

	source := mapSource{fragments: map[int][]byte{1: all[1], 2: all[2], 3: all[3]}}
	engine := New(NewMetrics(nil), nil)

	reconstructed, err := engine.Repair(context.Background(), req, comp, []FragmentSource{source})
	require.NoError(t, err)
	require.Equal(t, original, reconstructed)
}

func TestRepairUnrecoverableOnTotalLoss(t *testing.T) {
	original := []byte("lost beyond recovery")
	comp, err := content.Generate(original, 3)
	require.NoError(t, err)

	req := NewRequest(ids.StringID{3}, comp.K, comp.M, map[int][]byte{})
	require.Equal(t, DamageTotal, req.Damage)

	engine := New(NewMetrics(nil), nil)
	_, err = engine.Repair(context.Background(), req, comp, nil)
	require.ErrorIs(t, err, ErrUnrecoverable)
}

func TestRepairExhaustedWhenSourcesLackFragment(t *testing.T) {
	original := []byte("needs one more fragment than anyone has")
	comp, err := content.Generate(original, 5)
	require.NoError(t, err)

	dataShards, _, _ := splitForTest(original, comp.K)
	all := append(append([][]byte{}, dataShards...), comp.Parity...)
	// K=3, M=2: drop three fragments (two data, one parity) so only 2
	// survive locally, below K, and no source can supply the rest.
	surviving := fragmentSet(comp, all, 0, 1, 3)

	req := NewRequest(ids.StringID{4}, comp.K, comp.M, surviving)
	engine := New(NewMetrics(nil), nil)

	_, err = engine.Repair(context.Background(), req, comp, []FragmentSource{mapSource{fragments: map[int][]byte{}}})
	require.ErrorIs(t, err, ErrRepairExhausted)
}

// splitForTest re-derives the data shards the same way content.Generate
// does internally, since Complement does not store them.
func splitForTest(original []byte, k int) ([][]byte, int, int) {
	shardSize := (len(original) + k - 1) / k
	if shardSize == 0 {
		shardSize = 1
	}
	shards := make([][]byte, k)
	for i := 0; i < k; i++ {
		s := make([]byte, shardSize)
		start := i * shardSize
		if start < len(original) {
			end := start + shardSize
			if end > len(original) {
				end = len(original)
			}
			copy(s, original[start:end])
		}
		shards[i] = s
	}
	return shards, shardSize, len(original)
}
