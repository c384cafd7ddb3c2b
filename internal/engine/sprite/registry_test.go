package sprite

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/heightcast/pkg/fixed"
)

func listIDs(r *Registry) []ID {
	var ids []ID
	for id := r.Head(); id != Nil; id = r.Next(id) {
		ids = append(ids, id)
	}
	return ids
}

func TestNewReturnsZeroedUnlisted(t *testing.T) {
	r := NewRegistry()
	id := r.New()

	s := r.Get(id)
	require.NotNil(t, s)
	s.Texture = 7
	s.Extra[2] = -5
	r.Add(id)
	r.Free(id)

	again := r.New()
	assert.Equal(t, id, again, "freed sprite is reused first")
	assert.Equal(t, uint16(0), r.Get(again).Texture)
	assert.Equal(t, [4]int32{}, r.Get(again).Extra)
	assert.False(t, r.Get(again).Active())
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, Nil, r.Head())
}

func TestAddPushesFront(t *testing.T) {
	r := NewRegistry()
	a, b, c := r.New(), r.New(), r.New()
	r.Add(a)
	r.Add(b)
	r.Add(c)

	assert.Equal(t, []ID{c, b, a}, listIDs(r))
	assert.Equal(t, 3, r.Len())
	require.NoError(t, r.Validate())
}

func TestFreeHeadMiddleTail(t *testing.T) {
	tests := []struct {
		name   string
		remove int
		want   []int
	}{
		{"head", 3, []int{2, 1, 0}},
		{"middle", 1, []int{3, 2, 0}},
		{"tail", 0, []int{3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			ids := make([]ID, 4)
			for i := range ids {
				ids[i] = r.New()
				r.Add(ids[i])
			}

			r.Free(ids[tt.remove])

			want := make([]ID, len(tt.want))
			for i, k := range tt.want {
				want[i] = ids[k]
			}
			assert.Equal(t, want, listIDs(r))
			require.NoError(t, r.Validate())
		})
	}
}

func TestFreeUnaddedSprite(t *testing.T) {
	r := NewRegistry()
	a := r.New()
	b := r.New()
	r.Add(a)

	r.Free(b)

	assert.Equal(t, []ID{a}, listIDs(r))
	require.NoError(t, r.Validate())
}

func TestPoolGrowsByBlocks(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < BlockSize+1; i++ {
		r.Add(r.New())
	}

	assert.Equal(t, 2*BlockSize, r.Capacity())
	assert.Equal(t, BlockSize+1, r.Len())
	require.NoError(t, r.Validate())

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 2*BlockSize, r.Capacity(), "registry never shrinks")
	require.NoError(t, r.Validate())
}

func TestPointersStableAcrossGrowth(t *testing.T) {
	r := NewRegistry()
	first := r.New()
	p := r.Get(first)
	p.Pos = fixed.Vec3{X: 5, Y: 6, Z: 7}

	for i := 0; i < 3*BlockSize; i++ {
		r.New()
	}

	assert.Same(t, p, r.Get(first))
	assert.Equal(t, fixed.Scalar(5), r.Get(first).Pos.X)
}

func TestInterleavedAddFreeProperty(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		r := NewRegistry()
		live := map[ID]bool{}
		adds, frees := 0, 0

		for step := 0; step < 2000; step++ {
			if len(live) == 0 || rng.Intn(3) != 0 {
				id := r.New()
				r.Add(id)
				live[id] = true
				adds++
			} else {
				// Free a random live sprite.
				k := rng.Intn(len(live))
				for id := range live {
					if k == 0 {
						r.Free(id)
						delete(live, id)
						frees++
						break
					}
					k--
				}
			}
			if step%97 == 0 {
				require.NoError(t, r.Validate(), "seed %d step %d", seed, step)
			}
		}

		require.NoError(t, r.Validate(), "seed %d", seed)
		assert.Equal(t, adds-frees, r.Len())
		assert.Len(t, listIDs(r), adds-frees)
		for _, id := range listIDs(r) {
			assert.True(t, live[id], "seed %d: sprite %d listed but freed", seed, id)
		}
	}
}

func TestEachAllowsFreeingCurrent(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 6; i++ {
		id := r.New()
		r.Get(id).Texture = uint16(i)
		r.Add(id)
	}

	r.Each(func(id ID, s *Sprite) bool {
		if s.Texture%2 == 0 {
			r.Free(id)
		}
		return true
	})

	assert.Equal(t, 3, r.Len())
	require.NoError(t, r.Validate())

	visited := 0
	r.Each(func(id ID, s *Sprite) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited, "returning false stops iteration")
}

func TestVisibleFlags(t *testing.T) {
	s := &Sprite{}
	assert.True(t, s.Visible(false))

	s.Flags = FlagEditorOnly
	assert.False(t, s.Visible(false))
	assert.True(t, s.Visible(true))

	s.Flags = FlagHidden
	assert.False(t, s.Visible(true))
}

func TestWorldSize(t *testing.T) {
	w, h := WorldSize(32, 64)
	assert.Equal(t, fixed.Half, w)
	assert.Equal(t, fixed.One, h)
}
