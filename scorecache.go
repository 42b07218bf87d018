package neighborset

// scoreCache memoizes pairwise scores over one pruning pass so repeated
// diversity checks against the same pair do not hit the similarity provider
// twice. It is single-threaded, owned by one pass, and discarded afterward.
//
// The key packs both ids into a uint64 with the anchor in the high half. The
// cache is deliberately asymmetric: callers always pass the same anchor node
// as a, so that provider is the score function bound to a.
type scoreCache struct {
	scores map[uint64]float32
}

func newScoreCache() *scoreCache {
	return &scoreCache{
		scores: make(map[uint64]float32),
	}
}

func (c *scoreCache) get(a, b int32, provider ScoreFunc) (float32, error) {
	key := uint64(uint32(a))<<32 | uint64(uint32(b))
	if score, ok := c.scores[key]; ok {
		return score, nil
	}
	score, err := provider(b)
	if err != nil {
		return 0, err
	}
	c.scores[key] = score
	return score, nil
}
