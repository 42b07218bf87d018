package neighborset

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/klauspost/compress/zstd"
)

// Snapshot codec: a fixed little-endian layout inside a zstd frame. The
// codec serializes adjacency only; callers own files, objects and whatever
// sits around them.

const (
	setMagic   = uint32(0x4e425253) // "NBRS"
	graphMagic = uint32(0x4e425247) // "NBRG"

	codecVersion = uint16(1)
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// WriteTo writes the current snapshot to w. The snapshot is read once; edges
// inserted afterwards are not included.
func (s *ConcurrentNeighborSet) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}

	enc, err := zstd.NewWriter(cw)
	if err != nil {
		return 0, err
	}

	if err := writeSetHeader(enc, s); err != nil {
		enc.Close()
		return cw.n, err
	}
	if err := writeSnapshot(enc, s.neighbors.Load()); err != nil {
		enc.Close()
		return cw.n, err
	}

	if err := enc.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadSet reconstructs a set written by WriteTo. The similarity provider is
// not serialized and must be supplied by the caller.
func ReadSet(r io.Reader, similarity Similarity) (*ConcurrentNeighborSet, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return readSet(dec, similarity)
}

// WriteTo writes every set of the graph into one zstd frame.
func (g *Graph) WriteTo(w io.Writer) (int64, error) {
	g.mu.RLock()
	ids := make([]int32, 0, len(g.sets))
	for id := range g.sets {
		ids = append(ids, id)
	}
	sets := make([]*ConcurrentNeighborSet, 0, len(ids))
	g.mu.RUnlock()

	// Deterministic output: sets ordered by node id.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if s, ok := g.Set(id); ok {
			sets = append(sets, s)
		}
	}

	cw := &countingWriter{w: w}
	enc, err := zstd.NewWriter(cw)
	if err != nil {
		return 0, err
	}

	if err := writeGraphPayload(enc, g, sets); err != nil {
		enc.Close()
		return cw.n, err
	}

	if err := enc.Close(); err != nil {
		return cw.n, err
	}

	if g.opts.Logger != nil {
		g.opts.Logger.WithOp("encode").Info("graph snapshot written",
			"nodes", len(sets),
			"bytes", cw.n,
		)
	}
	return cw.n, nil
}

// ReadGraph reconstructs a graph written by Graph.WriteTo.
func ReadGraph(r io.Reader, similarity Similarity, optFns ...func(o *Options)) (*Graph, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var magic uint32
	if err := binary.Read(dec, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if magic != graphMagic {
		return nil, fmt.Errorf("%w: bad graph magic %#x", ErrInvalidSnapshot, magic)
	}
	var version uint16
	if err := binary.Read(dec, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if version != codecVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, version)
	}

	var (
		maxConnections uint32
		alphaBits      uint32
		count          uint32
	)
	if err := readAll(dec, &maxConnections, &alphaBits, &count); err != nil {
		return nil, err
	}

	g := NewGraph(int(maxConnections), similarity, append([]func(o *Options){
		WithAlpha(math.Float32frombits(alphaBits)),
	}, optFns...)...)

	for i := uint32(0); i < count; i++ {
		s, err := readSet(dec, similarity)
		if err != nil {
			return nil, err
		}
		g.mu.Lock()
		g.sets[s.nodeID] = s
		g.mu.Unlock()
	}

	return g, nil
}

func writeSetHeader(w io.Writer, s *ConcurrentNeighborSet) error {
	return writeAll(w,
		setMagic,
		codecVersion,
		s.nodeID,
		uint32(s.maxConnections),
		math.Float32bits(s.alpha),
	)
}

func writeSnapshot(w io.Writer, arr *ConcurrentNeighborArray) error {
	if err := writeAll(w, uint32(arr.Size())); err != nil {
		return err
	}
	for i := 0; i < arr.Size(); i++ {
		if err := writeAll(w, arr.Node(i), math.Float32bits(arr.Score(i))); err != nil {
			return err
		}
	}
	return nil
}

func writeGraphPayload(w io.Writer, g *Graph, sets []*ConcurrentNeighborSet) error {
	if err := writeAll(w,
		graphMagic,
		codecVersion,
		uint32(g.maxConnections),
		math.Float32bits(g.opts.Alpha),
		uint32(len(sets)),
	); err != nil {
		return err
	}
	for _, s := range sets {
		if err := writeSetHeader(w, s); err != nil {
			return err
		}
		if err := writeSnapshot(w, s.neighbors.Load()); err != nil {
			return err
		}
	}
	return nil
}

func readSet(r io.Reader, similarity Similarity) (*ConcurrentNeighborSet, error) {
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if magic != setMagic {
		return nil, fmt.Errorf("%w: bad set magic %#x", ErrInvalidSnapshot, magic)
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if version != codecVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, version)
	}

	var (
		nodeID         int32
		maxConnections uint32
		alphaBits      uint32
		count          uint32
	)
	if err := readAll(r, &nodeID, &maxConnections, &alphaBits, &count); err != nil {
		return nil, err
	}
	if count > maxConnections {
		return nil, fmt.Errorf("%w: %d entries exceed bound %d", ErrInvalidSnapshot, count, maxConnections)
	}

	arr := NewConcurrentNeighborArray(int(maxConnections), true)
	for i := uint32(0); i < count; i++ {
		var (
			node      int32
			scoreBits uint32
		)
		if err := readAll(r, &node, &scoreBits); err != nil {
			return nil, err
		}
		if node == nodeID {
			return nil, fmt.Errorf("%w: self loop at node %d", ErrInvalidSnapshot, nodeID)
		}
		if err := arr.AddInOrder(node, math.Float32frombits(scoreBits)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
	}

	s := New(nodeID, int(maxConnections), similarity, WithAlpha(math.Float32frombits(alphaBits)))
	s.neighbors.Store(arr)
	return s, nil
}

func writeAll(w io.Writer, values ...any) error {
	for _, v := range values {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readAll(r io.Reader, values ...any) error {
	for _, v := range values {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
	}
	return nil
}
