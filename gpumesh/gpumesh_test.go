// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpumesh

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/depthmesh"
	"github.com/gogpu/depthmesh/grid"
	"github.com/gogpu/depthmesh/mesh"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct {
	polls int
}

func (m *mockDevice) Poll(wait bool) { m.polls++ }
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	device  *mockDevice
	queue   gpucontext.Queue
	adapter gpucontext.Adapter
	format  gputypes.TextureFormat
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		device:  &mockDevice{},
		queue:   &mockQueue{},
		adapter: &mockAdapter{},
		format:  gputypes.TextureFormatBGRA8Unorm,
	}
}

func (m *mockProvider) Device() gpucontext.Device             { return m.device }
func (m *mockProvider) Queue() gpucontext.Queue               { return m.queue }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return m.adapter }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

// mockWriter records uploads.
type mockWriter struct {
	writes     int
	indexCount map[int]int
	vertexLen  map[int]int
	allocated  map[int][2]int
	releases   int
	failWrite  error
	failAlloc  error
	failTile   int
}

func newMockWriter() *mockWriter {
	return &mockWriter{
		indexCount: map[int]int{},
		vertexLen:  map[int]int{},
		allocated:  map[int][2]int{},
	}
}

func (m *mockWriter) WriteTile(tile int, vertices, indices []byte, indexCount int) error {
	if m.failWrite != nil {
		return m.failWrite
	}
	m.writes++
	m.indexCount[tile] = indexCount
	m.vertexLen[tile] = len(vertices)
	if len(indices) != indexCount*IndexSize {
		return errors.New("index bytes do not match index count")
	}
	return nil
}

func (m *mockWriter) AllocateTile(tile int, vertexSize, indexSize int) error {
	if m.failAlloc != nil && tile == m.failTile {
		return m.failAlloc
	}
	m.allocated[tile] = [2]int{vertexSize, indexSize}
	return nil
}

func (m *mockWriter) ReleaseTiles() {
	m.releases++
	clear(m.allocated)
}

// countingWriter is a BufferWriter without optional interfaces.
type countingWriter struct{ writes int }

func (c *countingWriter) WriteTile(int, []byte, []byte, int) error {
	c.writes++
	return nil
}

func testTiles(t *testing.T, w, h, budget int, normals bool) (grid.Topology, []*mesh.Tile) {
	t.Helper()
	topo, err := grid.Build(w, h, budget)
	if err != nil {
		t.Fatalf("grid.Build() error = %v", err)
	}
	return topo, mesh.Allocate(topo, normals)
}

func readFloat(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestLayout(t *testing.T) {
	tests := []struct {
		normals bool
		stride  int
		attrs   int
	}{
		{false, 20, 2},
		{true, 32, 3},
	}
	for _, tt := range tests {
		l := Layout(tt.normals)
		if int(l.ArrayStride) != tt.stride || Stride(tt.normals) != tt.stride {
			t.Errorf("Layout(%v).ArrayStride = %d, want %d", tt.normals, l.ArrayStride, tt.stride)
		}
		if len(l.Attributes) != tt.attrs {
			t.Fatalf("Layout(%v) has %d attributes, want %d", tt.normals, len(l.Attributes), tt.attrs)
		}
		for i, a := range l.Attributes {
			if int(a.ShaderLocation) != i {
				t.Errorf("attribute %d: ShaderLocation = %d", i, a.ShaderLocation)
			}
		}
		if l.Attributes[1].Offset != 12 || l.Attributes[1].Format != gputypes.VertexFormatFloat32x2 {
			t.Errorf("uv attribute = %+v, want float32x2 at 12", l.Attributes[1])
		}
	}
	if Primitive().Topology != gputypes.PrimitiveTopologyTriangleList {
		t.Error("Primitive().Topology is not a triangle list")
	}
	if VertexUsage()&gputypes.BufferUsageVertex == 0 || IndexUsage()&gputypes.BufferUsageIndex == 0 {
		t.Error("buffer usages miss vertex or index flags")
	}
}

func TestPackVertices(t *testing.T) {
	_, tiles := testTiles(t, 3, 4, 64998, false)
	tile := tiles[0]

	buf := PackVertices(nil, tile, false)
	if len(buf) != tile.VertexCount()*VertexStride {
		t.Fatalf("len = %d, want %d", len(buf), tile.VertexCount()*VertexStride)
	}
	for i, p := range tile.Positions() {
		off := i * VertexStride
		got := mesh.Vec3{X: readFloat(buf, off), Y: readFloat(buf, off+4), Z: readFloat(buf, off+8)}
		if got != p {
			t.Errorf("vertex %d position = %v, want %v", i, got, p)
		}
		uv := mesh.UV{U: readFloat(buf, off+12), V: readFloat(buf, off+16)}
		if uv != tile.UVs()[i] {
			t.Errorf("vertex %d uv = %v, want %v", i, uv, tile.UVs()[i])
		}
	}
}

func TestPackVerticesNormals(t *testing.T) {
	// Normals requested on a tile that has none fall back to facing the camera.
	_, tiles := testTiles(t, 2, 2, 64998, false)
	buf := PackVertices(nil, tiles[0], true)
	if len(buf) != 4*VertexStrideWithNormals {
		t.Fatalf("len = %d, want %d", len(buf), 4*VertexStrideWithNormals)
	}
	for i := range 4 {
		off := i*VertexStrideWithNormals + 20
		n := mesh.Vec3{X: readFloat(buf, off), Y: readFloat(buf, off+4), Z: readFloat(buf, off+8)}
		if n != (mesh.Vec3{Z: -1}) {
			t.Errorf("vertex %d normal = %v, want (0,0,-1)", i, n)
		}
	}

	_, tiles = testTiles(t, 2, 2, 64998, true)
	tiles[0].RecalculateNormals()
	buf = PackVertices(buf, tiles[0], true)
	want := tiles[0].Normals()[3]
	off := 3*VertexStrideWithNormals + 20
	if got := (mesh.Vec3{X: readFloat(buf, off), Y: readFloat(buf, off+4), Z: readFloat(buf, off+8)}); got != want {
		t.Errorf("vertex 3 normal = %v, want %v", got, want)
	}
}

func TestPackIndices(t *testing.T) {
	_, tiles := testTiles(t, 4, 3, 64998, false)
	tile := tiles[0]
	buf := PackIndices(nil, tile)
	active := tile.ActiveTriangles()
	if len(buf) != len(active)*IndexSize {
		t.Fatalf("len = %d, want %d", len(buf), len(active)*IndexSize)
	}
	for i, want := range active {
		if got := binary.LittleEndian.Uint32(buf[i*IndexSize:]); got != want {
			t.Errorf("index %d = %d, want %d", i, got, want)
		}
	}
}

func TestPackReusesBuffer(t *testing.T) {
	_, tiles := testTiles(t, 4, 3, 64998, false)
	staging := make([]byte, 0, 1024)
	got := PackVertices(staging, tiles[0], false)
	if &got[0] != &staging[:1][0] {
		t.Error("PackVertices reallocated a buffer with enough capacity")
	}
	got = PackIndices(staging, tiles[0])
	if &got[0] != &staging[:1][0] {
		t.Error("PackIndices reallocated a buffer with enough capacity")
	}
}

func TestNewSinkErrors(t *testing.T) {
	if _, err := NewSink(nil, newMockWriter()); !errors.Is(err, ErrNilProvider) {
		t.Errorf("NewSink(nil provider) = %v, want ErrNilProvider", err)
	}
	if _, err := NewSink(newMockProvider(), nil); !errors.Is(err, ErrNilWriter) {
		t.Errorf("NewSink(nil writer) = %v, want ErrNilWriter", err)
	}
}

func TestSinkWithPipeline(t *testing.T) {
	provider := newMockProvider()
	writer := newMockWriter()
	sink, err := NewSink(provider, writer)
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}

	cfg := depthmesh.DefaultConfig()
	cfg.MaxVerticesPerTile = 12
	p, err := depthmesh.NewPipeline(cfg, sink)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}

	f := &depthmesh.Frame{
		Depth:       make([]uint16, 4*7),
		Width:       4,
		Height:      7,
		ColorPoints: make([]depthmesh.ColorPoint, 4*7),
		ColorWidth:  4,
		ColorHeight: 7,
		Texture:     "rgb",
	}
	for i := range f.Depth {
		f.Depth[i] = 2000
	}
	f.Depth[9] = 3000

	if err := p.ProcessFrame(f); err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}

	tiles := p.Tiles()
	if writer.writes != len(tiles) {
		t.Errorf("writes = %d, want %d", writer.writes, len(tiles))
	}
	topo := p.Topology()
	for i, tile := range tiles {
		if got := writer.indexCount[i]; got != len(tile.ActiveTriangles()) {
			t.Errorf("tile %d: indexCount = %d, want %d", i, got, len(tile.ActiveTriangles()))
		}
		if got := writer.vertexLen[i]; got != tile.VertexCount()*VertexStride {
			t.Errorf("tile %d: vertex bytes = %d, want %d", i, got, tile.VertexCount()*VertexStride)
		}
		want := [2]int{topo.VertexCount(i) * VertexStride, topo.TriangleIndexCount(i) * IndexSize}
		if got := writer.allocated[i]; got != want {
			t.Errorf("tile %d: allocated %v, want %v", i, got, want)
		}
	}
	if sink.Texture() != "rgb" || sink.Frames() != 1 {
		t.Errorf("Texture() = %v, Frames() = %d, want rgb, 1", sink.Texture(), sink.Frames())
	}

	// A size change waits for the device and releases the old buffers.
	f2 := &depthmesh.Frame{
		Depth:       make([]uint16, 3*3),
		Width:       3,
		Height:      3,
		ColorPoints: make([]depthmesh.ColorPoint, 3*3),
		ColorWidth:  3,
		ColorHeight: 3,
	}
	if err := p.ProcessFrame(f2); err != nil {
		t.Fatalf("ProcessFrame(3x3) error = %v", err)
	}
	if provider.device.polls != 1 || writer.releases != 1 {
		t.Errorf("polls = %d, releases = %d, want 1, 1", provider.device.polls, writer.releases)
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if writer.releases != 2 {
		t.Errorf("releases after Close = %d, want 2", writer.releases)
	}
	if sink.Provider() != nil {
		t.Error("Provider() after Close is not nil")
	}
	if err := p.ProcessFrame(f2); !errors.Is(err, ErrSinkClosed) {
		t.Errorf("ProcessFrame() after Close = %v, want ErrSinkClosed", err)
	}
}

func TestSinkNormalsLayout(t *testing.T) {
	sink, err := NewSink(newMockProvider(), &countingWriter{})
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}
	topo, tiles := testTiles(t, 3, 3, 64998, true)
	if err := sink.Rebuild(topo, tiles); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if !sink.Normals() || sink.Layout().ArrayStride != VertexStrideWithNormals {
		t.Errorf("Normals() = %v, ArrayStride = %d, want true, 32", sink.Normals(), sink.Layout().ArrayStride)
	}
}

func TestSinkPublishErrors(t *testing.T) {
	writer := newMockWriter()
	sink, err := NewSink(newMockProvider(), writer)
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}
	topo, tiles := testTiles(t, 4, 4, 8, false)

	if err := sink.Publish(&depthmesh.Output{Topology: topo, Tiles: tiles}); !errors.Is(err, ErrTileMismatch) {
		t.Errorf("Publish() before Rebuild = %v, want ErrTileMismatch", err)
	}

	if err := sink.Rebuild(topo, tiles); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	boom := errors.New("device lost")
	writer.failWrite = boom
	if err := sink.Publish(&depthmesh.Output{Topology: topo, Tiles: tiles}); !errors.Is(err, boom) {
		t.Errorf("Publish() = %v, want wrapped device lost", err)
	}
}

func TestSinkRebuildAllocateFailureReleases(t *testing.T) {
	writer := newMockWriter()
	writer.failAlloc = errors.New("out of memory")
	writer.failTile = 2
	sink, err := NewSink(newMockProvider(), writer)
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}
	topo, tiles := testTiles(t, 4, 10, 8, false) // 9 tiles

	if err := sink.Rebuild(topo, tiles); !errors.Is(err, writer.failAlloc) {
		t.Fatalf("Rebuild() = %v, want wrapped out of memory", err)
	}
	if writer.releases != 1 {
		t.Errorf("releases = %d, want 1", writer.releases)
	}
	if len(writer.allocated) != 0 {
		t.Errorf("allocated after failed Rebuild = %v, want none", writer.allocated)
	}
	if err := sink.Publish(&depthmesh.Output{Topology: topo, Tiles: tiles}); !errors.Is(err, ErrTileMismatch) {
		t.Errorf("Publish() after failed Rebuild = %v, want ErrTileMismatch", err)
	}

	writer.failAlloc = nil
	if err := sink.Rebuild(topo, tiles); err != nil {
		t.Fatalf("Rebuild() retry error = %v", err)
	}
	if len(writer.allocated) != topo.TileCount() {
		t.Errorf("allocated %d tiles, want %d", len(writer.allocated), topo.TileCount())
	}
}

func TestSinkPublishDoesNotAllocate(t *testing.T) {
	sink, err := NewSink(newMockProvider(), &countingWriter{})
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}
	topo, tiles := testTiles(t, 64, 48, 640, true)
	if err := sink.Rebuild(topo, tiles); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	out := &depthmesh.Output{Topology: topo, Tiles: tiles}
	allocs := testing.AllocsPerRun(50, func() {
		_ = sink.Publish(out)
	})
	if allocs != 0 {
		t.Errorf("Publish() allocates %v times per frame, want 0", allocs)
	}
}

func BenchmarkPackTile(b *testing.B) {
	topo, err := grid.Build(512, 424, 64998)
	if err != nil {
		b.Fatal(err)
	}
	tile := mesh.Allocate(topo, false)[0]
	var vbuf, ibuf []byte
	b.ReportAllocs()
	for b.Loop() {
		vbuf = PackVertices(vbuf, tile, false)
		ibuf = PackIndices(ibuf, tile)
	}
}
