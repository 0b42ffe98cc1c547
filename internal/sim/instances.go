package sim

// InstanceStride is the number of floats per instance:
// x, y, z, scale, r, g, b, a.
const InstanceStride = 8

// InstanceBuffer is a batched per-instance attribute array consumed by the
// renderer. A single Dirty flag covers the whole buffer.
type InstanceBuffer struct {
	Data  []float32
	Dirty bool
}

func NewInstanceBuffer(n int) *InstanceBuffer {
	return &InstanceBuffer{Data: make([]float32, n*InstanceStride)}
}

// Len returns the instance count.
func (b *InstanceBuffer) Len() int { return len(b.Data) / InstanceStride }

// Set writes one instance. Colour components are in [0,1].
func (b *InstanceBuffer) Set(i int, x, y, z, scale float64, r, g, bl, a float32) {
	o := i * InstanceStride
	d := b.Data[o : o+InstanceStride : o+InstanceStride]
	d[0] = float32(x)
	d[1] = float32(y)
	d[2] = float32(z)
	d[3] = float32(scale)
	d[4] = r
	d[5] = g
	d[6] = bl
	d[7] = a
}

// At returns the position, scale and alpha of instance i.
func (b *InstanceBuffer) At(i int) (x, y, z, scale, alpha float32) {
	o := i * InstanceStride
	return b.Data[o], b.Data[o+1], b.Data[o+2], b.Data[o+3], b.Data[o+7]
}

// Consume reports whether the buffer changed since the last call and clears
// the flag.
func (b *InstanceBuffer) Consume() bool {
	d := b.Dirty
	b.Dirty = false
	return d
}
