package pfx

// InstanceDataOffset is a byte offset into the per-instance scratch region of a
// component. Offsets are only valid for the compile generation that produced them.
type InstanceDataOffset uint32

// instanceDataAllocator packs requests back to back. Requests are expected to be
// sized for their own alignment.
type instanceDataAllocator struct {
	size uint32
}

func (a *instanceDataAllocator) add(size uint32) InstanceDataOffset {
	offset := InstanceDataOffset(a.size)
	a.size += size
	return offset
}

func (a *instanceDataAllocator) total() uint32 {
	return a.size
}
