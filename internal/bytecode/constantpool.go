package bytecode

import "github.com/cwbudde/go-twlang/internal/value"

// ConstantPool is the indexed table of Values shared by compiled code:
// globals, string/function literals, and struct templates all live here,
// addressed by `gload`/`gstore`/`call` operands (spec.md §4.G). Grounded on
// original_source/bcvm/constant_pool.hpp: alloc reuses freed slots from a
// LIFO free-list before growing.
type ConstantPool struct {
	data     []value.Value
	freeList []int
}

// NewConstantPool creates an empty pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{}
}

// Alloc reserves a slot holding v and returns its index.
func (p *ConstantPool) Alloc(v value.Value) int {
	if n := len(p.freeList); n > 0 {
		addr := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.data[addr] = v
		return addr
	}
	p.data = append(p.data, v)
	return len(p.data) - 1
}

// UpdateAt overwrites the slot at addr.
func (p *ConstantPool) UpdateAt(addr int, v value.Value) {
	if addr >= 0 && addr < len(p.data) {
		p.data[addr] = v
	}
}

// Free returns addr to the free-list for reuse by a later Alloc.
func (p *ConstantPool) Free(addr int) {
	p.freeList = append(p.freeList, addr)
}

// Get reads the slot at addr, or Null if addr is out of range.
func (p *ConstantPool) Get(addr int) value.Value {
	if addr < 0 || addr >= len(p.data) {
		return value.NullValue
	}
	return p.data[addr]
}

func (p *ConstantPool) Len() int { return len(p.data) }
