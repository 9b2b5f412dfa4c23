package tl

// Flags is the `#` bitmask that gates conditional fields.
type Flags uint32

func (f Flags) Has(bit int) bool {
	return f&(1<<uint(bit)) != 0
}

func (f *Flags) Set(bit int) {
	*f |= 1 << uint(bit)
}

func (f *Flags) Clear(bit int) {
	*f &^= 1 << uint(bit)
}

// SetIf sets bit when present is true. Encoders call it for every optional
// field before the bitmask is written.
func (f *Flags) SetIf(bit int, present bool) {
	if present {
		f.Set(bit)
	}
}
