package tl

// PutVector writes a boxed Vector<T>: the vector identifier, the count, then
// each element through put.
func PutVector[T any](w *Writer, items []T, put func(*Writer, T)) {
	w.PutID(VectorID)
	PutBareVector(w, items, put)
}

// PutBareVector writes vector<T> without the identifier.
func PutBareVector[T any](w *Writer, items []T, put func(*Writer, T)) {
	w.PutInt32(int32(len(items)))
	for _, item := range items {
		put(w, item)
	}
}

// ReadVector reads a boxed Vector<T> using read for each element.
func ReadVector[T any](r *Reader, read func(*Reader) (T, error)) ([]T, error) {
	start := r.pos()
	id, err := r.ReadID()
	if err != nil {
		return nil, err
	}
	if id != VectorID {
		return nil, &Error{Kind: KindMalformedData, Offset: start, ID: id, Message: "expected vector constructor"}
	}
	return ReadBareVector(r, read)
}

// ReadBareVector reads vector<T>: a count followed by that many elements.
// Every TL element occupies at least 4 bytes, so a count that cannot fit in
// the remaining buffer is rejected before anything is allocated.
func ReadBareVector[T any](r *Reader, read func(*Reader) (T, error)) ([]T, error) {
	start := r.pos()
	n, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 || int(n) > r.Remaining()/4 {
		return nil, malformed(start, "vector count %d does not fit in %d remaining bytes", n, r.Remaining())
	}
	out := make([]T, 0, n)
	for i := 0; i < int(n); i++ {
		v, err := read(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// PutObjectVector writes Vector<T> of boxed elements.
func PutObjectVector[T Object](w *Writer, items []T) {
	PutVector(w, items, func(w *Writer, v T) { w.PutObject(v) })
}

// ReadObjectVector reads Vector<T> of boxed elements, each of Go type T.
func ReadObjectVector[T Object](r *Reader) ([]T, error) {
	return ReadVector(r, ReadObjectAs[T])
}
