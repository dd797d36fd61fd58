package value

// Merge returns the deep merge of v and other without modifying either.
// Two objects merge key by key, recursing into keys present on both sides.
// Every other pairing, arrays included, yields a copy of other.
func (v Value) Merge(other Value) Value {
	out := v.Clone()
	out.MergeInPlace(other)
	return out
}

// MergeInPlace merges other into v. Values taken from other are cloned, so the
// two trees never share nodes afterwards.
func (v *Value) MergeInPlace(other Value) {
	if v.kind != KindObject || other.kind != KindObject {
		*v = other.Clone()
		return
	}
	dst := v.data.(Map)
	src := other.data.(Map)
	for _, k := range src.Keys() {
		incoming := src[k]
		current, ok := dst[k]
		if !ok {
			dst[k] = incoming.Clone()
			continue
		}
		current.MergeInPlace(incoming)
		dst[k] = current
	}
}
