package vdom

// Clone returns a shallow copy of the node with its own Props map.
// Children are shared with the original.
func (v *VNode) Clone() *VNode {
	if v == nil {
		return nil
	}
	clone := *v
	if v.Props != nil {
		clone.Props = make(Props, len(v.Props))
		for k, val := range v.Props {
			clone.Props[k] = val
		}
	}
	return &clone
}

// WithExtraAttributes returns a copy of the node with extra merged over its
// own props. The receiver is not modified.
//
// Only elements carry attributes: for a fragment the extras go to each
// element child; text and raw nodes are returned unchanged.
func (v *VNode) WithExtraAttributes(extra Props) *VNode {
	if v == nil {
		return nil
	}
	if len(extra) == 0 {
		return v.Clone()
	}

	switch v.Kind {
	case KindElement:
		clone := v.Clone()
		if clone.Props == nil {
			clone.Props = make(Props, len(extra))
		}
		MergeProps(clone.Props, extra)
		return clone
	case KindFragment:
		clone := v.Clone()
		clone.Children = make([]*VNode, len(v.Children))
		for i, child := range v.Children {
			clone.Children[i] = child.WithExtraAttributes(extra)
		}
		return clone
	default:
		return v.Clone()
	}
}

// MergeProps copies src into dst. A nil value deletes the key from dst.
// Keys are normalized with AttrName, so a "className" in src replaces a
// "class" in dst.
func MergeProps(dst, src Props) {
	for k, val := range src {
		k = AttrName(k)
		if val == nil {
			delete(dst, k)
			continue
		}
		dst[k] = val
	}
}

// Attrs converts attributes into a Props map. Empty attributes are skipped.
func Attrs(attrs ...Attr) Props {
	props := make(Props, len(attrs))
	for _, a := range attrs {
		if a.IsEmpty() {
			continue
		}
		props[a.Key] = a.Value
	}
	return props
}
