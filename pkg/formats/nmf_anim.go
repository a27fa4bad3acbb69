package formats

import "fmt"

const tagAnim = "ANIM"

// Curve is the keyframe data of one axis. Values and Keys have equal length.
type Curve struct {
	Values []RawFloat `yaml:"values"`
	Keys   []RawFloat `yaml:"keys"`
}

// Track holds the x, y and z curves of one channel. Absent axes are nil.
type Track [3]*Curve

// Animation is the keyframe block attached to frames and joints.
type Animation struct {
	Flag        int32 `yaml:"unknown"`
	Translation Track `yaml:"translation"`
	Rotation    Track `yaml:"rotation"`
	Scaling     Track `yaml:"scaling"`
}

// tracks returns the channels in stream order.
func (a *Animation) tracks() [3]*Track {
	return [3]*Track{&a.Translation, &a.Rotation, &a.Scaling}
}

// readAnimation reads an optional ANIM block. A zero word stands for no
// animation.
func readAnimation(r *Reader) *Animation {
	if r.Tag() != tagAnim {
		return nil
	}
	a := &Animation{Flag: r.Int32()}

	var sizes [3][3]int
	for t := range sizes {
		for axis := range sizes[t] {
			sizes[t][axis] = r.Count()
		}
	}
	for t, track := range a.tracks() {
		for axis, n := range sizes[t] {
			if n == 0 {
				continue
			}
			c := &Curve{Values: r.RawFloats(n), Keys: r.RawFloats(n)}
			track[axis] = c
		}
	}
	return a
}

// writeAnimation writes a or the zero word when a is nil. The whole size
// matrix precedes the curve data.
func writeAnimation(w *Writer, a *Animation) error {
	if a == nil {
		w.Int32(0)
		return nil
	}
	names := [3]string{"translation", "rotation", "scaling"}
	tracks := a.tracks()
	for t, track := range tracks {
		for axis, c := range track {
			if c != nil && len(c.Keys) != len(c.Values) {
				return fmt.Errorf("%w: %s axis %d has %d values and %d keys",
					ErrInvalidCount, names[t], axis, len(c.Values), len(c.Keys))
			}
		}
	}

	w.Tag(tagAnim)
	w.Int32(a.Flag)
	for _, track := range tracks {
		for _, c := range track {
			if c == nil {
				w.Int32(0)
				continue
			}
			w.Count(len(c.Values))
		}
	}
	for _, track := range tracks {
		for _, c := range track {
			if c == nil {
				continue
			}
			w.RawFloats(c.Values)
			w.RawFloats(c.Keys)
		}
	}
	return w.Err()
}
