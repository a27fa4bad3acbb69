package formats

import "fmt"

// firstObjectIndex is the index given to the first object.
const firstObjectIndex = 1

// AnimationEvent is a named value attached to an object animation.
type AnimationEvent struct {
	Name  string  `yaml:"name"`
	Value float32 `yaml:"unknown1"`
}

// ObjectAnimation is one animation an object can play.
type ObjectAnimation struct {
	Name              string           `yaml:"name"`
	Unknown1          int32            `yaml:"unknown1"`
	Unknown2          float32          `yaml:"unknown2"`
	Unknown3          float32          `yaml:"unknown3"`
	Unknown4          int32            `yaml:"unknown4"`
	AlwaysNegative100 float32          `yaml:"always_negative100"`
	Unknown5          int32            `yaml:"unknown5"`
	Unknown6          int32            `yaml:"unknown6"`
	Events            []AnimationEvent `yaml:"unknown7"`
}

// Object is one OBJ entry: a placeable object definition.
type Object struct {
	Index        int32             `yaml:"index"`
	Type         int32             `yaml:"type"`
	Name         string            `yaml:"name"`
	ParentFolder int32             `yaml:"parent_folder"`
	Animations   []ObjectAnimation `yaml:"animations"`
	Info         *Info             `yaml:"info"`
}

func decodeObjects(r *Reader) ([]Object, error) {
	var objects []Object
	err := readContainer(r, TagObjects, TagObject, func(i int, sub *Reader) error {
		o, err := decodeObject(sub)
		o.Index = int32(i + firstObjectIndex)
		objects = append(objects, o)
		return err
	})
	return objects, err
}

func decodeObject(r *Reader) (Object, error) {
	o := Object{
		Type:         r.Int32(),
		Name:         r.Name(),
		ParentFolder: r.Int32(),
	}
	n := r.Count()
	for i := 0; i < n && r.Err() == nil; i++ {
		a := ObjectAnimation{
			Name:              r.Name(),
			Unknown1:          r.Int32(),
			Unknown2:          r.Float32(),
			Unknown3:          r.Float32(),
			Unknown4:          r.Int32(),
			AlwaysNegative100: r.Float32(),
			Unknown5:          r.Int32(),
			Unknown6:          r.Int32(),
		}
		events := r.Count()
		for j := 0; j < events && r.Err() == nil; j++ {
			a.Events = append(a.Events, AnimationEvent{Name: r.Name(), Value: r.Float32()})
		}
		o.Animations = append(o.Animations, a)
	}
	if err := r.Err(); err != nil {
		return o, err
	}
	info, err := decodeInfo(r)
	o.Info = info
	return o, err
}

func encodeObjects(w *Writer, objects []Object) error {
	return writeContainer(w, TagObjects, TagObject, len(objects), func(i int, cw *Writer) error {
		return encodeObject(cw, &objects[i])
	})
}

func encodeObject(w *Writer, o *Object) error {
	w.Int32(o.Type)
	w.Name(o.Name)
	w.Int32(o.ParentFolder)
	w.Count(len(o.Animations))
	for _, a := range o.Animations {
		w.Name(a.Name)
		w.Int32(a.Unknown1)
		w.Float32(a.Unknown2)
		w.Float32(a.Unknown3)
		w.Int32(a.Unknown4)
		w.Float32(a.AlwaysNegative100)
		w.Int32(a.Unknown5)
		w.Int32(a.Unknown6)
		w.Count(len(a.Events))
		for _, e := range a.Events {
			w.Name(e.Name)
			w.Float32(e.Value)
		}
	}
	if o.Info == nil {
		return fmt.Errorf("%w: object %q has no info block", ErrMissingPayload, o.Name)
	}
	return encodeInfo(w, o.Info)
}

// ParseObjects decodes a standalone OBJS container.
func ParseObjects(data []byte) ([]Object, error) {
	return decodeObjects(NewReader(data))
}

// EncodeObjects encodes objects as an OBJS container.
func EncodeObjects(objects []Object) ([]byte, error) {
	w := NewWriter()
	if err := encodeObjects(w, objects); err != nil {
		return nil, err
	}
	return w.Data(), nil
}
