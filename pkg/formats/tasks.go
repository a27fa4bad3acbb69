package formats

import "fmt"

// MaxTaskDepth bounds how deep dependency blocks may nest task lists.
const MaxTaskDepth = 64

// blobSize is the byte size of type 15 task parameters.
const blobSize = 36

// ActionCode is an ACOD block: four opaque integers.
type ActionCode [4]int32

// TaskParam is one typed task parameter. Value holds a Vec3 (type 2), a
// float32 (3), an int32 (4, 5, 8, 9, 10), a string (6, 12, 16), an
// ActionCode (7) or a []byte of 36 bytes (15).
type TaskParam struct {
	Type  int32       `yaml:"type"`
	Value interface{} `yaml:"values"`
}

// Task is one TASK entry.
type Task struct {
	Unknown1 int32       `yaml:"unknown1"`
	Unknown2 int32       `yaml:"unknown2"`
	ID       int32       `yaml:"task_id"`
	Default  bool        `yaml:"default"`
	Critical bool        `yaml:"critical"`
	Params   []TaskParam `yaml:"params"`
}

// Dependence is a DPND entry. It nests a task list of its own.
type Dependence struct {
	Unknown1 int32           `yaml:"unknown1"`
	Code     ActionCode      `yaml:"acod,flow"`
	Unknown2 [4]int32        `yaml:"unknown2,flow"`
	Tasks    []TaskListEntry `yaml:"tali"`
	Unknown3 [9]int32        `yaml:"unknown3,flow"`
	Type     int32           `yaml:"type"`
	Unknown4 []int32         `yaml:"unknown4,flow,omitempty"` // 2 ints for type 1, 4 for type 2
}

// TaskListEntry is either a task or a dependence.
type TaskListEntry struct {
	Task       *Task       `yaml:"task,omitempty"`
	Dependence *Dependence `yaml:"dependence,omitempty"`
}

// dependenceTail returns the number of trailing ints for a dependence type.
func dependenceTail(typ int32) int {
	switch typ {
	case 1:
		return 2
	case 2:
		return 4
	}
	return 0
}

func decodeTaskList(r *Reader, depth int) ([]TaskListEntry, error) {
	if depth > MaxTaskDepth {
		r.Fail(ErrTooDeeplyNested)
		return nil, r.Err()
	}
	var list []TaskListEntry
	// The stored length covers the END terminator.
	err := readChunk(r, TagTaskList, label(TagTaskList), func(sub *Reader) error {
		sub.Int32() // reserved zero
		for i := 0; sub.Err() == nil; i++ {
			switch sub.PeekTag() {
			case TagTask:
				var t *Task
				err := readChunk(sub, TagTask, indexed(TagTask, i), func(tr *Reader) error {
					var err error
					t, err = decodeTask(tr)
					return err
				})
				if err != nil {
					return err
				}
				list = append(list, TaskListEntry{Task: t})
			case TagDependence:
				var d *Dependence
				err := readChunk(sub, TagDependence, indexed(TagDependence, i), func(dr *Reader) error {
					var err error
					d, err = decodeDependence(dr, depth)
					return err
				})
				if err != nil {
					return err
				}
				list = append(list, TaskListEntry{Dependence: d})
			default:
				readEnd(sub)
				return sub.Err()
			}
		}
		return sub.Err()
	})
	return list, err
}

func decodeTask(r *Reader) (*Task, error) {
	t := &Task{
		Unknown1: r.Int32(),
		Unknown2: r.Int32(),
		ID:       r.Int32(),
		Default:  r.Bool(),
		Critical: r.Bool(),
	}
	n := r.Count()
	for i := 0; i < n && r.Err() == nil; i++ {
		p := TaskParam{Type: r.Int32()}
		switch p.Type {
		case 2:
			p.Value = r.Vec3()
		case 3:
			p.Value = r.Float32()
		case 4, 5, 8, 9, 10:
			p.Value = r.Int32()
		case 6, 12, 16:
			p.Value = r.Name()
		case 7:
			var code ActionCode
			err := readChunk(r, TagActionCode, label(TagActionCode), func(ar *Reader) error {
				code = readActionCode(ar)
				return ar.Err()
			})
			if err != nil {
				return t, err
			}
			p.Value = code
		case 15:
			p.Value = r.Bytes(blobSize)
		default:
			if r.Err() == nil {
				r.Fail(&VariantError{Discriminant: p.Type, Context: fmt.Sprintf("task %d param %d", t.ID, i)})
			}
		}
		t.Params = append(t.Params, p)
	}
	return t, r.Err()
}

func readActionCode(r *Reader) ActionCode {
	return ActionCode{r.Int32(), r.Int32(), r.Int32(), r.Int32()}
}

func decodeDependence(r *Reader, depth int) (*Dependence, error) {
	d := &Dependence{Unknown1: r.Int32()}
	err := readChunk(r, TagActionCode, label(TagActionCode), func(ar *Reader) error {
		d.Code = readActionCode(ar)
		return ar.Err()
	})
	if err != nil {
		return d, err
	}
	for i := range d.Unknown2 {
		d.Unknown2[i] = r.Int32()
	}
	if err := r.Err(); err != nil {
		return d, err
	}
	d.Tasks, err = decodeTaskList(r, depth+1)
	if err != nil {
		return d, err
	}
	for i := range d.Unknown3 {
		d.Unknown3[i] = r.Int32()
	}
	d.Type = r.Int32()
	if n := dependenceTail(d.Type); n > 0 {
		d.Unknown4 = r.Int32s(n)
	}
	return d, r.Err()
}

func encodeTaskList(w *Writer, list []TaskListEntry, depth int) error {
	if depth > MaxTaskDepth {
		return ErrTooDeeplyNested
	}
	// The terminator is counted in the stored length.
	return w.Chunk(TagTaskList, func(cw *Writer) error {
		cw.Int32(0)
		for i := range list {
			e := &list[i]
			var err error
			switch {
			case e.Task != nil:
				err = cw.chunk(TagTask, indexed(TagTask, i), func(tw *Writer) error {
					return encodeTask(tw, e.Task)
				})
			case e.Dependence != nil:
				err = cw.chunk(TagDependence, indexed(TagDependence, i), func(dw *Writer) error {
					return encodeDependence(dw, e.Dependence, depth)
				})
			default:
				err = fmt.Errorf("%w: empty task list entry %d", ErrMissingPayload, i)
			}
			if err != nil {
				return err
			}
		}
		cw.End()
		return cw.Err()
	})
}

func encodeTask(w *Writer, t *Task) error {
	w.Int32(t.Unknown1)
	w.Int32(t.Unknown2)
	w.Int32(t.ID)
	w.Bool(t.Default)
	w.Bool(t.Critical)
	w.Count(len(t.Params))
	for i, p := range t.Params {
		if err := encodeTaskParam(w, p); err != nil {
			return fmt.Errorf("task %d param %d: %w", t.ID, i, err)
		}
	}
	return w.Err()
}

func encodeTaskParam(w *Writer, p TaskParam) error {
	mismatch := func() error {
		return fmt.Errorf("%w: type %d cannot hold %T", ErrMissingPayload, p.Type, p.Value)
	}
	w.Int32(p.Type)
	switch p.Type {
	case 2:
		v, ok := p.Value.(Vec3)
		if !ok {
			return mismatch()
		}
		w.Vec3(v)
	case 3:
		v, ok := p.Value.(float32)
		if !ok {
			return mismatch()
		}
		w.Float32(v)
	case 4, 5, 8, 9, 10:
		v, ok := p.Value.(int32)
		if !ok {
			return mismatch()
		}
		w.Int32(v)
	case 6, 12, 16:
		v, ok := p.Value.(string)
		if !ok {
			return mismatch()
		}
		w.Name(v)
	case 7:
		v, ok := p.Value.(ActionCode)
		if !ok {
			return mismatch()
		}
		return writeActionCode(w, v)
	case 15:
		v, ok := p.Value.([]byte)
		if !ok || len(v) != blobSize {
			return mismatch()
		}
		w.Bytes(v)
	default:
		return &VariantError{Discriminant: p.Type, Context: "task param"}
	}
	return w.Err()
}

func writeActionCode(w *Writer, code ActionCode) error {
	return w.Chunk(TagActionCode, func(cw *Writer) error {
		cw.Int32s(code[:])
		return nil
	})
}

func encodeDependence(w *Writer, d *Dependence, depth int) error {
	if n := dependenceTail(d.Type); len(d.Unknown4) != n {
		return fmt.Errorf("%w: dependence type %d needs %d trailing ints, got %d",
			ErrInvalidCount, d.Type, n, len(d.Unknown4))
	}
	w.Int32(d.Unknown1)
	if err := writeActionCode(w, d.Code); err != nil {
		return err
	}
	w.Int32s(d.Unknown2[:])
	if err := encodeTaskList(w, d.Tasks, depth+1); err != nil {
		return err
	}
	w.Int32s(d.Unknown3[:])
	w.Int32(d.Type)
	w.Int32s(d.Unknown4)
	return w.Err()
}
