package formats

// Info is the behaviour block of an object: options, an opaque condition blob
// and a task list.
type Info struct {
	Unknown1 int32           `yaml:"unknown1"`
	Unknown2 int32           `yaml:"unknown2"`
	Unknown3 int32           `yaml:"unknown3"`
	Opts     Opts            `yaml:"opts"`
	Cond     []byte          `yaml:"cond"`
	Tasks    []TaskListEntry `yaml:"task_list"`
}

// Dialogs interprets the condition blob as a dialog table.
func (in *Info) Dialogs() (*DialogTable, error) {
	return ParseDialogs(in.Cond)
}

// decodeInfo reads an INFO block. Its stored length covers the END
// terminator.
func decodeInfo(r *Reader) (*Info, error) {
	in := &Info{}
	err := readChunk(r, TagInfo, label(TagInfo), func(sub *Reader) error {
		in.Unknown1 = sub.Int32()
		in.Unknown2 = sub.Int32()
		in.Unknown3 = sub.Int32()
		if err := sub.Err(); err != nil {
			return err
		}

		var err error
		if in.Opts, err = decodeOpts(sub); err != nil {
			return err
		}
		err = readChunk(sub, TagCond, label(TagCond), func(cr *Reader) error {
			in.Cond = cr.Rest()
			return cr.Err()
		})
		if err != nil {
			return err
		}
		if in.Tasks, err = decodeTaskList(sub, 0); err != nil {
			return err
		}
		readEnd(sub)
		return sub.Err()
	})
	return in, err
}

func encodeInfo(w *Writer, in *Info) error {
	return w.Chunk(TagInfo, func(cw *Writer) error {
		cw.Int32(in.Unknown1)
		cw.Int32(in.Unknown2)
		cw.Int32(in.Unknown3)
		if err := encodeOpts(cw, &in.Opts); err != nil {
			return err
		}
		err := cw.Chunk(TagCond, func(cc *Writer) error {
			cc.Bytes(in.Cond)
			return nil
		})
		if err != nil {
			return err
		}
		if err := encodeTaskList(cw, in.Tasks, 0); err != nil {
			return err
		}
		cw.End()
		return cw.Err()
	})
}
