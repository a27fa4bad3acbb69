package formats

// DialogLine is one entry of a dialog table.
type DialogLine struct {
	Active      int32  `yaml:"active"`
	Question    string `yaml:"q"`
	Answer      string `yaml:"a"`
	DlgMinus    string `yaml:"dlg_minus"`
	DlgPlus     string `yaml:"dlg_plus"`
	AlwaysMinus string `yaml:"always_minus"`
	AlwaysPlus  string `yaml:"always_plus"`
	Always      int32  `yaml:"always"`
	Story       int32  `yaml:"story"`
	Cohesion    int32  `yaml:"cohesion"`
	DialogEvent int32  `yaml:"dialog_event"`
}

// DialogTable is the dialog view of a COND blob.
type DialogTable struct {
	Version int32        `yaml:"version"`
	Lines   []DialogLine `yaml:"dialogs"`
	// Value is set instead of Lines when the blob holds a single word after
	// the version.
	Value *int32 `yaml:"value,omitempty"`
	// Trailer holds the object type specific state that follows the table.
	Trailer []byte `yaml:"trailer,omitempty"`
}

// ParseDialogs reads a COND blob as a dialog table. The codec never depends
// on this interpretation; it only serves inspection tools.
func ParseDialogs(cond []byte) (*DialogTable, error) {
	r := NewReader(cond)
	t := &DialogTable{Version: r.Int32()}
	switch len(cond) {
	case 4:
		return t, r.Err()
	case 8:
		v := r.Int32()
		t.Value = &v
		return t, r.Err()
	}

	n := r.Count()
	for i := 0; i < n && r.Err() == nil; i++ {
		t.Lines = append(t.Lines, DialogLine{
			Active:      r.Int32(),
			Question:    r.Name(),
			Answer:      r.Name(),
			DlgMinus:    r.Name(),
			DlgPlus:     r.Name(),
			AlwaysMinus: r.Name(),
			AlwaysPlus:  r.Name(),
			Always:      r.Int32(),
			Story:       r.Int32(),
			Cohesion:    r.Int32(),
			DialogEvent: r.Int32(),
		})
	}
	if r.Len() > 0 {
		t.Trailer = r.Rest()
	}
	if err := r.Err(); err != nil {
		return nil, withPath("decode", err, label(TagCond), 0)
	}
	return t, nil
}
