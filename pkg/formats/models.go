package formats

import "fmt"

const (
	tagCamera     = "RMAC"
	modelVersion  = 9
	modelRevision = 1
)

// CameraPose is a camera placement relative to a model.
type CameraPose struct {
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	Z     float32 `yaml:"z"`
	Pitch float32 `yaml:"pitch"`
	Yaw   float32 `yaml:"yaw"`
}

// ModelCamera holds the camera and item poses of a model.
type ModelCamera struct {
	Camera CameraPose `yaml:"camera"`
	Item   CameraPose `yaml:"item"`
}

// AttackPoint is a sphere on the model that can be targeted.
type AttackPoint struct {
	X      float32 `yaml:"x"`
	Y      float32 `yaml:"y"`
	Z      float32 `yaml:"z"`
	Radius float32 `yaml:"radius"`
}

// Model is one MODL entry. Exactly one of NMF and RawNMF carries the model
// body: RawNMF is set instead of NMF when decoding with RawModels.
type Model struct {
	Name             string        `yaml:"name"`
	Index            int32         `yaml:"index"`
	ParentFolder     int32         `yaml:"parent_folder_iid"`
	InfluencesCamera bool          `yaml:"influences_camera"`
	NoCameraCheck    bool          `yaml:"no_camera_check"`
	AntiGround       bool          `yaml:"anti_ground"`
	DefaultSkeleton  int32         `yaml:"default_skeleton"`
	UseSkeleton      int32         `yaml:"use_skeleton"`
	Camera           *ModelCamera  `yaml:"camera,omitempty"`
	AttackPoints     []AttackPoint `yaml:"attack_points,omitempty"`
	NMF              *NMF          `yaml:"nmf,omitempty"`
	RawNMF           []byte        `yaml:"-"`
}

// firstModelIndex is the index given to the first model.
const firstModelIndex = 2

func decodeModels(r *Reader, opts DecodeOptions) ([]Model, error) {
	var models []Model
	err := readContainer(r, TagModels, TagModel, func(i int, sub *Reader) error {
		m, err := decodeModel(sub, opts)
		m.Index = int32(i + firstModelIndex)
		models = append(models, m)
		return err
	})
	return models, err
}

func decodeModel(r *Reader, opts DecodeOptions) (Model, error) {
	var m Model
	r.Int32() // version
	r.Int32() // revision
	m.Name = r.Name()
	m.InfluencesCamera = r.Bool()
	m.NoCameraCheck = r.Bool()
	m.AntiGround = r.Bool()
	m.DefaultSkeleton = r.Int32()
	m.UseSkeleton = r.Int32()

	if r.Tag() == tagCamera {
		m.Camera = &ModelCamera{Camera: readCameraPose(r), Item: readCameraPose(r)}
	}
	m.ParentFolder = r.Int32()

	n := r.Count()
	if r.room(n, 16) {
		for i := 0; i < n; i++ {
			m.AttackPoints = append(m.AttackPoints, AttackPoint{r.Float32(), r.Float32(), r.Float32(), r.Float32()})
		}
	}
	if err := r.Err(); err != nil {
		return m, err
	}

	if opts.RawModels {
		start := r.pos
		nmfExtent(r)
		if err := r.Err(); err != nil {
			return m, err
		}
		m.RawNMF = append([]byte(nil), r.data[start:r.pos]...)
		return m, nil
	}
	nmf, err := decodeNMF(r)
	m.NMF = nmf
	return m, err
}

func readCameraPose(r *Reader) CameraPose {
	return CameraPose{r.Float32(), r.Float32(), r.Float32(), r.Float32(), r.Float32()}
}

func writeCameraPose(w *Writer, p CameraPose) {
	w.Float32s([]float32{p.X, p.Y, p.Z, p.Pitch, p.Yaw})
}

func encodeModels(w *Writer, models []Model) error {
	return writeContainer(w, TagModels, TagModel, len(models), func(i int, cw *Writer) error {
		return encodeModel(cw, &models[i])
	})
}

func encodeModel(w *Writer, m *Model) error {
	w.Int32(modelVersion)
	w.Int32(modelRevision)
	w.Name(m.Name)
	w.Bool(m.InfluencesCamera)
	w.Bool(m.NoCameraCheck)
	w.Bool(m.AntiGround)
	w.Int32(m.DefaultSkeleton)
	w.Int32(m.UseSkeleton)

	if m.Camera != nil {
		w.Tag(tagCamera)
		writeCameraPose(w, m.Camera.Camera)
		writeCameraPose(w, m.Camera.Item)
	} else {
		w.Int32(0)
	}
	w.Int32(m.ParentFolder)

	w.Count(len(m.AttackPoints))
	for _, p := range m.AttackPoints {
		w.Float32s([]float32{p.X, p.Y, p.Z, p.Radius})
	}

	switch {
	case m.NMF != nil:
		return encodeNMF(w, m.NMF)
	case m.RawNMF != nil:
		w.Bytes(m.RawNMF)
		return w.Err()
	}
	return fmt.Errorf("%w: model %q has no NMF body", ErrMissingPayload, m.Name)
}
