package formats

import "fmt"

// ObjectType selects the payload layout of an OPTS block.
type ObjectType int32

const (
	ObjectItem       ObjectType = 0
	ObjectLoot       ObjectType = 1
	ObjectTool       ObjectType = 2
	ObjectRealEstate ObjectType = 3
	ObjectCharacterA ObjectType = 4
	ObjectCharacterB ObjectType = 5
	ObjectCharacterC ObjectType = 6
	ObjectDoor       ObjectType = 7
	ObjectWindow     ObjectType = 8
	ObjectCar        ObjectType = 9
)

// String returns the name of the object type.
func (t ObjectType) String() string {
	switch t {
	case ObjectItem:
		return "Item"
	case ObjectLoot:
		return "Loot"
	case ObjectTool:
		return "Tool"
	case ObjectRealEstate:
		return "RealEstate"
	case ObjectCharacterA:
		return "CharacterA"
	case ObjectCharacterB:
		return "CharacterB"
	case ObjectCharacterC:
		return "CharacterC"
	case ObjectDoor:
		return "Door"
	case ObjectWindow:
		return "Window"
	case ObjectCar:
		return "Car"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// OptsPayload is the type specific tail of an OPTS block: *ItemOpts,
// *LootOpts, *ToolOpts, *PassageOpts, *CharacterAOpts, *CharacterOpts or
// *CarOpts.
type OptsPayload interface {
	fits(ObjectType) bool
}

// ItemOpts is the payload of plain items.
type ItemOpts struct {
	Weight float32 `yaml:"weight"`
}

// LootOpts is the payload of loot.
type LootOpts struct {
	Weight float32 `yaml:"weight"`
	Value  float32 `yaml:"value"`
}

// Materials holds one value per material a tool can work on.
type Materials struct {
	Glass    float32 `yaml:"glass"`
	Wood     float32 `yaml:"wood"`
	Steel    float32 `yaml:"steel"`
	HighTech float32 `yaml:"high_tech"`
}

// ToolOpts is the payload of tools.
type ToolOpts struct {
	Weight        float32   `yaml:"weight"`
	Value         float32   `yaml:"value"`
	Strength      float32   `yaml:"strength"`
	PickLocks     float32   `yaml:"pick_locks"`
	PickSafes     float32   `yaml:"pick_safes"`
	AlarmSystems  float32   `yaml:"alarm_systems"`
	Volume        float32   `yaml:"volume"`
	Damaging      float32   `yaml:"damaging"`
	Applicability Materials `yaml:"applicability"`
	Noise         Materials `yaml:"noise"`
}

// PassageOpts is the payload of real estate, doors and windows.
type PassageOpts struct {
	WorkingTime float32 `yaml:"working_time"`
	Material    int32   `yaml:"material"`
	CrackType   int32   `yaml:"crack_type"`
}

// CharacterAOpts is the payload of characters with an occupation.
type CharacterAOpts struct {
	Speed      float32 `yaml:"speed"`
	Occupation string  `yaml:"occupation"`
}

// CharacterOpts is the payload of the remaining character types.
type CharacterOpts struct {
	Speed float32 `yaml:"speed"`
}

// CarOpts is the payload of vehicles.
type CarOpts struct {
	TranspSpace  float32 `yaml:"transp_space"`
	MaxSpeed     float32 `yaml:"max_speed"`
	Acceleration float32 `yaml:"acceleration"`
	Value        float32 `yaml:"value"`
	Driving      float32 `yaml:"driving"`
}

func (*ItemOpts) fits(t ObjectType) bool { return t == ObjectItem }
func (*LootOpts) fits(t ObjectType) bool { return t == ObjectLoot }
func (*ToolOpts) fits(t ObjectType) bool { return t == ObjectTool }
func (*PassageOpts) fits(t ObjectType) bool {
	return t == ObjectRealEstate || t == ObjectDoor || t == ObjectWindow
}
func (*CharacterAOpts) fits(t ObjectType) bool { return t == ObjectCharacterA }
func (*CharacterOpts) fits(t ObjectType) bool {
	return t == ObjectCharacterB || t == ObjectCharacterC
}
func (*CarOpts) fits(t ObjectType) bool { return t == ObjectCar }

// Opts describes how an object behaves in the game.
type Opts struct {
	Unknown1           int32       `yaml:"unknown1"`
	ID                 string      `yaml:"id"`
	Type               ObjectType  `yaml:"type"`
	Story              int32       `yaml:"story"`
	Clickable          bool        `yaml:"clickable"`
	ProcessWhenVisible bool        `yaml:"process_when_visible"`
	ProcessAlways      bool        `yaml:"process_always"`
	Payload            OptsPayload `yaml:"info"`
}

func decodeOpts(r *Reader) (Opts, error) {
	var o Opts
	err := readChunk(r, TagOpts, label(TagOpts), func(sub *Reader) error {
		o.Unknown1 = sub.Int32()
		o.ID = sub.Name()
		o.Type = ObjectType(sub.Int32())
		o.Story = sub.Int32()
		o.Clickable = sub.Bool()
		o.ProcessWhenVisible = sub.Bool()
		o.ProcessAlways = sub.Bool()
		if sub.Err() != nil {
			return sub.Err()
		}
		o.Payload = readOptsPayload(sub, o.Type)
		return sub.Err()
	})
	return o, err
}

func readOptsPayload(r *Reader, t ObjectType) OptsPayload {
	switch t {
	case ObjectItem:
		return &ItemOpts{Weight: r.Float32()}
	case ObjectLoot:
		return &LootOpts{Weight: r.Float32(), Value: r.Float32()}
	case ObjectTool:
		return &ToolOpts{
			Weight:        r.Float32(),
			Value:         r.Float32(),
			Strength:      r.Float32(),
			PickLocks:     r.Float32(),
			PickSafes:     r.Float32(),
			AlarmSystems:  r.Float32(),
			Volume:        r.Float32(),
			Damaging:      r.Float32(),
			Applicability: readMaterials(r),
			Noise:         readMaterials(r),
		}
	case ObjectRealEstate, ObjectDoor, ObjectWindow:
		return &PassageOpts{WorkingTime: r.Float32(), Material: r.Int32(), CrackType: r.Int32()}
	case ObjectCharacterA:
		return &CharacterAOpts{Speed: r.Float32(), Occupation: r.Name()}
	case ObjectCharacterB, ObjectCharacterC:
		return &CharacterOpts{Speed: r.Float32()}
	case ObjectCar:
		return &CarOpts{
			TranspSpace:  r.Float32(),
			MaxSpeed:     r.Float32(),
			Acceleration: r.Float32(),
			Value:        r.Float32(),
			Driving:      r.Float32(),
		}
	}
	r.Fail(&VariantError{Discriminant: int32(t), Context: "opts"})
	return nil
}

func readMaterials(r *Reader) Materials {
	return Materials{r.Float32(), r.Float32(), r.Float32(), r.Float32()}
}

func writeMaterials(w *Writer, m Materials) {
	w.Float32s([]float32{m.Glass, m.Wood, m.Steel, m.HighTech})
}

func encodeOpts(w *Writer, o *Opts) error {
	return w.Chunk(TagOpts, func(cw *Writer) error {
		if o.Type < ObjectItem || o.Type > ObjectCar {
			return &VariantError{Discriminant: int32(o.Type), Context: "opts"}
		}
		if o.Payload == nil || !o.Payload.fits(o.Type) {
			return fmt.Errorf("%w: opts type %s", ErrMissingPayload, o.Type)
		}
		cw.Int32(o.Unknown1)
		cw.Name(o.ID)
		cw.Int32(int32(o.Type))
		cw.Int32(o.Story)
		cw.Bool(o.Clickable)
		cw.Bool(o.ProcessWhenVisible)
		cw.Bool(o.ProcessAlways)

		switch p := o.Payload.(type) {
		case *ItemOpts:
			cw.Float32(p.Weight)
		case *LootOpts:
			cw.Float32s([]float32{p.Weight, p.Value})
		case *ToolOpts:
			cw.Float32s([]float32{p.Weight, p.Value, p.Strength, p.PickLocks, p.PickSafes, p.AlarmSystems, p.Volume, p.Damaging})
			writeMaterials(cw, p.Applicability)
			writeMaterials(cw, p.Noise)
		case *PassageOpts:
			cw.Float32(p.WorkingTime)
			cw.Int32(p.Material)
			cw.Int32(p.CrackType)
		case *CharacterAOpts:
			cw.Float32(p.Speed)
			cw.Name(p.Occupation)
		case *CharacterOpts:
			cw.Float32(p.Speed)
		case *CarOpts:
			cw.Float32s([]float32{p.TranspSpace, p.MaxSpeed, p.Acceleration, p.Value, p.Driving})
		}
		return cw.Err()
	})
}
