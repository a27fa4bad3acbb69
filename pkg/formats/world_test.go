package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func modelChunk(f *fixture) {
	f.chunk(TagModel, func(c *fixture) {
		c.i32(modelVersion, modelRevision).name("house")
		c.i32(-1, 0, 0)
		c.i32(0, 0)
		c.tag(tagCamera).f32(0, 5, -10, 0.3, 0).f32(0, 1, -2, 0, 1.5)
		c.i32(2)
		c.i32(1).f32(0, 1, 0, 0.5)
		c.raw(makeModel())
	})
}

func objectChunk(f *fixture) {
	f.chunk(TagObject, func(c *fixture) {
		c.i32(0).name("key").i32(2)
		c.i32(1)
		c.name("open").i32(1).f32(0.5, 1).i32(0).f32(-100).i32(0, 0)
		c.i32(1).name("ev").f32(2)
		c.raw(makeInfo(int32(ObjectItem), func(x *fixture) { x.f32(1.5) }, func(*fixture) {}))
	})
}

func makeWorld() []byte {
	f := newFixture().tag(TagWorld).i32(0)
	f.container(TagTexturePages, func(f *fixture) {
		makePage(f, 1, 2, 2, false, TextureEntry{Path: "a.tga", Box: Rect{0, 0, 2, 2}, SourceBox: Rect{0, 0, 8, 8}})
	})
	f.raw(makeFolderContainer(TagModelFolders, Folder{Name: "buildings", Parent: 1}))
	f.raw(makeFolderContainer(TagObjectFolders, Folder{Name: "items", Parent: 1}))
	f.container(TagModels, modelChunk)
	f.container(TagObjects, objectChunk)
	f.container(TagMacros, func(*fixture) {})
	f.raw(makeTree(8))
	return f.tag(TagEOF).i32(0).bytes()
}

func TestParseWorld(t *testing.T) {
	data := makeWorld()
	w, err := ParseWorld(data)
	if err != nil {
		t.Fatalf("ParseWorld: %v", err)
	}

	if len(w.TexturePages) != 1 || w.TexturePages[0].Textures[0].Path != "a.tga" {
		t.Errorf("texture pages = %+v", w.TexturePages)
	}
	if len(w.ModelFolders) != 1 || w.ModelFolders[0].Name != "buildings" {
		t.Errorf("model folders = %+v", w.ModelFolders)
	}
	if len(w.ObjectFolders) != 1 || w.ObjectFolders[0].Index != RootFolder+1 {
		t.Errorf("object folders = %+v", w.ObjectFolders)
	}

	if len(w.Models) != 1 {
		t.Fatalf("got %d models, want 1", len(w.Models))
	}
	m := w.Models[0]
	if m.Name != "house" || m.Index != 2 || m.ParentFolder != 2 || !m.InfluencesCamera {
		t.Errorf("model = %+v", m)
	}
	if m.Camera == nil || m.Camera.Camera.Z != -10 || m.Camera.Item.Yaw != 1.5 {
		t.Errorf("camera = %+v", m.Camera)
	}
	if len(m.AttackPoints) != 1 || m.AttackPoints[0].Radius != 0.5 {
		t.Errorf("attack points = %+v", m.AttackPoints)
	}
	if m.NMF == nil || len(m.NMF.Nodes) != 4 || m.RawNMF != nil {
		t.Errorf("model body not decoded")
	}

	if len(w.Objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(w.Objects))
	}
	o := w.Objects[0]
	if o.Index != 1 || o.Name != "key" || len(o.Animations) != 1 || o.Animations[0].AlwaysNegative100 != -100 {
		t.Errorf("object = %+v", o)
	}
	if o.Animations[0].Events[0] != (AnimationEvent{Name: "ev", Value: 2}) {
		t.Errorf("events = %+v", o.Animations[0].Events)
	}
	if item, ok := o.Info.Opts.Payload.(*ItemOpts); !ok || item.Weight != 1.5 {
		t.Errorf("opts payload = %+v", o.Info.Opts.Payload)
	}

	if len(w.Macros) != 0 || len(w.Nodes) != 4 {
		t.Errorf("macros %d, nodes %d", len(w.Macros), len(w.Nodes))
	}

	out, err := EncodeWorld(w)
	if err != nil {
		t.Fatalf("EncodeWorld: %v", err)
	}
	if string(out) != string(data) {
		t.Errorf("re-encoded world differs: got %d bytes, want %d", len(out), len(data))
	}
}

func TestParseWorld_RawModels(t *testing.T) {
	data := makeWorld()
	w, err := ParseWorldWithOptions(data, DecodeOptions{RawModels: true})
	if err != nil {
		t.Fatalf("ParseWorldWithOptions: %v", err)
	}
	m := w.Models[0]
	if m.NMF != nil {
		t.Error("NMF decoded despite RawModels")
	}
	if string(m.RawNMF) != string(makeModel()) {
		t.Errorf("RawNMF holds %d bytes, want %d", len(m.RawNMF), len(makeModel()))
	}

	out, err := EncodeWorld(w)
	if err != nil {
		t.Fatalf("EncodeWorld: %v", err)
	}
	if string(out) != string(data) {
		t.Error("re-encoded world differs")
	}
}

func TestParseWorld_IgnoresBytesAfterEOF(t *testing.T) {
	data := append(makeWorld(), 1, 2, 3)
	if _, err := ParseWorld(data); err != nil {
		t.Errorf("ParseWorld: %v", err)
	}
}

func TestParseWorld_ErrorPath(t *testing.T) {
	data := newFixture().tag(TagWorld).i32(0).
		container(TagTexturePages, func(*fixture) {}).
		raw(makeFolderContainer(TagModelFolders)).
		raw(makeFolderContainer(TagObjectFolders)).
		container(TagModels, func(*fixture) {}).
		container(TagObjects, func(*fixture) {}).
		container(TagMacros, func(*fixture) {}).
		raw(makeTree(7)).
		tag(TagEOF).i32(0).
		bytes()

	_, err := ParseWorld(data)
	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PathError, got %v", err)
	}
	want := "WRLD > TREE > NODE[1] > SHAD"
	if got := joinPath(pe.Path); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	if pe.Offset <= 0 {
		t.Errorf("offset = %d", pe.Offset)
	}
}

func TestParseWorld_MissingEOF(t *testing.T) {
	data := makeWorld()
	data = data[:len(data)-8]
	if _, err := ParseWorld(data); !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestEncodeWorld_ErrorPath(t *testing.T) {
	w, err := ParseWorld(makeWorld())
	if err != nil {
		t.Fatalf("ParseWorld: %v", err)
	}
	w.Objects[0].Info = nil

	_, err = EncodeWorld(w)
	if !errors.Is(err, ErrMissingPayload) {
		t.Fatalf("expected ErrMissingPayload, got %v", err)
	}
	var pe *PathError
	if !errors.As(err, &pe) || joinPath(pe.Path) != "WRLD > OBJS > OBJ[0]" {
		t.Errorf("error = %v", err)
	}
}

func TestWorldFile(t *testing.T) {
	w, err := ParseWorld(makeWorld())
	if err != nil {
		t.Fatalf("ParseWorld: %v", err)
	}
	path := filepath.Join(t.TempDir(), "level.wld")
	if err := WriteWorldFile(path, w); err != nil {
		t.Fatalf("WriteWorldFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(makeWorld()) {
		t.Error("file contents differ")
	}
	if _, err := ParseWorldFile(path, DecodeOptions{}); err != nil {
		t.Errorf("ParseWorldFile: %v", err)
	}
	if _, err := ParseWorldFile(filepath.Join(t.TempDir(), "missing.wld"), DecodeOptions{}); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func joinPath(p []string) string {
	s := ""
	for i, seg := range p {
		if i > 0 {
			s += " > "
		}
		s += seg
	}
	return s
}

// dialogCond builds a COND blob holding a dialog table with one line per
// question and the given trailer.
func dialogCond(trailer []byte, questions ...string) []byte {
	f := newFixture().i32(2, int32(len(questions)))
	for i, q := range questions {
		f.i32(-1).name(q).name("Answer.").name("").name("lost_trust").name("").name("")
		f.i32(0, 1, int32(i), 0)
	}
	return f.raw(trailer).bytes()
}

// characterChunk writes an object of type CharacterA with a dialog table
// and a task list.
func characterChunk(f *fixture, name string, cond []byte) {
	f.chunk(TagObject, func(c *fixture) {
		c.i32(int32(ObjectCharacterA)).name(name).i32(3)
		c.i32(0)
		c.raw(makeInfoCond(int32(ObjectCharacterA), func(x *fixture) {
			x.f32(1.25).name("guard")
		}, cond, func(x *fixture) {
			taskChunk(x, 9)
			dependenceChunk(x, 0)
		}))
	})
}

// worldParts selects the sections of a fixture world. Nil sections are
// written empty.
type worldParts struct {
	pages   func(*fixture)
	models  func(*fixture)
	objects func(*fixture)
	macros  func(*fixture)
	folders []Folder
	tree    []byte
}

func (p worldParts) bytes() []byte {
	orEmpty := func(fn func(*fixture)) func(*fixture) {
		if fn == nil {
			return func(*fixture) {}
		}
		return fn
	}
	tree := p.tree
	if tree == nil {
		tree = newFixture().container(TagTree, func(*fixture) {}).bytes()
	}
	f := newFixture().tag(TagWorld).i32(0)
	f.container(TagTexturePages, orEmpty(p.pages))
	f.raw(makeFolderContainer(TagModelFolders, p.folders...))
	f.raw(makeFolderContainer(TagObjectFolders, p.folders...))
	f.container(TagModels, orEmpty(p.models))
	f.container(TagObjects, orEmpty(p.objects))
	f.container(TagMacros, orEmpty(p.macros))
	f.raw(tree)
	return f.tag(TagEOF).i32(0).bytes()
}

func TestWorld_ByteIdenticalRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		parts worldParts
		check func(t *testing.T, w *World)
	}{
		{
			name:  "all sections empty",
			parts: worldParts{},
			check: func(t *testing.T, w *World) {
				if len(w.TexturePages)+len(w.Models)+len(w.Objects)+len(w.Macros)+len(w.Nodes) != 0 {
					t.Errorf("world = %+v", w)
				}
			},
		},
		{
			name: "every section populated",
			parts: worldParts{
				pages: func(f *fixture) {
					makePage(f, 1, 2, 2, true, TextureEntry{Path: "wall.tga", Box: Rect{0, 0, 2, 2}, SourceBox: Rect{0, 0, 16, 16}})
					makePage(f, 2, 1, 1, false)
				},
				folders: []Folder{{Name: "town", Parent: 1}, {Name: "inn", Parent: 2}},
				models:  func(f *fixture) { modelChunk(f); modelChunk(f) },
				objects: func(f *fixture) {
					objectChunk(f)
					characterChunk(f, "innkeeper", dialogCond([]byte{7, 0, 0, 0}, "Room?", "Ale?"))
				},
				macros: func(f *fixture) {
					f.chunk(TagObject, func(c *fixture) { c.i32(1, 2, 3).name("macro") })
				},
				tree: makeTree(8),
			},
			check: func(t *testing.T, w *World) {
				if len(w.TexturePages) != 2 || len(w.ModelFolders) != 2 || len(w.Models) != 2 {
					t.Errorf("pages %d, folders %d, models %d", len(w.TexturePages), len(w.ModelFolders), len(w.Models))
				}
				if w.Models[1].Index != 3 || w.Objects[1].Index != 2 {
					t.Errorf("indexes: model %d, object %d", w.Models[1].Index, w.Objects[1].Index)
				}
				if len(w.Macros) != 1 || len(w.Nodes) != 4 {
					t.Errorf("macros %d, nodes %d", len(w.Macros), len(w.Nodes))
				}

				inn := w.Objects[1].Info
				tbl, err := inn.Dialogs()
				if err != nil {
					t.Fatalf("Dialogs: %v", err)
				}
				if len(tbl.Lines) != 2 || tbl.Lines[1].Question != "Ale?" || tbl.Lines[0].DlgPlus != "lost_trust" {
					t.Errorf("dialog lines = %+v", tbl.Lines)
				}
				if len(tbl.Trailer) != 4 || tbl.Trailer[0] != 7 {
					t.Errorf("trailer = % x", tbl.Trailer)
				}
				if len(inn.Tasks) != 2 || inn.Tasks[0].Task.ID != 9 || inn.Tasks[1].Dependence == nil {
					t.Errorf("tasks = %+v", inn.Tasks)
				}
				if ch, ok := inn.Opts.Payload.(*CharacterAOpts); !ok || ch.Occupation != "guard" {
					t.Errorf("opts = %+v", inn.Opts.Payload)
				}
			},
		},
		{
			name: "dialog table with a single value",
			parts: worldParts{
				objects: func(f *fixture) {
					characterChunk(f, "hermit", newFixture().i32(1, 42).bytes())
				},
				tree: makeTree(0),
			},
			check: func(t *testing.T, w *World) {
				tbl, err := w.Objects[0].Info.Dialogs()
				if err != nil || tbl.Value == nil || *tbl.Value != 42 {
					t.Errorf("dialogs = %+v, %v", tbl, err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.parts.bytes()
			w, err := ParseWorld(data)
			if err != nil {
				t.Fatalf("ParseWorld: %v", err)
			}
			tt.check(t, w)

			out, err := EncodeWorld(w)
			if err != nil {
				t.Fatalf("EncodeWorld: %v", err)
			}
			if off := firstMismatch(out, data); off >= 0 {
				t.Errorf("re-encoded world differs at offset %d: got %d bytes, want %d", off, len(out), len(data))
			}
		})
	}
}

func firstMismatch(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return min(len(a), len(b))
	}
	return -1
}
