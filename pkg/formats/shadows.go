package formats

import "fmt"

// ShadowRecord is a ground shadow detached from its world node.
type ShadowRecord struct {
	Index int32 // world node index
	Shadow
}

// StripShadows removes the shadow maps from every ground node and returns
// them in node order.
func StripShadows(nodes []WorldNode) []ShadowRecord {
	var records []ShadowRecord
	for i := range nodes {
		g, ok := nodes[i].Payload.(*GroundData)
		if !ok || g.Shadow == nil {
			continue
		}
		records = append(records, ShadowRecord{Index: nodes[i].Index, Shadow: *g.Shadow})
		g.Shadow = nil
	}
	return records
}

// AttachShadows puts shadow maps back onto the ground nodes they belong to.
func AttachShadows(nodes []WorldNode, records []ShadowRecord) error {
	byIndex := make(map[int32]*GroundData, len(nodes))
	for i := range nodes {
		if g, ok := nodes[i].Payload.(*GroundData); ok {
			byIndex[nodes[i].Index] = g
		}
	}
	for _, rec := range records {
		g, ok := byIndex[rec.Index]
		if !ok {
			return fmt.Errorf("shadow for node %d: no ground node with that index", rec.Index)
		}
		s := rec.Shadow
		g.Shadow = &s
	}
	return nil
}

// ParseShadows decodes a shadow sidecar: records of node index, both sizes
// and the float data, repeated until the end of data.
func ParseShadows(data []byte) ([]ShadowRecord, error) {
	r := NewReader(data)
	var records []ShadowRecord
	for r.Len() > 0 && r.Err() == nil {
		rec := ShadowRecord{Index: r.Int32()}
		rec.Size1 = r.Int32()
		rec.Size2 = r.Int32()
		rec.Data = r.Float32s(ShadowLen(rec.Size1, rec.Size2))
		records = append(records, rec)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// EncodeShadows encodes records as a shadow sidecar.
func EncodeShadows(records []ShadowRecord) ([]byte, error) {
	w := NewWriter()
	for _, rec := range records {
		if want := ShadowLen(rec.Size1, rec.Size2); len(rec.Data) != want {
			return nil, fmt.Errorf("%w: node %d needs %d floats, got %d", ErrShadowSize, rec.Index, want, len(rec.Data))
		}
		w.Int32(rec.Index)
		w.Int32(rec.Size1)
		w.Int32(rec.Size2)
		w.Float32s(rec.Data)
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Data(), nil
}
