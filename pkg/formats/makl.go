package formats

// decodeMacros reads the MAKL container. It is empty in every observed
// file; children, if any, are kept as raw chunks.
func decodeMacros(r *Reader) ([]Chunk, error) {
	var macros []Chunk
	err := readContainer(r, TagMacros, TagObject, func(_ int, sub *Reader) error {
		macros = append(macros, Chunk{Tag: TagObject, Data: sub.Rest()})
		return sub.Err()
	})
	return macros, err
}

func encodeMacros(w *Writer, macros []Chunk) error {
	return writeContainer(w, TagMacros, TagObject, len(macros), func(i int, cw *Writer) error {
		cw.Bytes(macros[i].Data)
		return nil
	})
}
