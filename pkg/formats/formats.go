// Package formats implements the binary codecs of the WRLD world container
// and its nested sub-formats.
//
// A container is a sequence of tagged chunks. Every chunk starts with a four
// byte tag and a big-endian length; everything inside a chunk is
// little-endian. Top level sections store a literal zero length and end with
// an END chunk:
//
//	WRLD TEXP GROU OBGR LIST OBJS MAKL TREE EOF
//
// Each model in LIST embeds an NMF node graph. Each object in OBJS carries
// an INFO block made of OPTS settings, an opaque COND blob and a TALI task
// list.
//
// Decoding and encoding are pure functions over byte slices, so independent
// buffers can be processed concurrently.
package formats
