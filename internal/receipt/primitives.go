// Package receipt turns a committed order into the sequence of print
// primitives for an 80mm thermal ticket. Rendering is pure: the same inputs
// always produce the same job, and no I/O happens here.
package receipt

// Encoding tags a text primitive with the byte encoding the device must use.
// Lines carrying CJK glyphs are always tagged Big5 so bilingual text prints
// correctly even when the printer's default encoding differs.
type Encoding string

const (
	EncodingGBK  Encoding = "gbk"
	EncodingBig5 Encoding = "big5"
)

// Alignment positions a text run on the line.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Scale selects the glyph size for a text run.
type Scale int

const (
	// ScaleSmall is the condensed size used for sub-captions.
	ScaleSmall Scale = iota
	ScaleNormal
	// ScaleDouble doubles the glyph height, used for the payment total.
	ScaleDouble
	// ScaleQuad doubles width and height, used for the ticket number.
	ScaleQuad
)

// Primitive is one atomic instruction for the receipt device.
type Primitive interface {
	primitive()
}

// Text prints one run of characters followed by a line break. Alignment,
// scale, and style are explicit on every run; nothing is assumed to carry
// over between primitives.
type Text struct {
	Content  string
	Encoding Encoding
	Align    Alignment
	Scale    Scale
	Bold     bool
}

// Feed advances the paper by n blank lines.
type Feed struct {
	Lines int
}

// Cut triggers the paper cutter. Devices without a cutter ignore it.
type Cut struct{}

func (Text) primitive() {}
func (Feed) primitive() {}
func (Cut) primitive()  {}

// Job is an ordered print program, constructed fresh per order and
// discarded after execution.
type Job []Primitive
