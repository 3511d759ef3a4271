package kfmt

import "io"

// maxBufSize defines the scratch buffer size for formatting numbers.
const maxBufSize = 32

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	numFmtBuf [maxBufSize]byte

	// singleByte is a shared buffer for emitting individual characters
	// without allocating.
	singleByte = []byte(" ")

	// earlyPrintBuffer stores Printf output generated before an output
	// sink has been registered.
	earlyPrintBuffer ringBuffer

	// outputSink is the io.Writer where Printf sends its output. While it
	// is nil, output is redirected to earlyPrintBuffer.
	outputSink io.Writer
)

// SetOutputSink sets the target for calls to Printf to w and replays any
// output accumulated in the early print buffer into it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyPrintBuffer)
	}
}

// GetOutputSink returns the writer that Printf output is currently routed to.
func GetOutputSink() io.Writer {
	if outputSink == nil {
		return &earlyPrintBuffer
	}
	return outputSink
}

// Printf writes the formatted output to the currently selected output sink.
// It implements the subset of fmt.Printf verbs that kernel code needs without
// allocating any memory:
//
// Strings:
//	%s the uninterpreted bytes of the string or byte slice
//
// Integers:
//	%o base 8
//	%d base 10
//	%x base 16, with lower-case letters for a-f
//
// Booleans:
//	%t "true" or "false"
//
// Width is specified by an optional decimal number immediately preceding the
// verb. String and base-10 values shorter than the width are left-padded with
// spaces; base-16 values are left-padded with zeroes.
func Printf(format string, args ...interface{}) {
	Fprintf(GetOutputSink(), format, args...)
}

// Fprintf behaves exactly like Printf but writes the formatted output to w.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		nextArgIndex int
		fmtLen       = len(format)
	)

	for index := 0; index < fmtLen; index++ {
		ch := format[index]
		if ch != '%' {
			writeByte(w, ch)
			continue
		}

		// Scan the optional width followed by the verb character.
		padLen := 0
	scanVerb:
		for index++; index < fmtLen; index++ {
			switch ch = format[index]; {
			case ch == '%':
				writeByte(w, '%')
				break scanVerb
			case ch >= '0' && ch <= '9':
				padLen = (padLen * 10) + int(ch-'0')
			case ch == 'o' || ch == 'd' || ch == 'x' || ch == 's' || ch == 't':
				if nextArgIndex >= len(args) {
					w.Write(errMissingArg)
					break scanVerb
				}

				switch ch {
				case 'o':
					fmtInt(w, args[nextArgIndex], 8, padLen)
				case 'd':
					fmtInt(w, args[nextArgIndex], 10, padLen)
				case 'x':
					fmtInt(w, args[nextArgIndex], 16, padLen)
				case 's':
					fmtString(w, args[nextArgIndex], padLen)
				case 't':
					fmtBool(w, args[nextArgIndex])
				}

				nextArgIndex++
				break scanVerb
			default:
				w.Write(errNoVerb)
				break scanVerb
			}
		}
	}
}

func writeByte(w io.Writer, b byte) {
	singleByte[0] = b
	w.Write(singleByte)
}

// fmtBool prints a formatted version of boolean value v.
func fmtBool(w io.Writer, v interface{}) {
	switch val := v.(type) {
	case bool:
		if val {
			w.Write(trueValue)
		} else {
			w.Write(falseValue)
		}
	default:
		w.Write(errWrongArgType)
	}
}

// fmtString prints a formatted version of string or []byte value v,
// left-padding it with spaces up to padLen.
func fmtString(w io.Writer, v interface{}, padLen int) {
	switch val := v.(type) {
	case string:
		fmtStringPad(w, len(val), padLen)
		for i := 0; i < len(val); i++ {
			writeByte(w, val[i])
		}
	case []byte:
		fmtStringPad(w, len(val), padLen)
		w.Write(val)
	default:
		w.Write(errWrongArgType)
	}
}

func fmtStringPad(w io.Writer, strLen, padLen int) {
	for ; padLen > strLen; padLen-- {
		writeByte(w, ' ')
	}
}

// fmtInt prints a formatted version of integer value v in the requested base.
// Base-16 values are left-padded with zeroes whereas all other bases are
// left-padded with spaces.
func fmtInt(w io.Writer, v interface{}, base, padLen int) {
	var (
		uval uint64
		neg  bool
	)

	switch val := v.(type) {
	case uint8:
		uval = uint64(val)
	case uint16:
		uval = uint64(val)
	case uint32:
		uval = uint64(val)
	case uint64:
		uval = val
	case uint:
		uval = uint64(val)
	case uintptr:
		uval = uint64(val)
	case int8:
		uval, neg = absUint64(int64(val))
	case int16:
		uval, neg = absUint64(int64(val))
	case int32:
		uval, neg = absUint64(int64(val))
	case int64:
		uval, neg = absUint64(val)
	case int:
		uval, neg = absUint64(int64(val))
	default:
		w.Write(errWrongArgType)
		return
	}

	index := len(numFmtBuf)
	for {
		index--
		numFmtBuf[index] = "0123456789abcdef"[uval%uint64(base)]
		if uval /= uint64(base); uval == 0 {
			break
		}
	}

	if neg {
		index--
		numFmtBuf[index] = '-'
	}

	padByte := byte(' ')
	if base == 16 {
		padByte = '0'
	}

	if padLen > maxBufSize {
		padLen = maxBufSize
	}
	for padLen > len(numFmtBuf)-index {
		index--
		numFmtBuf[index] = padByte
	}

	w.Write(numFmtBuf[index:])
}

func absUint64(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}
	return uint64(v), false
}
