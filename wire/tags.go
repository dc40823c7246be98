// Package wire defines the on-the-wire type taxonomy: the fixed tag
// enumeration and the magic/version header framing.
//
// The tag table and numeric codes are fixed by the wire format and must
// never be renumbered; doing so breaks on-wire compatibility between any
// two implementations. See Tag's doc comment for the full table.
package wire

// Tag identifies the encoding of the value that follows it on the wire.
// Its high nibble is the Group (for coarse dispatch); its low nibble picks
// the concrete payload shape within that group.
type Tag uint8

// Group is the high nibble of a Tag.
type Group uint8

// Group returns the coarse dispatch group of a tag.
func (t Tag) Group() Group { return Group(t & 0xF0) }

// Group constants, high nibble of every Tag.
const (
	GroupPrimitive  Group = 0x00
	GroupNumber     Group = 0x10
	GroupBigInt     Group = 0x20
	GroupString     Group = 0x30
	GroupArray      Group = 0x40
	GroupObject     Group = 0x50
	GroupTyped      Group = 0x60
	GroupBuffer     Group = 0x70
	GroupCollection Group = 0x80
	GroupDate       Group = 0x90
	GroupError      Group = 0xA0
	GroupRegex      Group = 0xB0
	GroupBinary     Group = 0xC0
	GroupReference  Group = 0xD0
	GroupSpecial    Group = 0xE0
	GroupExtension  Group = 0xF0
)

// The full tag enumeration, numeric codes fixed by spec.
const (
	NULL      Tag = 0x00
	UNDEFINED Tag = 0x01
	FALSE     Tag = 0x02
	TRUE      Tag = 0x03

	I8     Tag = 0x10
	I16    Tag = 0x11
	I32    Tag = 0x12
	U32    Tag = 0x13
	F32    Tag = 0x14
	F64    Tag = 0x15
	NAN    Tag = 0x16
	PINF   Tag = 0x17
	NINF   Tag = 0x18
	NEGZ   Tag = 0x19
	VARINT Tag = 0x1A

	BIGINT_POS_SMALL Tag = 0x20
	BIGINT_NEG_SMALL Tag = 0x21
	BIGINT_POS_LARGE Tag = 0x22
	BIGINT_NEG_LARGE Tag = 0x23

	STR_EMPTY      Tag = 0x30
	STR_ASCII_TINY Tag = 0x31
	STR_ASCII_SHORT Tag = 0x32
	STR_ASCII_LONG Tag = 0x33
	STR_UTF8_TINY  Tag = 0x34
	STR_UTF8_SHORT Tag = 0x35
	STR_UTF8_LONG  Tag = 0x36
	STRING_REF     Tag = 0x37

	ARR_EMPTY      Tag = 0x40
	ARR_DENSE      Tag = 0x41
	ARR_SPARSE     Tag = 0x42
	ARR_PACK_I8    Tag = 0x43
	ARR_PACK_I16   Tag = 0x44
	ARR_PACK_I32   Tag = 0x45
	ARR_PACK_F32   Tag = 0x46
	ARR_PACK_F64   Tag = 0x47

	OBJ_EMPTY Tag = 0x50

	// OBJ_PLAIN is accepted by the reader but never emitted by the
	// classifier: spec.md §9 Open Question (a) keeps this leniency from
	// the source format, where OBJECT_PLAIN and OBJECT_LITERAL are
	// encoded identically.
	OBJ_PLAIN            Tag = 0x51
	OBJ_LITERAL          Tag = 0x52
	OBJ_CONSTRUCTOR      Tag = 0x53
	OBJ_WITH_DESCRIPTORS Tag = 0x54
	OBJ_WITH_METHODS     Tag = 0x55

	TYPED_U8    Tag = 0x60
	TYPED_I8    Tag = 0x61
	TYPED_U8C   Tag = 0x62
	TYPED_U16   Tag = 0x63
	TYPED_I16   Tag = 0x64
	TYPED_U32   Tag = 0x65
	TYPED_I32   Tag = 0x66
	TYPED_F32   Tag = 0x67
	TYPED_F64   Tag = 0x68
	TYPED_I64   Tag = 0x69
	TYPED_U64   Tag = 0x6A
	DATAVIEW    Tag = 0x6B

	ARRAYBUFFER       Tag = 0x70
	BUFFER_REF        Tag = 0x71
	SHAREDARRAYBUFFER Tag = 0x72

	MAP Tag = 0x80
	SET Tag = 0x81

	DATE         Tag = 0x90
	DATE_INVALID Tag = 0x91

	ERROR     Tag = 0xA0
	EVAL      Tag = 0xA1
	RANGE     Tag = 0xA2
	REF       Tag = 0xA3
	SYNTAX    Tag = 0xA4
	TYPE      Tag = 0xA5
	URI       Tag = 0xA6
	AGGREGATE Tag = 0xA7
	CUSTOM    Tag = 0xA8

	REGEX Tag = 0xB0

	BLOB Tag = 0xC0
	FILE Tag = 0xC1

	REFERENCE   Tag = 0xD0
	CIRCULAR_REF Tag = 0xD1

	SYMBOL          Tag = 0xE0
	SYMBOL_GLOBAL   Tag = 0xE1
	SYMBOL_WELLKNOWN Tag = 0xE2
	SYMBOL_NO_DESC  Tag = 0xE3

	FUNCTION_PLACEHOLDER Tag = 0xF0
)

// Length-prefix thresholds for strings (§4.5): tiny strings are at most
// TinyThreshold bytes, short strings fewer than ShortThreshold bytes, so a
// short string's length always fits its one-byte prefix.
const (
	TinyThreshold  = 16
	ShortThreshold = 256
)

// Known returns whether tag is a member of the fixed enumeration. Readers
// must reject any byte that fails this check with errs.ErrUnknownTag.
func (t Tag) Known() bool {
	switch t {
	case NULL, UNDEFINED, FALSE, TRUE,
		I8, I16, I32, U32, F32, F64, NAN, PINF, NINF, NEGZ, VARINT,
		BIGINT_POS_SMALL, BIGINT_NEG_SMALL, BIGINT_POS_LARGE, BIGINT_NEG_LARGE,
		STR_EMPTY, STR_ASCII_TINY, STR_ASCII_SHORT, STR_ASCII_LONG,
		STR_UTF8_TINY, STR_UTF8_SHORT, STR_UTF8_LONG, STRING_REF,
		ARR_EMPTY, ARR_DENSE, ARR_SPARSE,
		ARR_PACK_I8, ARR_PACK_I16, ARR_PACK_I32, ARR_PACK_F32, ARR_PACK_F64,
		OBJ_PLAIN, OBJ_EMPTY, OBJ_LITERAL, OBJ_CONSTRUCTOR,
		OBJ_WITH_DESCRIPTORS, OBJ_WITH_METHODS,
		TYPED_U8, TYPED_I8, TYPED_U8C, TYPED_U16, TYPED_I16,
		TYPED_U32, TYPED_I32, TYPED_F32, TYPED_F64, TYPED_I64, TYPED_U64, DATAVIEW,
		ARRAYBUFFER, BUFFER_REF, SHAREDARRAYBUFFER,
		MAP, SET,
		DATE, DATE_INVALID,
		ERROR, EVAL, RANGE, REF, SYNTAX, TYPE, URI, AGGREGATE, CUSTOM,
		REGEX, BLOB, FILE,
		REFERENCE, CIRCULAR_REF,
		SYMBOL, SYMBOL_GLOBAL, SYMBOL_WELLKNOWN, SYMBOL_NO_DESC,
		FUNCTION_PLACEHOLDER:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer, matching the teacher's
// format.EncodingType.String() style for debugging and test failure
// messages.
func (t Tag) String() string {
	switch t {
	case NULL:
		return "NULL"
	case UNDEFINED:
		return "UNDEFINED"
	case FALSE:
		return "FALSE"
	case TRUE:
		return "TRUE"
	case I8:
		return "I8"
	case I16:
		return "I16"
	case I32:
		return "I32"
	case U32:
		return "U32"
	case F32:
		return "F32"
	case F64:
		return "F64"
	case NAN:
		return "NAN"
	case PINF:
		return "+INF"
	case NINF:
		return "-INF"
	case NEGZ:
		return "-0"
	case VARINT:
		return "VARINT"
	case BIGINT_POS_SMALL:
		return "BIGINT_POS_SMALL"
	case BIGINT_NEG_SMALL:
		return "BIGINT_NEG_SMALL"
	case BIGINT_POS_LARGE:
		return "BIGINT_POS_LARGE"
	case BIGINT_NEG_LARGE:
		return "BIGINT_NEG_LARGE"
	case STR_EMPTY:
		return "STR_EMPTY"
	case STR_ASCII_TINY:
		return "STR_ASCII_TINY"
	case STR_ASCII_SHORT:
		return "STR_ASCII_SHORT"
	case STR_ASCII_LONG:
		return "STR_ASCII_LONG"
	case STR_UTF8_TINY:
		return "STR_UTF8_TINY"
	case STR_UTF8_SHORT:
		return "STR_UTF8_SHORT"
	case STR_UTF8_LONG:
		return "STR_UTF8_LONG"
	case STRING_REF:
		return "STRING_REF"
	case ARR_EMPTY:
		return "ARR_EMPTY"
	case ARR_DENSE:
		return "ARR_DENSE"
	case ARR_SPARSE:
		return "ARR_SPARSE"
	case ARR_PACK_I8:
		return "ARR_PACK_I8"
	case ARR_PACK_I16:
		return "ARR_PACK_I16"
	case ARR_PACK_I32:
		return "ARR_PACK_I32"
	case ARR_PACK_F32:
		return "ARR_PACK_F32"
	case ARR_PACK_F64:
		return "ARR_PACK_F64"
	case OBJ_PLAIN:
		return "OBJ_PLAIN"
	case OBJ_EMPTY:
		return "OBJ_EMPTY"
	case OBJ_LITERAL:
		return "OBJ_LITERAL"
	case OBJ_CONSTRUCTOR:
		return "OBJ_CONSTRUCTOR"
	case OBJ_WITH_DESCRIPTORS:
		return "OBJ_WITH_DESCRIPTORS"
	case OBJ_WITH_METHODS:
		return "OBJ_WITH_METHODS"
	case TYPED_U8:
		return "TYPED_U8"
	case TYPED_I8:
		return "TYPED_I8"
	case TYPED_U8C:
		return "TYPED_U8C"
	case TYPED_U16:
		return "TYPED_U16"
	case TYPED_I16:
		return "TYPED_I16"
	case TYPED_U32:
		return "TYPED_U32"
	case TYPED_I32:
		return "TYPED_I32"
	case TYPED_F32:
		return "TYPED_F32"
	case TYPED_F64:
		return "TYPED_F64"
	case TYPED_I64:
		return "TYPED_I64"
	case TYPED_U64:
		return "TYPED_U64"
	case DATAVIEW:
		return "DATAVIEW"
	case ARRAYBUFFER:
		return "ARRAYBUFFER"
	case BUFFER_REF:
		return "BUFFER_REF"
	case SHAREDARRAYBUFFER:
		return "SHAREDARRAYBUFFER"
	case MAP:
		return "MAP"
	case SET:
		return "SET"
	case DATE:
		return "DATE"
	case DATE_INVALID:
		return "DATE_INVALID"
	case ERROR:
		return "ERROR"
	case EVAL:
		return "EVAL"
	case RANGE:
		return "RANGE"
	case REF:
		return "REF"
	case SYNTAX:
		return "SYNTAX"
	case TYPE:
		return "TYPE"
	case URI:
		return "URI"
	case AGGREGATE:
		return "AGGREGATE"
	case CUSTOM:
		return "CUSTOM"
	case REGEX:
		return "REGEX"
	case BLOB:
		return "BLOB"
	case FILE:
		return "FILE"
	case REFERENCE:
		return "REFERENCE"
	case CIRCULAR_REF:
		return "CIRCULAR_REF"
	case SYMBOL:
		return "SYMBOL"
	case SYMBOL_GLOBAL:
		return "SYMBOL_GLOBAL"
	case SYMBOL_WELLKNOWN:
		return "SYMBOL_WELLKNOWN"
	case SYMBOL_NO_DESC:
		return "SYMBOL_NO_DESC"
	case FUNCTION_PLACEHOLDER:
		return "FUNCTION_PLACEHOLDER"
	default:
		return "UNKNOWN"
	}
}
