package lexer

// Kind classifies a contiguous span of CQL source text.
type Kind int

const (
	Keyword Kind = iota
	Function
	DataType
	Operator
	String
	Number
	DateTime
	Comment
	Bracket
	Punctuation
	Identifier
	Unrecognized
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "Keyword"
	case Function:
		return "Function"
	case DataType:
		return "DataType"
	case Operator:
		return "Operator"
	case String:
		return "String"
	case Number:
		return "Number"
	case DateTime:
		return "DateTime"
	case Comment:
		return "Comment"
	case Bracket:
		return "Bracket"
	case Punctuation:
		return "Punctuation"
	case Identifier:
		return "Identifier"
	case Unrecognized:
		return "Unrecognized"
	default:
		return "Unknown"
	}
}

// Token is one classified span. Start and End are byte offsets into the
// original input; Text equals input[Start:End].
type Token struct {
	Kind  Kind   `json:"kind"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}
