package value

// RegExp represents a host regular expression literal: a source pattern
// plus its flags string, exactly the two fields §4.6 "Regex" specifies.
type RegExp struct {
	Source string
	Flags  string
}

func (*RegExp) isValue() {}
