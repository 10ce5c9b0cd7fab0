package events

import "time"

// TranslateStart is emitted before a root schema is translated.
type TranslateStart struct {
	RootName  string
	Direction string
}

// TranslateFinish is emitted after a root schema was translated, whether or
// not it succeeded.
type TranslateFinish struct {
	RootName    string
	Direction   string
	TypeName    string
	Definitions int
	Err         error
	Duration    time.Duration
}

// CompileFinish is emitted once a whole project has been assembled.
type CompileFinish struct {
	Roots       int
	Definitions int
	Err         error
	Duration    time.Duration
}
