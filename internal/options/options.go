package options

import "flag"

// Flag names, without the leading dashes. The flag package accepts both
// -binpath and --binpath.
const (
	FlagInFile  = "infile"
	FlagBinPath = "binpath"
)

// String is a flag.Value that remembers whether it was ever set.
type String struct {
	value string
	set   bool
}

// Set implements flag.Value.
func (s *String) Set(v string) error {
	s.value = v
	s.set = true
	return nil
}

// String implements flag.Value.
func (s *String) String() string {
	if s == nil {
		return ""
	}
	return s.value
}

// Get returns the stored value and whether the option was supplied.
func (s *String) Get() (string, bool) {
	if s == nil {
		return "", false
	}
	return s.value, s.set
}

// Options holds the values of every option registered by Register.
type Options struct {
	InFile  String
	BinPath String
}

// Register declares the harness options on fs and returns the struct their
// values are parsed into. Both options are optional and absent by default.
func Register(fs *flag.FlagSet) *Options {
	opts := &Options{}
	fs.Var(&opts.InFile, FlagInFile, "Input file path handed to the program under test (optional).")
	fs.Var(&opts.BinPath, FlagBinPath, "Path to the program under test (optional, defaults to picprogrammer on PATH).")
	return opts
}
