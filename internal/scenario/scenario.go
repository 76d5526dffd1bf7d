package scenario

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/txtar"
)

// Section names.
const (
	SectionArgs    = "args"
	SectionStdin   = "stdin"
	SectionInFile  = "infile"
	SectionStdout  = "stdout"
	SectionStderr  = "stderr"
	SectionExit    = "exit"
	SectionOutFile = "outfile"
)

var (
	// ErrNoArgs is returned for archives without a non-empty args section.
	ErrNoArgs = errors.New("scenario has no args section")
	// ErrUnknownSection is returned for a section name Parse does not know.
	ErrUnknownSection = errors.New("unknown scenario section")
)

// Scenario is one parsed archive. Nil expectation fields are not checked.
type Scenario struct {
	Name    string
	Path    string
	Comment string

	Args   []string
	Stdin  []byte
	InFile []byte

	WantStdout  *string
	WantStderr  *string
	WantExit    int
	WantOutFile *string
}

// ParseFile reads and parses the archive at path.
func ParseFile(path string) (*Scenario, error) {
	archive, err := txtar.ParseFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading scenario")
	}
	sc, err := fromArchive(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), archive)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	sc.Path = path
	return sc, nil
}

// Parse parses data as a txtar scenario called name.
func Parse(name string, data []byte) (*Scenario, error) {
	sc, err := fromArchive(name, txtar.Parse(data))
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return sc, nil
}

func fromArchive(name string, archive *txtar.Archive) (*Scenario, error) {
	sc := &Scenario{
		Name:    name,
		Comment: strings.TrimSpace(string(archive.Comment)),
	}

	seenArgs := false
	for _, f := range archive.Files {
		data := f.Data
		switch f.Name {
		case SectionArgs:
			seenArgs = true
			sc.Args = splitArgs(string(data))
		case SectionStdin:
			sc.Stdin = data
		case SectionInFile:
			sc.InFile = data
		case SectionStdout:
			s := string(data)
			sc.WantStdout = &s
		case SectionStderr:
			s := string(data)
			sc.WantStderr = &s
		case SectionOutFile:
			s := string(data)
			sc.WantOutFile = &s
		case SectionExit:
			code, err := strconv.Atoi(strings.TrimSpace(string(data)))
			if err != nil {
				return nil, errors.Wrap(err, "invalid exit section")
			}
			sc.WantExit = code
		default:
			return nil, errors.Wrapf(ErrUnknownSection, "%q", f.Name)
		}
	}
	if !seenArgs || len(sc.Args) == 0 {
		return nil, ErrNoArgs
	}
	return sc, nil
}

// splitArgs treats every non-blank line as one argument. Lines are not
// trimmed beyond their line terminator so arguments may carry spaces.
func splitArgs(s string) []string {
	var args []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		args = append(args, line)
	}
	return args
}

// Format renders sc back into txtar form.
func (sc *Scenario) Format() []byte {
	archive := &txtar.Archive{}
	if sc.Comment != "" {
		archive.Comment = []byte(sc.Comment + "\n")
	}
	add := func(name string, data []byte) {
		archive.Files = append(archive.Files, txtar.File{Name: name, Data: data})
	}

	add(SectionArgs, []byte(strings.Join(sc.Args, "\n")))
	if sc.Stdin != nil {
		add(SectionStdin, sc.Stdin)
	}
	if sc.InFile != nil {
		add(SectionInFile, sc.InFile)
	}
	if sc.WantStdout != nil {
		add(SectionStdout, []byte(*sc.WantStdout))
	}
	if sc.WantStderr != nil {
		add(SectionStderr, []byte(*sc.WantStderr))
	}
	add(SectionExit, []byte(strconv.Itoa(sc.WantExit)))
	if sc.WantOutFile != nil {
		add(SectionOutFile, []byte(*sc.WantOutFile))
	}
	return txtar.Format(archive)
}
