package testutil

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// HelperEnvVar switches a re-executed test binary into helper mode.
const HelperEnvVar = "PICHARNESS_HELPER_PROCESS"

// HelperProgram returns the path of the running test binary, which stands in
// for the program under test.
func HelperProgram() string {
	return os.Args[0]
}

// HelperEnviron is the extra environment a helper invocation needs.
func HelperEnviron() map[string]string {
	return map[string]string{HelperEnvVar: "1"}
}

// HelperBaseArgs routes the re-executed test binary to TestHelperProcess.
func HelperBaseArgs() []string {
	return []string{"-test.run=^TestHelperProcess$", "--"}
}

// helperArity is the minimum argument count of commands that take operands.
var helperArity = map[string]int{
	"exit":   1,
	"copy":   2,
	"sleep":  1,
	"getenv": 1,
}

// HelperProcess implements a tiny fake program. Packages call it from a
// TestHelperProcess test; it returns immediately unless HelperEnvVar is set.
//
// Commands:
//
//	echo ARGS...        print ARGS joined by spaces, plus a newline
//	cat                 copy stdin to stdout
//	stderr TEXT         print TEXT to stderr
//	exit CODE           exit with CODE
//	copy SRC DST        copy file SRC to DST
//	sleep DURATION      sleep, then exit 0
//	pwd                 print the working directory
//	getenv NAME         print the value of NAME
func HelperProcess() {
	if os.Getenv(HelperEnvVar) != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "helper: no command")
		os.Exit(2)
	}

	cmd, args := args[0], args[1:]
	if n, ok := helperArity[cmd]; ok && len(args) < n {
		fmt.Fprintf(os.Stderr, "helper: %s needs %d argument(s), got %d\n", cmd, n, len(args))
		os.Exit(2)
	}
	switch cmd {
	case "echo":
		fmt.Fprintln(os.Stdout, strings.Join(args, " "))
	case "cat":
		if _, err := io.Copy(os.Stdout, os.Stdin); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "stderr":
		fmt.Fprint(os.Stderr, strings.Join(args, " "))
	case "exit":
		code, err := strconv.Atoi(args[0])
		if err != nil {
			os.Exit(2)
		}
		os.Exit(code)
	case "copy":
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := os.WriteFile(args[1], data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "sleep":
		d, err := time.ParseDuration(args[0])
		if err != nil {
			os.Exit(2)
		}
		time.Sleep(d)
	case "pwd":
		wd, _ := os.Getwd()
		fmt.Fprint(os.Stdout, wd)
	case "getenv":
		fmt.Fprint(os.Stdout, os.Getenv(args[0]))
	default:
		fmt.Fprintf(os.Stderr, "helper: unknown command %q\n", cmd)
		os.Exit(2)
	}
	os.Exit(0)
}
