// Package config loads the optional HCL harness file.
//
// The file tunes how the program under test is invoked: a per-invocation
// timeout, the working directory, extra environment variables, arguments
// prepended to every call and the default scenario location. It never names
// the program itself; that is resolved from command-line options only.
//
// Relative workdir and scenarios paths are taken relative to the directory
// holding the harness file, not the directory the harness is started from.
//
// Expressions are evaluated with the process environment available as the
// object `env` and a handful of string functions:
//
//	timeout     = "30s"
//	workdir     = "${env.HOME}/firmware"
//	base_args   = ["--gpio-clk", "11", "--gpio-data", "10"]
//	scenarios   = "testdata"
//	environment = {
//	  PIC_TARGET = upper("pic18f16q20")
//	}
package config
