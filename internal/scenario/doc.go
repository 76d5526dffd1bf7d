// Package scenario drives the program under test from txtar archives.
//
// A scenario file is a txtar archive whose comment describes the case and
// whose sections describe one invocation:
//
//	Read the device id.
//	-- args --
//	--info
//	-- exit --
//	0
//
// Recognized sections are args (required, one argument per line), stdin,
// infile, stdout, stderr, exit and outfile. When infile is present its
// content is written to a temporary file that arguments reference as
// $INFILE; when outfile is present the program is expected to write $OUTFILE
// and its content is compared. stdout and stderr are compared exactly when
// present and ignored otherwise. exit defaults to 0.
//
// txtar terminates every non-empty section with a newline, so captured
// stdout, stderr and outfile content is compared the same way: a final
// newline is added when the program did not print one. Scenarios rewritten
// with Update therefore pass when run again.
package scenario
