// Package runner starts the program under test and captures what it did.
//
// A Runner is built from an env.Env and a set of options. Each call to Run
// starts one process, feeds it stdin, and collects stdout, stderr, the exit
// code and, when the descriptor names one, the content of the output file.
// A non-zero exit status is reported in the Result and is not an error;
// errors are reserved for processes that could not be started or ran out of
// time.
package runner
