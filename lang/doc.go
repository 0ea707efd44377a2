// Package lang implements the Pravda language: a reader for its textual value
// grammar and a tree-walking interpreter with closures, multi-clause
// functions, partial application and lazy arguments.
//
// # Values
//
// Every token reads as exactly one [Value]; text that matches no literal form
// becomes a symbol. The literal forms are:
//
//	42  -1.5  2e10  inf  NaN      number
//	true  false                   bool
//	null                          null
//	"text"                        string (no escape sequences)
//	[1 "two" (three)]             list of parsed items
//	(+ 1 2)                       expression, evaluated when used
//	{ x = 1; x }                  block, run as a program when used
//	\(x y -> + x y)               lambda, also written lambda(x y -> + x y)
//
// # Programs
//
// A program is a sequence of statements separated by semicolons. A statement
// is either an expression or a definition:
//
//	name = expression
//	name param... = body
//
// Defining a function under a name already bound to a function of the same
// arity adds a clause. Clause patterns may mix parameter names with literals:
//
//	fact 0 = 1;
//	fact n = * n (fact (- n 1));
//	fact 5
//
// A call first looks for the last clause whose pattern equals the arguments
// literally, then for the newest clause made only of parameter names. Calling
// with fewer arguments than parameters returns a function of the rest, and a
// final parameter written ~rest collects any remaining arguments in a list.
//
// # Arguments
//
// Expression and block arguments are evaluated before the call. A symbol
// argument is replaced by its binding; ~name splices a list into the
// arguments and @name or lazyname passes the text after the prefix without
// evaluating it.
//
// # Scoping
//
// Every clause captures a snapshot of the environment it was defined in.
// During a call that snapshot is extended with the caller's environment, the
// caller's bindings taking precedence, and the parameters are bound on top.
// Nothing a call binds is visible to its caller.
//
// # Errors
//
// Evaluation never fails. Unbound symbols evaluate to themselves, a call that
// matches no clause yields null, and a failing foreign function yields null.
// Diagnostics such as a discarded definition are reported through the
// interpreter's logger. Unbounded recursion exhausts the goroutine stack and
// terminates the process.
package lang
