package pirogue

import "strings"

// Prelude is a small library of words written in the language itself,
// evaluated by New under WithPrelude(true).
//
// Each definition is a quotation followed by its name and define; since a
// defined name evaluates to its body, no prelude word may be named by a
// later definition.
var Prelude = strings.Join([]string{
	// a b -- b
	`[swap zap] nip define`,

	// a b -- b a b
	`[swap over] tuck define`,

	// n -- -n
	`[0 swap -] neg define`,

	// n -- n+1 ; n -- n-1
	`[1 +] inc define`,
	`[1 -] dec define`,

	// n -- n*n
	`[dup *] sq define`,

	// a [q] -- a a [q] ; a b [q] -- b a [q]
	// Only a quotation can be set aside by dip, so these need one on top.
	`[[dup] dip] dupd define`,
	`[[swap] dip] swapd define`,
}, " ")
