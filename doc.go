/* Package pirogue: a small concatenative language

A pirogue program is a sequence of words separated by spaces.  Every word
either pushes something onto a single shared stack, or pops its operands from
that stack and pushes its results back.  There are no variables and no
expressions: "3 4 +" pushes 3, pushes 4, and then "+" replaces both with 7.

There are three kinds of things on the stack:

	values       signed integers, written in source as 0..255
	symbols      any other word that is neither built in nor defined
	quotations   a block of code written between [ and ], pushed unevaluated

Quotations are how pirogue defers work.  "[1 2 +]" pushes a quotation; the
word "i" then evaluates it, leaving 3.  Words such as "cat", "cons", and
"unit" build new quotations out of old ones, so programs can construct other
programs on the stack.

A quotation may be given a name with "define":

	[dup *] sq define
	4 sq

leaves 16 on the stack.  Defining a name again shadows the old definition,
but never discards it; the dictionary keeps every definition of each word,
newest last.

Source is compiled into a compact bytecode before it runs.  Each instruction
starts with an opcode byte:

	1 PUSH    followed by one byte value
	2 SYMBOL  followed by the name's bytes and a terminating 0
	3 QUOTE   followed by one length byte and that many bytes of code

Evaluation walks that bytecode left to right.  Values and quotations are
pushed.  A symbol is resolved in three steps: a built-in primitive runs; else
a defined word has its newest definition evaluated; else the symbol itself is
pushed, which is how words like "true" serve as plain data.

Besides the stack and dictionary, a VM has a byte addressable memory,
accessed with "@" (fetch) and "!" (store).

The built-in words are documented with their implementations, see prims.go.
A few more are written in pirogue itself, see Prelude.
*/
package pirogue
