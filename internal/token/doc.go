// Package token defines lexical token kinds and trivia for the lexis front end.
// Invariants:
//   - Token.Text is a slice of the original source (no copies), except for
//     missing tokens synthesized by the parser, whose Text is empty.
//   - Token.Span matches Text exactly (Start..End).
//   - Leading trivia holds everything between the previous token and this one
//     that is not on the previous token's line; Trailing holds same-line
//     trivia up to (not including) the next newline.
//   - Concatenating Leading + Text + Trailing over all tokens reproduces the
//     source buffer byte for byte.
//   - Contextual keywords (prefix, infix, message, deprecated, ...) are
//     Identifier tokens; the parser matches them by text.
package token
