/*
Package token implements fungible tokens held in token accounts.

A mint defines a token type. Only its authority can create new tokens.
Tokens live in accounts. Each account belongs to exactly one mint and is
controlled by an owner. The owner may be a key or a program derived
address. Opening an account locks a native coin reserve, which is released
when the empty account is closed.

Other extensions use the Controller to move tokens on behalf of owners
authenticated in the request context.
*/
package token
