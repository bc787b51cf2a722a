/*
Package escrow implements a two party token swap.

The initializer deposits a fixed amount of one token into a vault and
declares how much of another token it expects in return. A taker settles the
swap in a single transaction by paying the expected amount and receiving the
whole vault content. Until then the initializer can cancel and get the
deposit back.

Every vault is a token account owned by a program derived authority. No
private key exists for it. The authority is asserted only by the handlers of
this package, so vault content moves only as the swap terms dictate.

An escrow is either open, while its record exists, or closed. Exchange and
cancel both remove the record, which makes any later attempt to settle the
same escrow fail.
*/
package escrow
