/*

Package ledger defines interfaces used throughout the app, such as: storage, transactions, handlers etc.
It also contains helpers to work with context, conditions, program derived addresses and abci.
Extensions under x/ build on these interfaces, the app package turns them into an ABCI application.

*/

package ledger
