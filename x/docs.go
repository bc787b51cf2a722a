/*
Package x contains the standard extensions of the ledger.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together to construct an application. The
Authenticator defined here is how every extension learns which
conditions (signatures or program derived authorities) a
transaction carries.
*/
package x
