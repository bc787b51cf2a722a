/*
Package cash keeps the native coin wallets. Wallets are funded at genesis and
pay the reserve of token accounts opened by the token service.
*/
package cash
