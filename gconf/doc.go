/*
Package gconf keeps per-package configuration objects in the store.

Every configuration is a single protobuf serialized value stored under the
"_c:<package>" key. It is written at genesis from the "conf" section of the
application state and can later be patched by its owner with an update
message handled by UpdateConfigurationHandler.
*/
package gconf
