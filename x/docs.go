/*
Package x contains some standard extensions

Extensions implement common functionality (Handler, Decorator, etc.)
for use in weave-based applications.

This root level package contains a few interfaces and helpers, used by
the extensions in its subpackages.
*/
package x
