/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Every extension keeps its configuration as a single serialized object, stored
under a key derived from the extension name. Configuration is loaded from the
genesis file with InitConfig, and read back by handlers with Load.

Not being able to get a configuration value is a critical condition for the
application and there is no recovery path for the client.
*/
package gconf
