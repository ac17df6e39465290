/*
Package orm stores typed objects in a KVStore.

A Bucket owns the "<name>:" key space and holds objects of one type. Each
bucket may maintain secondary indexes, unique or not, which are updated
together with the object on every write. Buckets and indexes can be
registered with a QueryRouter to serve key and prefix queries.
*/
package orm
