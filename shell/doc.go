// Package shell defines the ports and contracts connecting the
// functional core to its collaborators: the request/handler contracts
// used by the pipeline, the storage ports implemented by the
// postgresengine and memstore packages, and the dependency-free
// observability interfaces implemented by the oteladapters package.
package shell
